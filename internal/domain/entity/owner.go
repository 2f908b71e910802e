package entity

import "time"

// Owner representa un propietario de inmuebles (sujeto de las facturas).
type Owner struct {
	ID        string
	Name      string
	NIF       string
	Email     string
	Phone     string
	Address   string
	City      string
	Province  string
	PostCode  string
	IBAN      string // Cuenta de abono para liquidaciones
	CreatedAt time.Time
	UpdatedAt time.Time
}
