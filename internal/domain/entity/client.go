package entity

import "time"

// Client representa un inquilino o cliente al que se emiten facturas y recibos.
type Client struct {
	ID        string
	Name      string
	NIF       string
	Email     string
	Phone     string
	Address   string
	City      string
	Province  string
	PostCode  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
