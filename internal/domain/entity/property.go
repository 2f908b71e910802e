package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property representa un inmueble administrado.
type Property struct {
	ID           string
	OwnerID      string
	Alias        string // Nombre corto con el que se gestiona ("Piso Goya 12 3ºB")
	Address      string
	City         string
	Province     string
	PostCode     string
	CadastralRef string // Referencia catastral
	MonthlyRent  decimal.Decimal
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
