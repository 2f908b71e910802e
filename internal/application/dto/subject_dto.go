package dto

import "github.com/shopspring/decimal"

// OwnerRequest alta/modificación de propietario.
type OwnerRequest struct {
	Name     string `json:"name"`
	NIF      string `json:"nif"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Province string `json:"province"`
	PostCode string `json:"post_code"`
	IBAN     string `json:"iban"`
}

// OwnerResponse propietario.
type OwnerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NIF      string `json:"nif"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	PostCode string `json:"post_code,omitempty"`
	IBAN     string `json:"iban,omitempty"`
}

// ClientRequest alta/modificación de inquilino o cliente.
type ClientRequest struct {
	Name     string `json:"name"`
	NIF      string `json:"nif"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Province string `json:"province"`
	PostCode string `json:"post_code"`
}

// ClientResponse inquilino o cliente.
type ClientResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NIF      string `json:"nif"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	PostCode string `json:"post_code,omitempty"`
}

// PropertyRequest alta/modificación de inmueble.
type PropertyRequest struct {
	OwnerID      string          `json:"owner_id"`
	Alias        string          `json:"alias"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	Province     string          `json:"province"`
	PostCode     string          `json:"post_code"`
	CadastralRef string          `json:"cadastral_ref"`
	MonthlyRent  decimal.Decimal `json:"monthly_rent"`
	Active       *bool           `json:"active"`
}

// PropertyResponse inmueble.
type PropertyResponse struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"owner_id"`
	Alias        string          `json:"alias"`
	Address      string          `json:"address,omitempty"`
	City         string          `json:"city,omitempty"`
	Province     string          `json:"province,omitempty"`
	PostCode     string          `json:"post_code,omitempty"`
	CadastralRef string          `json:"cadastral_ref,omitempty"`
	MonthlyRent  decimal.Decimal `json:"monthly_rent"`
	Active       bool            `json:"active"`
}
