package entity

import "time"

// Company representa la empresa emisora de los documentos (multi-empresa).
type Company struct {
	ID        string
	Name      string
	TaxID     string // CIF/NIF
	Address   string
	City      string
	Phone     string
	Email     string
	Web       string
	CreatedAt time.Time
	UpdatedAt time.Time
}
