package entity

import "github.com/shopspring/decimal"

// Currency divisa de un documento.
type Currency struct {
	Code   string
	Name   string
	Symbol string
}

// PaymentMethod forma de pago.
type PaymentMethod struct {
	Code         string
	CompanyID    string
	Description  string
	IBAN         string
	PrintAccount bool // imprimir la cuenta bancaria en los documentos
}

// Tax impuesto (IVA) con su recargo de equivalencia.
type Tax struct {
	Code        string
	Description string
	Rate        decimal.Decimal
	Surcharge   decimal.Decimal
}

// DocumentFormat formato de impresión configurable por empresa y tipo de documento.
type DocumentFormat struct {
	ID         string
	Name       string
	CompanyID  string // vacío = todas las empresas
	ModelClass string // vacío = todos los documentos
	Title      string // sustituye el título del documento si no está vacío
	Text       string // texto libre al pie (puede contener entidades HTML)
}
