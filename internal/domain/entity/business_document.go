package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subtipos de documento comercial (clase del modelo en la aplicación de gestión).
const (
	ModelPresupuestoCliente = "PresupuestoCliente" // presupuesto a cliente
	ModelPedidoCliente      = "PedidoCliente"
	ModelAlbaranCliente     = "AlbaranCliente"
	ModelFacturaCliente     = "FacturaCliente"
)

// IsKnownModel indica si la clase de documento es soportada por la exportación.
func IsKnownModel(modelClass string) bool {
	switch modelClass {
	case ModelPresupuestoCliente, ModelPedidoCliente, ModelAlbaranCliente, ModelFacturaCliente:
		return true
	}
	return false
}

// BusinessDocument cabecera de un documento comercial con sus totales ya calculados.
type BusinessDocument struct {
	ID                string
	ModelClass        string
	CompanyID         string
	Code              string
	Number            string
	Date              time.Time
	CustomerCode      string // vacío = documento sin cliente
	CustomerName      string
	CustomerTaxID     string
	Address           string
	City              string
	CurrencyCode      string
	PaymentMethodCode string
	GlobalDiscount1   decimal.Decimal // dtopor1, porcentaje
	GlobalDiscount2   decimal.Decimal // dtopor2, porcentaje
	NetBeforeDiscount decimal.Decimal // neto sin descuentos globales
	Net               decimal.Decimal
	TotalTax          decimal.Decimal
	TotalSurcharge    decimal.Decimal // recargo de equivalencia
	TotalRetention    decimal.Decimal // IRPF
	TotalSupplied     decimal.Decimal // suplidos
	Total             decimal.Decimal
	OfferExpiration   time.Time // solo presupuestos; cero = sin fecha
	DueDate           time.Time
	Observations      string
	Lines             []BusinessDocumentLine
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsQuote indica si el documento es un presupuesto a cliente.
func (d *BusinessDocument) IsQuote() bool {
	return d.ModelClass == ModelPresupuestoCliente
}

// EUDiscount factor multiplicador de los dos descuentos globales.
// Ej: 10% y 5% → 0.9 * 0.95 = 0.855
func (d *BusinessDocument) EUDiscount() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	one := decimal.NewFromInt(1)
	f1 := one.Sub(d.GlobalDiscount1.Div(hundred))
	f2 := one.Sub(d.GlobalDiscount2.Div(hundred))
	return f1.Mul(f2)
}

// BusinessDocumentLine línea de un documento comercial.
type BusinessDocumentLine struct {
	ID            string
	DocumentID    string
	Position      int
	Reference     string
	Description   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Discount      decimal.Decimal
	Discount2     decimal.Decimal
	LineTotal     decimal.Decimal // pvptotal
	TaxCode       string
	TaxRate       decimal.Decimal
	SurchargeRate decimal.Decimal
	RetentionRate decimal.Decimal
	Supplied      bool
	ShowPrice     *bool // nil = la línea no define la opción
	ShowQuantity  *bool // nil = la línea no define la opción
	PageBreak     bool
}

// HidesPrice indica si la línea pide explícitamente ocultar precios.
func (l *BusinessDocumentLine) HidesPrice() bool {
	return l.ShowPrice != nil && !*l.ShowPrice
}
