// Package export dibuja documentos comerciales en PDF.
//
// PDFExport hace de renderizador base: gestiona páginas, cabeceras y los helpers
// de formato. El orden y el contenido de cada sección los decide un Layout.
// DefaultLayout reproduce el comportamiento genérico (totales al pie de la página);
// QuoteLayout lo sustituye para presupuestos y coloca el desglose de impuestos y
// los totales justo debajo de la tabla de líneas.
//
// Los layouts invocan los ganchos a través de e.layout, de modo que un layout que
// envuelve a otro intercepta también las llamadas que hace el layout envuelto.
package export

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/impresos/internal/domain"
	"github.com/jhoicas/impresos/internal/domain/entity"
	"github.com/jhoicas/impresos/internal/domain/report"
)

const (
	// FontSize tamaño de letra de los textos sueltos.
	FontSize = 9.0
	// TitleSize tamaño del título del documento.
	TitleSize = 12.0
	// TotalsBlockHeight altura (mm) reservada al pie para el bloque de totales genérico.
	TotalsBlockHeight = 70.0
	// DateFormat formato de fechas impresas.
	DateFormat = "02-01-2006"
)

// Layout ganchos sobrescribibles del dibujo de un documento comercial.
type Layout interface {
	Name() string
	AddBusinessDocPage(e *PDFExport, data *DocumentData) error
	InsertBusinessDocBody(e *PDFExport, data *DocumentData)
	InsertBusinessDocFooter(e *PDFExport, data *DocumentData)
	InsertInvoicePayMethod(e *PDFExport, data *DocumentData)
}

// PDFExport estado de una exportación: un PDF con uno o varios documentos.
// No es seguro para uso concurrente; se crea uno por petición.
type PDFExport struct {
	canvas         Canvas
	newCanvas      CanvasFactory
	layout         Layout
	i18n           Translator
	numbers        report.NumberFormat
	format         *entity.DocumentFormat
	insertedHeader bool
}

// Option configura el exportador.
type Option func(*PDFExport)

// WithLayout fija el layout activo (por defecto DefaultLayout).
func WithLayout(l Layout) Option {
	return func(e *PDFExport) {
		if l != nil {
			e.layout = l
		}
	}
}

// WithNumberFormat fija el formato numérico (por defecto report.DefaultNumberFormat).
func WithNumberFormat(nf report.NumberFormat) Option {
	return func(e *PDFExport) { e.numbers = nf }
}

// NewPDFExport construye el exportador. El canvas se crea al añadir la primera página.
func NewPDFExport(newCanvas CanvasFactory, i18n Translator, opts ...Option) *PDFExport {
	e := &PDFExport{
		newCanvas: newCanvas,
		layout:    DefaultLayout{},
		i18n:      i18n,
		numbers:   report.DefaultNumberFormat(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddBusinessDocPage añade el documento en página nueva usando el layout activo.
func (e *PDFExport) AddBusinessDocPage(data *DocumentData) error {
	if data == nil || data.Document == nil {
		return domain.ErrInvalidInput
	}
	return e.layout.AddBusinessDocPage(e, data)
}

// Output devuelve el PDF generado.
func (e *PDFExport) Output() ([]byte, error) {
	if e.canvas == nil {
		return nil, domain.ErrInvalidInput
	}
	return e.canvas.Output()
}

// Layout layout activo.
func (e *PDFExport) Layout() Layout { return e.layout }

// Canvas canvas actual; nil antes de la primera página.
func (e *PDFExport) Canvas() Canvas { return e.canvas }

// Format formato de impresión resuelto por la primera página.
func (e *PDFExport) Format() *entity.DocumentFormat { return e.format }

// ── Ciclo de página ───────────────────────────────────────────────────────────

// ResolveFormat fija el formato la primera vez; las páginas siguientes lo reutilizan.
func (e *PDFExport) ResolveFormat(data *DocumentData) {
	if e.format != nil {
		return
	}
	if data.Format != nil {
		e.format = data.Format
		return
	}
	e.format = &entity.DocumentFormat{}
}

// StartPage crea el canvas en la primera página o salta de página en las siguientes.
func (e *PDFExport) StartPage(data *DocumentData) {
	if e.canvas == nil {
		e.canvas = e.newCanvas(CanvasMeta{
			Title:  e.DocumentTitle(data.Document) + " " + data.Document.Code,
			Author: companyName(data.Company),
		})
		e.insertedHeader = false
		return
	}
	e.canvas.NewPage()
	e.insertedHeader = false
}

// InsertHeader datos de la empresa; solo una vez por página.
func (e *PDFExport) InsertHeader(company *entity.Company) {
	if e.insertedHeader || company == nil {
		return
	}
	e.insertedHeader = true

	e.canvas.Text(report.Bold(company.Name), TitleSize)
	info := joinNonEmpty(" - ", company.TaxID, company.Address, company.City)
	if info != "" {
		e.canvas.Text(info, FontSize)
	}
	contact := joinNonEmpty(" - ", company.Phone, company.Email, company.Web)
	if contact != "" {
		e.canvas.Text(contact, FontSize)
	}
	e.canvas.Line()
}

// InsertBusinessDocHeader título del documento y datos del cliente.
func (e *PDFExport) InsertBusinessDocHeader(doc *entity.BusinessDocument) {
	e.canvas.Text("\n"+report.Bold(e.DocumentTitle(doc)+": "+doc.Code), TitleSize)

	rows := []report.Row{
		{"key": e.Trans("date"), "value": formatDate(doc), "key2": e.Trans("number"), "value2": doc.Number},
	}
	if doc.CustomerName != "" || doc.CustomerTaxID != "" {
		rows = append(rows, report.Row{
			"key": e.Trans("customer"), "value": report.FixHTML(doc.CustomerName),
			"key2": e.Trans("cifnif"), "value2": doc.CustomerTaxID,
		})
	}
	if address := joinNonEmpty(", ", doc.Address, doc.City); address != "" {
		rows = append(rows, report.Row{"key": e.Trans("address"), "value": report.FixHTML(address)})
	}

	e.canvas.Text("\n", FontSize)
	e.canvas.Table(report.Table{
		Columns: []report.Column{
			{Key: "key", Weight: 1},
			{Key: "value", Weight: 2},
			{Key: "key2", Weight: 1},
			{Key: "value2", Weight: 2},
		},
		Rows:    rows,
		Options: report.TableOptions{HideHeadings: true, Plain: true},
	})
	e.canvas.Text("\n", FontSize)
}

// NewLine regla horizontal con el estilo actual del canvas.
func (e *PDFExport) NewLine() {
	e.canvas.Line()
}

// NewThinLine regla horizontal fina.
func (e *PDFExport) NewThinLine() {
	e.canvas.SetLineStyle(report.ThinLine)
	e.canvas.Line()
}

// ── Helpers de formato ────────────────────────────────────────────────────────

// Trans traduce key.
func (e *PDFExport) Trans(key string) string {
	if e.i18n == nil {
		return key
	}
	return e.i18n.Trans(key)
}

// Number formatea un importe.
func (e *PDFExport) Number(v decimal.Decimal) string { return e.numbers.Format(v) }

// Percent formatea un porcentaje.
func (e *PDFExport) Percent(v decimal.Decimal) string { return e.numbers.Percent(v) }

// Zero cero formateado: valor "vacío" para RemoveEmptyCols.
func (e *PDFExport) Zero() string { return e.numbers.Zero() }

// DocumentTitle título del formato o el nombre traducido del tipo de documento.
func (e *PDFExport) DocumentTitle(doc *entity.BusinessDocument) string {
	if e.format != nil && e.format.Title != "" {
		return e.format.Title
	}
	return e.Trans(doc.ModelClass)
}

// CurrencyName nombre de la divisa del documento, o su código si no se conoce.
func (e *PDFExport) CurrencyName(data *DocumentData) string {
	if data.Currency != nil && data.Currency.Name != "" {
		return data.Currency.Name
	}
	return data.Document.CurrencyCode
}

// BankData descripción de la forma de pago y, si procede, la cuenta bancaria.
func (e *PDFExport) BankData(data *DocumentData) string {
	pm := data.PaymentMethod
	if pm == nil {
		return data.Document.PaymentMethodCode
	}
	if pm.PrintAccount && pm.IBAN != "" {
		return pm.Description + "\n" + e.Trans("iban") + ": " + formatIBAN(pm.IBAN)
	}
	return pm.Description
}

// FormatText texto libre del formato de impresión, decodificado.
func (e *PDFExport) FormatText() string {
	if e.format == nil || e.format.Text == "" {
		return ""
	}
	return report.FixHTML(e.format.Text)
}
