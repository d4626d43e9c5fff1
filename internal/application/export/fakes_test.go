package export_test

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/impresos/internal/application/export"
	"github.com/jhoicas/impresos/internal/domain/entity"
	"github.com/jhoicas/impresos/internal/domain/report"
)

// ──────────────────────────────────────────────────────────────────────────────
// Canvas en memoria: registra cada llamada en orden
// ──────────────────────────────────────────────────────────────────────────────

const (
	opNewPage   = "newpage"
	opText      = "text"
	opTable     = "table"
	opLineStyle = "linestyle"
	opLine      = "line"
	opBottom    = "bottom"
)

type op struct {
	kind      string
	text      string
	table     report.Table
	thickness float64
}

type fakeCanvas struct {
	meta      export.CanvasMeta
	ops       []op
	lineStyle float64
}

func (c *fakeCanvas) NewPage() { c.ops = append(c.ops, op{kind: opNewPage}) }
func (c *fakeCanvas) Text(v string, _ float64) {
	c.ops = append(c.ops, op{kind: opText, text: v})
}
func (c *fakeCanvas) Table(t report.Table) { c.ops = append(c.ops, op{kind: opTable, table: t}) }
func (c *fakeCanvas) SetLineStyle(th float64) {
	c.lineStyle = th
	c.ops = append(c.ops, op{kind: opLineStyle, thickness: th})
}
func (c *fakeCanvas) Line() { c.ops = append(c.ops, op{kind: opLine, thickness: c.lineStyle}) }
func (c *fakeCanvas) PushToBottom(h float64) {
	c.ops = append(c.ops, op{kind: opBottom, thickness: h})
}
func (c *fakeCanvas) Output() ([]byte, error) { return []byte("%PDF-fake"), nil }

// tables devuelve las tablas dibujadas con encabezados (descarta la tabla de cabecera del documento).
func (c *fakeCanvas) tables() []report.Table {
	var out []report.Table
	for _, o := range c.ops {
		if o.kind == opTable && !o.table.Options.HideHeadings {
			out = append(out, o.table)
		}
	}
	return out
}

// tableWith busca la tabla que contiene la columna key.
func (c *fakeCanvas) tableWith(key string) (report.Table, bool) {
	for _, t := range c.tables() {
		if t.HasColumn(key) {
			return t, true
		}
	}
	return report.Table{}, false
}

// indexOf posición de la primera operación que cumple pred; -1 si ninguna.
func (c *fakeCanvas) indexOf(pred func(op) bool) int {
	for i, o := range c.ops {
		if pred(o) {
			return i
		}
	}
	return -1
}

func (c *fakeCanvas) count(kind string) int {
	n := 0
	for _, o := range c.ops {
		if o.kind == kind {
			n++
		}
	}
	return n
}

func textContains(s string) func(op) bool {
	return func(o op) bool { return o.kind == opText && strings.Contains(o.text, s) }
}

func tableHas(key string) func(op) bool {
	return func(o op) bool { return o.kind == opTable && o.table.HasColumn(key) }
}

type canvasRecorder struct {
	canvases []*fakeCanvas
}

func (r *canvasRecorder) factory(meta export.CanvasMeta) export.Canvas {
	c := &fakeCanvas{meta: meta}
	r.canvases = append(r.canvases, c)
	return c
}

func (r *canvasRecorder) last() *fakeCanvas {
	return r.canvases[len(r.canvases)-1]
}

// identityTranslator devuelve la clave como traducción.
type identityTranslator struct{}

func (identityTranslator) Trans(key string) string { return key }
func (identityTranslator) Language() string        { return "xx" }

// ──────────────────────────────────────────────────────────────────────────────
// Datos de prueba
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func boolPtr(b bool) *bool { return &b }

// quoteData presupuesto con dos líneas al 21%, sin descuentos globales y con cliente.
func quoteData() *export.DocumentData {
	doc := &entity.BusinessDocument{
		ID:                "doc-1",
		ModelClass:        entity.ModelPresupuestoCliente,
		CompanyID:         "company-1",
		Code:              "PRE2024-7",
		Number:            "7",
		Date:              time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		CustomerCode:      "C001",
		CustomerName:      "Talleres Pérez",
		CustomerTaxID:     "B12345678",
		CurrencyCode:      "EUR",
		PaymentMethodCode: "TRANS",
		NetBeforeDiscount: dec("300"),
		Net:               dec("300"),
		TotalTax:          dec("63"),
		Total:             dec("363"),
		OfferExpiration:   time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		Observations:      "Portes &quot;incluidos&quot;",
		Lines: []entity.BusinessDocumentLine{
			{Reference: "REF1", Description: "Tornillo", Quantity: dec("2"), UnitPrice: dec("50"), LineTotal: dec("100"), TaxCode: "IVA21", TaxRate: dec("21")},
			{Description: "Mano de obra", Quantity: dec("1"), UnitPrice: dec("200"), LineTotal: dec("200"), TaxCode: "IVA21", TaxRate: dec("21")},
		},
	}
	return &export.DocumentData{
		Document:      doc,
		Company:       &entity.Company{ID: "company-1", Name: "Impresos SL", TaxID: "B00000000"},
		Currency:      &entity.Currency{Code: "EUR", Name: "Euros", Symbol: "€"},
		PaymentMethod: &entity.PaymentMethod{Code: "TRANS", Description: "Transferencia", IBAN: "ES9121000418450200051332", PrintAccount: true},
		Taxes:         []entity.Tax{{Code: "IVA21", Description: "IVA 21%", Rate: dec("21")}},
		Format:        &entity.DocumentFormat{Text: "Oferta v&aacute;lida 30 d&iacute;as"},
	}
}

// invoiceData la misma información como factura, sin cliente.
func invoiceData() *export.DocumentData {
	data := quoteData()
	data.Document.ModelClass = entity.ModelFacturaCliente
	data.Document.CustomerCode = ""
	data.Document.OfferExpiration = time.Time{}
	return data
}
