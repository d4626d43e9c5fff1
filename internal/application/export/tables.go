package export

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/impresos/internal/domain/entity"
	"github.com/jhoicas/impresos/internal/domain/report"
)

// Tipos de columna de la tabla de líneas.
const (
	ColumnText       = "text"
	ColumnNumber     = "number"
	ColumnPercentage = "percentage"
)

// Claves de la tabla de líneas.
const (
	LineReference = "reference"
	LineQuantity  = "quantity"
	LinePrice     = "price"
	LineDiscount  = "dto"
	LineDiscount2 = "dto-2"
	LineNet       = "net"
	LineTax       = "tax"
	LineSurcharge = "re"
	LineRetention = "irpf"
)

// priceKeys columnas que se ocultan en las líneas con precio oculto.
var priceKeys = map[string]bool{
	LinePrice: true, LineDiscount: true, LineDiscount2: true, LineNet: true,
	LineTax: true, LineSurcharge: true, LineRetention: true,
}

// LineHeader columna de la tabla de líneas.
type LineHeader struct {
	Key   string
	Type  string
	Title string
}

// LineHeaders columnas de la tabla de líneas en orden.
func (e *PDFExport) LineHeaders() []LineHeader {
	return []LineHeader{
		{Key: LineReference, Type: ColumnText, Title: e.Trans("reference") + " - " + e.Trans("description")},
		{Key: LineQuantity, Type: ColumnNumber, Title: e.Trans("quantity")},
		{Key: LinePrice, Type: ColumnNumber, Title: e.Trans("price")},
		{Key: LineDiscount, Type: ColumnPercentage, Title: e.Trans("dto")},
		{Key: LineDiscount2, Type: ColumnPercentage, Title: e.Trans("dto-2")},
		{Key: LineNet, Type: ColumnNumber, Title: e.Trans("net")},
		{Key: LineTax, Type: ColumnPercentage, Title: e.Trans("tax")},
		{Key: LineSurcharge, Type: ColumnPercentage, Title: e.Trans("re")},
		{Key: LineRetention, Type: ColumnPercentage, Title: e.Trans("irpf")},
	}
}

// lineColumns convierte las cabeceras en columnas; números y porcentajes a la derecha.
func lineColumns(headers []LineHeader) []report.Column {
	cols := make([]report.Column, 0, len(headers))
	for _, h := range headers {
		c := report.Column{Key: h.Key, Title: h.Title, Justification: report.JustifyLeft, Weight: 1}
		switch h.Type {
		case ColumnNumber, ColumnPercentage:
			c.Justification = report.JustifyRight
		}
		if h.Key == LineReference {
			c.Weight = 5
		}
		cols = append(cols, c)
	}
	return cols
}

// LineRow fila de vista de una línea del documento.
func (e *PDFExport) LineRow(line *entity.BusinessDocumentLine, headers []LineHeader) report.Row {
	row := make(report.Row, len(headers))
	for _, h := range headers {
		if line.HidesPrice() && priceKeys[h.Key] {
			continue
		}
		switch {
		case h.Key == LineReference:
			if line.Reference == "" {
				row[h.Key] = report.FixHTML(line.Description)
			} else {
				row[h.Key] = report.FixHTML(line.Reference + " - " + line.Description)
			}
		case h.Key == LineQuantity && line.ShowQuantity != nil:
			if *line.ShowQuantity {
				row[h.Key] = line.Quantity.String()
			} else {
				row[h.Key] = ""
			}
		case h.Type == ColumnPercentage:
			row[h.Key] = e.Percent(lineValue(line, h.Key))
		case h.Type == ColumnNumber:
			row[h.Key] = e.Number(lineValue(line, h.Key))
		}
	}
	return row
}

// InsertLinesTables dibuja la tabla de líneas. Una línea con salto de página
// cierra la tabla en curso y continúa en la página siguiente.
func (e *PDFExport) InsertLinesTables(doc *entity.BusinessDocument, thickness float64) {
	headers := e.LineHeaders()
	columns := lineColumns(headers)
	options := report.ShadedOptions(thickness)

	var rows []report.Row
	flush := func() {
		t := report.Table{Columns: columns, Rows: rows, Options: options}
		t.RemoveEmptyCols(e.Zero())
		e.canvas.Table(t)
		rows = nil
	}

	for i := range doc.Lines {
		line := &doc.Lines[i]
		rows = append(rows, e.LineRow(line, headers))
		if line.PageBreak {
			flush()
			e.canvas.NewPage()
		}
	}
	if len(rows) > 0 {
		flush()
	}
}

// TaxesTable desglose de impuestos; ok = false si hay un solo tipo (o ninguno).
func (e *PDFExport) TaxesTable(data *DocumentData, thickness float64) (t report.Table, ok bool) {
	rows := report.TaxRows(data.Document, data.taxNames(), e.numbers)
	if len(rows) <= 1 {
		return report.Table{}, false
	}
	t = report.Table{
		Columns: []report.Column{
			{Key: report.KeyTax, Title: e.Trans("tax"), Justification: report.JustifyRight},
			{Key: report.KeyTaxBase, Title: e.Trans("tax-base"), Justification: report.JustifyRight},
			{Key: report.KeyTaxPercent, Title: e.Trans("percentage"), Justification: report.JustifyRight},
			{Key: report.KeyTaxAmount, Title: e.Trans("amount"), Justification: report.JustifyRight},
			{Key: report.KeySurchargePct, Title: e.Trans("re"), Justification: report.JustifyRight},
			{Key: report.KeySurchargeAmnt, Title: e.Trans("amount"), Justification: report.JustifyRight},
		},
		Rows:    rows,
		Options: report.ShadedOptions(thickness),
	}
	t.RemoveEmptyCols(e.Zero())
	return t, true
}

// Claves de la tabla de totales.
const (
	TotalCurrency  = "currency"
	TotalSubtotal  = "subtotal"
	TotalDiscount  = "dto"
	TotalDiscount2 = "dto-2"
	TotalNet       = "net"
	TotalTaxes     = "taxes"
	TotalSurcharge = "totalSurcharge"
	TotalIrpf      = "totalIrpf"
	TotalSupplied  = "totalSupplied"
	TotalTotal     = "total"
)

// TotalsTable tabla resumen: divisa, subtotal, descuentos, neto, impuestos y total.
// El subtotal solo aparece si difiere del neto; la retención se muestra en negativo.
func (e *PDFExport) TotalsTable(data *DocumentData, boldTotal bool, thickness float64) report.Table {
	doc := data.Document
	right := report.JustifyRight

	subtotal := doc.NetBeforeDiscount
	if subtotal.Equal(doc.Net) {
		subtotal = decimal.Zero
	}
	total := e.Number(doc.Total)
	if boldTotal {
		total = report.Bold(total)
	}

	t := report.Table{
		Columns: []report.Column{
			{Key: TotalCurrency, Title: e.Trans("currency"), Justification: report.JustifyLeft},
			{Key: TotalSubtotal, Title: e.Trans("subtotal"), Justification: right},
			{Key: TotalDiscount, Title: e.Trans("global-dto"), Justification: right},
			{Key: TotalDiscount2, Title: e.Trans("global-dto-2"), Justification: right},
			{Key: TotalNet, Title: e.Trans("net"), Justification: right},
			{Key: TotalTaxes, Title: e.Trans("taxes"), Justification: right},
			{Key: TotalSurcharge, Title: e.Trans("re"), Justification: right},
			{Key: TotalIrpf, Title: e.Trans("retention"), Justification: right},
			{Key: TotalSupplied, Title: e.Trans("supplied-amount"), Justification: right},
			{Key: TotalTotal, Title: e.Trans("total"), Justification: right},
		},
		Rows: []report.Row{{
			TotalCurrency:  e.CurrencyName(data),
			TotalSubtotal:  e.Number(subtotal),
			TotalDiscount:  e.Percent(doc.GlobalDiscount1),
			TotalDiscount2: e.Percent(doc.GlobalDiscount2),
			TotalNet:       e.Number(doc.Net),
			TotalTaxes:     e.Number(doc.TotalTax),
			TotalSurcharge: e.Number(doc.TotalSurcharge),
			TotalIrpf:      e.Number(doc.TotalRetention.Neg()),
			TotalSupplied:  e.Number(doc.TotalSupplied),
			TotalTotal:     total,
		}},
		Options: report.ShadedOptions(thickness),
	}
	t.RemoveEmptyCols(e.Zero())
	return t
}

// PayMethodTable fila con la forma de pago y el vencimiento.
func (e *PDFExport) PayMethodTable(data *DocumentData, expiration string, thickness float64) report.Table {
	return report.Table{
		Columns: []report.Column{
			{Key: "method", Title: e.Trans("payment-method"), Justification: report.JustifyLeft, Weight: 3},
			{Key: "expiration", Title: e.Trans("expiration"), Justification: report.JustifyRight, Weight: 1},
		},
		Rows:    []report.Row{{"method": e.BankData(data), "expiration": expiration}},
		Options: report.ShadedOptions(thickness),
	}
}

// InsertObservations título, regla fina y observaciones del documento.
func (e *PDFExport) InsertObservations(doc *entity.BusinessDocument, thin bool) {
	if doc.Observations == "" {
		return
	}
	e.canvas.Text("\n"+e.Trans("observations")+"\n", FontSize)
	if thin {
		e.NewThinLine()
	} else {
		e.NewLine()
	}
	e.canvas.Text(report.FixHTML(doc.Observations)+"\n", FontSize)
}
