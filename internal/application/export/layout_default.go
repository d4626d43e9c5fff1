package export

import "github.com/jhoicas/impresos/internal/domain/report"

// DefaultLayout dibujo genérico de documentos comerciales: las líneas con bordes
// por defecto y el bloque de impuestos y totales empujado al pie de la página.
type DefaultLayout struct{}

var _ Layout = DefaultLayout{}

// Name identificador del layout.
func (DefaultLayout) Name() string { return "default" }

// AddBusinessDocPage cabecera, cuerpo y pie del documento en una página nueva.
func (DefaultLayout) AddBusinessDocPage(e *PDFExport, data *DocumentData) error {
	e.ResolveFormat(data)
	e.StartPage(data)

	e.InsertHeader(data.Company)
	e.InsertBusinessDocHeader(data.Document)
	e.layout.InsertBusinessDocBody(e, data)
	e.layout.InsertBusinessDocFooter(e, data)
	return nil
}

// InsertBusinessDocBody tabla de líneas.
func (DefaultLayout) InsertBusinessDocBody(e *PDFExport, data *DocumentData) {
	e.InsertLinesTables(data.Document, report.DefaultLine)
}

// InsertBusinessDocFooter observaciones y, al pie de la página, impuestos, totales,
// forma de pago y texto del formato.
func (DefaultLayout) InsertBusinessDocFooter(e *PDFExport, data *DocumentData) {
	doc := data.Document
	e.InsertObservations(doc, false)

	e.canvas.PushToBottom(TotalsBlockHeight)

	if taxes, ok := e.TaxesTable(data, report.DefaultLine); ok {
		e.canvas.Table(taxes)
		e.canvas.Text("\n", FontSize)
	}
	e.canvas.Table(e.TotalsTable(data, false, report.DefaultLine))

	if doc.CustomerCode != "" {
		e.layout.InsertInvoicePayMethod(e, data)
	}
	if text := e.FormatText(); text != "" {
		e.canvas.Text("\n"+text, FontSize)
	}
}

// InsertInvoicePayMethod forma de pago con la fecha de vencimiento del documento.
func (DefaultLayout) InsertInvoicePayMethod(e *PDFExport, data *DocumentData) {
	e.canvas.Text("\n", FontSize)
	e.canvas.Table(e.PayMethodTable(data, formatTime(data.Document.DueDate), report.DefaultLine))
}
