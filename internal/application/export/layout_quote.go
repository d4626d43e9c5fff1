package export

import (
	"fmt"

	"github.com/jhoicas/impresos/internal/domain"
	"github.com/jhoicas/impresos/internal/domain/entity"
	"github.com/jhoicas/impresos/internal/domain/report"
)

// QuoteVariant variante del layout de presupuestos.
type QuoteVariant string

const (
	// QuoteInline totales tras las líneas, bordes finos, total en negrita y
	// observaciones al final.
	QuoteInline QuoteVariant = "inline"
	// QuoteProforma observaciones primero y tablas de totales con bordes por defecto.
	QuoteProforma QuoteVariant = "proforma"
)

// ParseQuoteVariant interpreta el nombre de la variante; ok = false si no se conoce.
func ParseQuoteVariant(s string) (QuoteVariant, bool) {
	switch QuoteVariant(s) {
	case QuoteInline, QuoteProforma:
		return QuoteVariant(s), true
	}
	return "", false
}

// QuoteLayout sustituye el dibujo de los presupuestos a cliente. Cualquier otro
// tipo de documento se delega en Parent.
type QuoteLayout struct {
	Parent  Layout
	Variant QuoteVariant
}

var _ Layout = (*QuoteLayout)(nil)

// NewQuoteLayout layout de presupuestos sobre DefaultLayout.
func NewQuoteLayout(variant QuoteVariant) *QuoteLayout {
	if variant == "" {
		variant = QuoteInline
	}
	return &QuoteLayout{Parent: DefaultLayout{}, Variant: variant}
}

// Name identificador del layout.
func (l *QuoteLayout) Name() string { return "quote-" + string(l.Variant) }

func (l *QuoteLayout) handles(doc *entity.BusinessDocument) bool {
	return doc.ModelClass == entity.ModelPresupuestoCliente
}

// AddBusinessDocPage como el genérico, con estilo de línea fino en la variante inline.
func (l *QuoteLayout) AddBusinessDocPage(e *PDFExport, data *DocumentData) error {
	if !l.handles(data.Document) {
		return l.Parent.AddBusinessDocPage(e, data)
	}

	e.ResolveFormat(data)
	e.StartPage(data)

	if l.Variant == QuoteInline {
		// la línea separadora de la cabecera sale fina
		e.canvas.SetLineStyle(report.ThinLine)
	}

	e.InsertHeader(data.Company)
	e.InsertBusinessDocHeader(data.Document)
	e.layout.InsertBusinessDocBody(e, data)
	e.layout.InsertBusinessDocFooter(e, data)
	return nil
}

// InsertBusinessDocBody tabla de líneas con bordes finos.
func (l *QuoteLayout) InsertBusinessDocBody(e *PDFExport, data *DocumentData) {
	if !l.handles(data.Document) {
		l.Parent.InsertBusinessDocBody(e, data)
		return
	}
	e.InsertLinesTables(data.Document, report.ThinLine)
}

// InsertBusinessDocFooter impuestos y totales a continuación de las líneas.
func (l *QuoteLayout) InsertBusinessDocFooter(e *PDFExport, data *DocumentData) {
	if !l.handles(data.Document) {
		l.Parent.InsertBusinessDocFooter(e, data)
		return
	}

	doc := data.Document
	thickness, boldTotal := report.ThinLine, true
	if l.Variant == QuoteProforma {
		thickness, boldTotal = 0, false
		e.InsertObservations(doc, true)
	}

	e.canvas.Text("\n", FontSize)

	if taxes, ok := e.TaxesTable(data, thickness); ok {
		e.canvas.Table(taxes)
		e.canvas.Text("\n", FontSize)
	}
	e.canvas.Table(e.TotalsTable(data, boldTotal, thickness))

	if doc.CustomerCode != "" {
		e.layout.InsertInvoicePayMethod(e, data)
	}
	if !doc.OfferExpiration.IsZero() {
		e.canvas.Text("\n"+e.Trans("expiration")+": "+formatTime(doc.OfferExpiration), FontSize)
	}
	if text := e.FormatText(); text != "" {
		e.canvas.Text("\n"+text, FontSize)
	}

	if l.Variant == QuoteInline {
		e.InsertObservations(doc, true)
	}
}

// InsertInvoicePayMethod forma de pago con bordes finos y la fecha fin de oferta.
// Se aplica a todos los tipos de documento.
func (l *QuoteLayout) InsertInvoicePayMethod(e *PDFExport, data *DocumentData) {
	e.canvas.Text("\n", FontSize)
	e.canvas.Table(e.PayMethodTable(data, formatTime(data.Document.OfferExpiration), report.ThinLine))
}

// LayoutByName layout según la configuración: "inline" o "proforma" activan el de
// presupuestos con esa variante; "none" o vacío dejan el genérico.
func LayoutByName(name string) (Layout, error) {
	if name == "" || name == "none" {
		return DefaultLayout{}, nil
	}
	variant, ok := ParseQuoteVariant(name)
	if !ok {
		return nil, fmt.Errorf("%w: layout %q (inline|proforma|none)", domain.ErrInvalidInput, name)
	}
	return NewQuoteLayout(variant), nil
}
