package export

import (
	"context"

	"github.com/jhoicas/impresos/internal/domain/entity"
	"github.com/jhoicas/impresos/internal/domain/report"
)

// Canvas primitivas de dibujo sobre las que escriben los layouts.
// Las coordenadas las lleva el canvas: cada llamada dibuja a continuación de la anterior.
type Canvas interface {
	// NewPage fuerza un salto de página.
	NewPage()
	// Text escribe texto; cada "\n" es un salto de línea y "<b>…</b>" marca negrita.
	Text(value string, size float64)
	// Table dibuja la tabla con sus columnas en el orden dado.
	Table(t report.Table)
	// SetLineStyle fija el grosor (puntos) de las líneas sueltas posteriores.
	SetLineStyle(thickness float64)
	// Line dibuja una línea horizontal a lo ancho de la tabla con el estilo actual.
	Line()
	// PushToBottom avanza hasta que solo queden height mm en la página.
	PushToBottom(height float64)
	// Output cierra el documento y devuelve los bytes del PDF.
	Output() ([]byte, error)
}

// CanvasMeta metadatos del PDF.
type CanvasMeta struct {
	Title  string
	Author string
}

// CanvasFactory crea el canvas al dibujar la primera página.
type CanvasFactory func(meta CanvasMeta) Canvas

// Translator traduce claves de texto; una clave sin traducción se devuelve tal cual.
type Translator interface {
	Trans(key string) string
	Language() string
}

// PDFCache caché de PDFs ya generados.
type PDFCache interface {
	// Get devuelve (nil, nil) si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, pdf []byte) error
}

// DocumentData todo lo que necesita el exportador para dibujar un documento.
type DocumentData struct {
	Document      *entity.BusinessDocument
	Company       *entity.Company
	Currency      *entity.Currency
	PaymentMethod *entity.PaymentMethod
	Taxes         []entity.Tax
	Format        *entity.DocumentFormat
}

// taxNames código → descripción de los impuestos cargados.
func (d *DocumentData) taxNames() map[string]string {
	names := make(map[string]string, len(d.Taxes))
	for _, t := range d.Taxes {
		names[t.Code] = t.Description
	}
	return names
}
