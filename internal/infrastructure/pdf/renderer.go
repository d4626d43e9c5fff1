package pdf

import (
	"github.com/jhoicas/impresos/internal/application/export"
	"github.com/jhoicas/impresos/internal/domain/report"
	"github.com/jhoicas/impresos/internal/infrastructure/i18n"
)

// RendererOptions elección de layout, idioma y formato numérico.
type RendererOptions struct {
	Layout  string // inline | proforma | none
	Lang    string
	Numbers report.NumberFormat
}

// NewRenderer arma un export.RendererConfig que dibuja con Maroto.
func NewRenderer(o RendererOptions) (export.RendererConfig, error) {
	layout, err := export.LayoutByName(o.Layout)
	if err != nil {
		return export.RendererConfig{}, err
	}
	tr, err := i18n.New(o.Lang)
	if err != nil {
		return export.RendererConfig{}, err
	}
	numbers := o.Numbers
	if numbers.DecimalSeparator == "" {
		numbers = report.DefaultNumberFormat()
	}
	return export.RendererConfig{
		NewCanvas:  NewCanvasFactory(),
		Translator: tr,
		Numbers:    numbers,
		Layout:     layout,
	}, nil
}
