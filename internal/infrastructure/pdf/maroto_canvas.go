// Package pdf implementa el canvas de dibujo de documentos comerciales sobre Maroto v2.
//
// Maroto trabaja por filas sobre una rejilla de columnas; el canvas traduce las
// primitivas de export.Canvas (texto, tablas, líneas, saltos) a filas:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  Text        → una fila automática por línea ("\n")          │
//	│  Table       → fila de cabecera sombreada + una fila por fila │
//	│  Line        → line.NewRow con el grosor actual              │
//	│  NewPage     → AddPages(page.New()) cierra la página actual  │
//	│  PushToBottom→ filas vacías hasta dejar height mm libres     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"math"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/impresos/internal/application/export"
	"github.com/jhoicas/impresos/internal/domain/report"
)

// ── Paleta y medidas ──────────────────────────────────────────────────────────

var (
	colorText   = &props.Color{Red: 0, Green: 0, Blue: 0}
	colorBorder = &props.Color{Red: 0, Green: 0, Blue: 0}
)

const (
	// gridSize columnas de la rejilla; los pesos de las tablas se reparten sobre ella.
	gridSize = 120
	// ptToMM convierte puntos tipográficos a milímetros.
	ptToMM = 0.3528
	// lineSpacing interlineado relativo al tamaño de letra.
	lineSpacing = 1.25
	// cellFontSize tamaño de letra de las celdas de tabla.
	cellFontSize = 8.0
	// spacerStep paso (mm) de las filas vacías de PushToBottom.
	spacerStep = 1.0
	// maxSpacers evita bucles sin fin si el motor nunca informa de la página llena.
	maxSpacers = 400
)

// ── Canvas ────────────────────────────────────────────────────────────────────

// MarotoCanvas implementa export.Canvas sobre un documento Maroto.
// No es seguro para uso concurrente.
type MarotoCanvas struct {
	m         core.Maroto
	lineWidth float64 // puntos
}

var _ export.Canvas = (*MarotoCanvas)(nil)

// NewMarotoCanvas crea un documento A4 vertical con márgenes de 10 mm.
func NewMarotoCanvas(meta export.CanvasMeta) *MarotoCanvas {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithMaxGridSize(gridSize).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: export.FontSize}).
		WithPageNumber()
	if meta.Title != "" {
		b = b.WithTitle(meta.Title, true)
	}
	if meta.Author != "" {
		b = b.WithAuthor(meta.Author, true)
	}
	return &MarotoCanvas{m: maroto.New(b.Build()), lineWidth: report.DefaultLine}
}

// NewCanvasFactory adapta NewMarotoCanvas a export.CanvasFactory.
func NewCanvasFactory() export.CanvasFactory {
	return func(meta export.CanvasMeta) export.Canvas { return NewMarotoCanvas(meta) }
}

// NewPage cierra la página actual; lo siguiente se dibuja en una página nueva.
func (c *MarotoCanvas) NewPage() {
	c.m.AddPages(page.New())
}

// Text una fila por línea; las líneas vacías dejan un hueco de la altura de una línea.
func (c *MarotoCanvas) Text(value string, size float64) {
	if size <= 0 {
		size = export.FontSize
	}
	for _, ln := range strings.Split(strings.TrimSuffix(value, "\n"), "\n") {
		plain, bold := report.ParseBold(ln)
		if strings.TrimSpace(plain) == "" {
			c.m.AddRows(row.New(lineHeight(size)))
			continue
		}
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		c.m.AddAutoRow(col.New().Add(text.New(plain, props.Text{
			Size: size, Style: style, Color: colorText, Top: 0.5,
		})))
	}
}

// Table dibuja la cabecera (salvo HideHeadings) y las filas. Las celdas del
// contorno usan el grosor exterior y el resto el interior; las filas alternas
// llevan ShadeCol.
func (c *MarotoCanvas) Table(t report.Table) {
	if len(t.Columns) == 0 {
		return
	}
	sizes := gridSizes(t.Columns, gridSize)
	opts := t.Options

	rows := len(t.Rows)
	first := 0
	if !opts.HideHeadings {
		rows++
		first = 1
		cols := make([]core.Col, len(t.Columns))
		for i, column := range t.Columns {
			thickness := borderThickness(opts, onEdge(0, rows, i, len(t.Columns)))
			cols[i] = c.cell(sizes[i], column.Title, column.Justification, true, opts, opts.ShadeHeadingCol, thickness)
		}
		c.m.AddAutoRow(cols...)
	}

	for n, r := range t.Rows {
		shade := report.RGB{}
		if n%2 == 1 {
			shade = opts.ShadeCol
		}
		cols := make([]core.Col, len(t.Columns))
		for i, column := range t.Columns {
			value, bold := report.ParseBold(r[column.Key])
			thickness := borderThickness(opts, onEdge(first+n, rows, i, len(t.Columns)))
			cols[i] = c.cell(sizes[i], value, column.Justification, bold, opts, shade, thickness)
		}
		c.m.AddAutoRow(cols...)
	}
}

// SetLineStyle fija el grosor en puntos de las líneas posteriores.
func (c *MarotoCanvas) SetLineStyle(thickness float64) {
	if thickness <= 0 {
		thickness = report.DefaultLine
	}
	c.lineWidth = thickness
}

// Line regla horizontal a todo el ancho.
func (c *MarotoCanvas) Line() {
	c.m.AddRows(line.NewRow(2, props.Line{Thickness: c.lineWidth * ptToMM, Color: colorBorder}))
}

// PushToBottom añade filas vacías mientras quepan height mm más por debajo.
func (c *MarotoCanvas) PushToBottom(height float64) {
	for i := 0; i < maxSpacers && c.m.FitlnCurrentPage(height+spacerStep); i++ {
		c.m.AddRows(row.New(spacerStep))
	}
}

// Output genera el PDF.
func (c *MarotoCanvas) Output() ([]byte, error) {
	doc, err := c.m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Celdas ────────────────────────────────────────────────────────────────────

func (c *MarotoCanvas) cell(size int, value string, j report.Justification, bold bool, opts report.TableOptions, shade report.RGB, thickness float64) core.Col {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	column := col.New(size).Add(text.New(cellText(value), props.Text{
		Size: cellFontSize, Style: style, Align: alignOf(j),
		Top: 1, Left: 1, Right: 1, Color: colorText,
	}))
	if opts.Plain {
		return column
	}
	cellStyle := &props.Cell{
		BorderType:      border.Full,
		BorderThickness: thickness * ptToMM,
		BorderColor:     colorBorder,
	}
	if shade != (report.RGB{}) {
		cellStyle.BackgroundColor = toColor(shade)
	}
	return column.WithStyle(cellStyle)
}

// onEdge indica si la celda (row, col) toca el contorno de una tabla rows×cols.
func onEdge(row, rows, col, cols int) bool {
	return row == 0 || row == rows-1 || col == 0 || col == cols-1
}

// borderThickness grosor en puntos del borde de una celda. maroto dibuja las
// cuatro aristas con el mismo grosor, así que la celda del contorno se queda
// con el mayor de los dos.
func borderThickness(opts report.TableOptions, edge bool) float64 {
	if edge {
		return math.Max(opts.Outer(), opts.Inner())
	}
	return opts.Inner()
}

// cellText une las líneas de una celda: las filas automáticas ya ajustan el texto al ancho.
func cellText(v string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(v, "\n", " ")), " ")
}

func alignOf(j report.Justification) align.Type {
	switch j {
	case report.JustifyRight:
		return align.Right
	case report.JustifyCenter:
		return align.Center
	}
	return align.Left
}

func toColor(rgb report.RGB) *props.Color {
	return &props.Color{
		Red:   int(math.Round(rgb[0] * 255)),
		Green: int(math.Round(rgb[1] * 255)),
		Blue:  int(math.Round(rgb[2] * 255)),
	}
}

func lineHeight(size float64) float64 {
	return size * ptToMM * lineSpacing
}

// gridSizes reparte grid entre las columnas según su peso; cada columna recibe al
// menos 1 y la última absorbe el redondeo.
func gridSizes(columns []report.Column, grid int) []int {
	total := 0
	for _, column := range columns {
		total += weightOf(column)
	}
	sizes := make([]int, len(columns))
	used := 0
	for i, column := range columns {
		if i == len(columns)-1 {
			sizes[i] = grid - used
			break
		}
		s := int(math.Round(float64(weightOf(column)*grid) / float64(total)))
		remaining := len(columns) - i - 1
		if s < 1 {
			s = 1
		}
		if used+s > grid-remaining {
			s = grid - remaining - used
		}
		sizes[i] = s
		used += s
	}
	return sizes
}

func weightOf(c report.Column) int {
	if c.Weight <= 0 {
		return 1
	}
	return c.Weight
}
