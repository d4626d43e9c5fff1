package report

// Justification alineación horizontal de una columna.
type Justification string

const (
	JustifyLeft   Justification = "left"
	JustifyCenter Justification = "center"
	JustifyRight  Justification = "right"
)

// Grosores de línea en puntos.
const (
	ThinLine    = 0.1 // bordes finos de las tablas del presupuesto
	DefaultLine = 1.0 // grosor por defecto del motor de tablas
)

// RGB color con componentes entre 0 y 1.
type RGB [3]float64

// DefaultShade gris claro de cabeceras y filas alternas.
var DefaultShade = RGB{0.95, 0.95, 0.95}

// Column definición de una columna: clave en las filas y título traducido.
type Column struct {
	Key           string
	Title         string
	Justification Justification
	Weight        int // ancho relativo; 0 equivale a 1
}

// Row fila de vista: clave de columna → texto ya formateado.
// Una clave ausente se dibuja como celda vacía.
type Row map[string]string

// TableOptions opciones de dibujo de una tabla.
type TableOptions struct {
	ShadeCol           RGB
	ShadeHeadingCol    RGB
	InnerLineThickness float64 // 0 = DefaultLine
	OuterLineThickness float64 // 0 = DefaultLine
	HideHeadings       bool
	Plain              bool // sin bordes ni sombreado
}

// Inner grosor de las líneas interiores en puntos.
func (o TableOptions) Inner() float64 {
	if o.InnerLineThickness > 0 {
		return o.InnerLineThickness
	}
	return DefaultLine
}

// Outer grosor del borde exterior en puntos.
func (o TableOptions) Outer() float64 {
	if o.OuterLineThickness > 0 {
		return o.OuterLineThickness
	}
	return DefaultLine
}

// ShadedOptions opciones con el sombreado por defecto y el grosor indicado (0 = por defecto).
func ShadedOptions(thickness float64) TableOptions {
	return TableOptions{
		ShadeCol:           DefaultShade,
		ShadeHeadingCol:    DefaultShade,
		InnerLineThickness: thickness,
		OuterLineThickness: thickness,
	}
}

// Table tabla lista para dibujar.
type Table struct {
	Columns []Column
	Rows    []Row
	Options TableOptions
}

// Keys claves de las columnas en orden.
func (t Table) Keys() []string {
	keys := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		keys[i] = c.Key
	}
	return keys
}

// HasColumn indica si la tabla conserva la columna key.
func (t Table) HasColumn(key string) bool {
	for _, c := range t.Columns {
		if c.Key == key {
			return true
		}
	}
	return false
}

// RemoveEmptyCols elimina de t las columnas vacías en todas las filas.
func (t *Table) RemoveEmptyCols(empty string) {
	t.Columns = RemoveEmptyCols(t.Rows, t.Columns, empty)
}

// RemoveEmptyCols devuelve las columnas con al menos un valor significativo.
// Se consideran vacíos: la clave ausente, "", empty, empty+"%" y "-"+empty.
// Las filas no se modifican.
func RemoveEmptyCols(rows []Row, columns []Column, empty string) []Column {
	kept := make([]Column, 0, len(columns))
	for _, col := range columns {
		for _, r := range rows {
			if !isEmptyCell(r[col.Key], empty) {
				kept = append(kept, col)
				break
			}
		}
	}
	return kept
}

func isEmptyCell(v, empty string) bool {
	switch v {
	case "", empty, empty + "%", "-" + empty:
		return true
	}
	return false
}
