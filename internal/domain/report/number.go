// Package report contiene las reglas de formato de los documentos impresos:
// filas de vista (clave de columna → texto), números con separadores,
// marcado en negrita y eliminación de columnas vacías. No dibuja nada.
package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NumberFormat formato de números para los documentos.
type NumberFormat struct {
	Decimals           int
	DecimalSeparator   string
	ThousandsSeparator string
}

// DefaultNumberFormat 2 decimales, coma decimal y punto de miles (1.234,50).
func DefaultNumberFormat() NumberFormat {
	return NumberFormat{Decimals: 2, DecimalSeparator: ",", ThousandsSeparator: "."}
}

// Format devuelve v redondeado a f.Decimals con separadores.
// El cero nunca lleva signo: -0,001 → "0,00".
func (f NumberFormat) Format(v decimal.Decimal) string {
	places := int32(f.Decimals)
	if places < 0 {
		places = 0
	}
	rounded := v.Round(places)
	s := rounded.Abs().StringFixed(places)

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i+1:]
	}

	out := groupThousands(intPart, f.ThousandsSeparator)
	if frac != "" {
		out += f.DecimalSeparator + frac
	}
	if rounded.IsNegative() {
		out = "-" + out
	}
	return out
}

// Zero representación del cero; es el valor "vacío" de las columnas numéricas.
func (f NumberFormat) Zero() string {
	return f.Format(decimal.Zero)
}

// Percent formatea v con sufijo "%".
func (f NumberFormat) Percent(v decimal.Decimal) string {
	return f.Format(v) + "%"
}

// groupThousands inserta sep cada tres dígitos desde la derecha.
// Ej: "1000000" → "1.000.000"
func groupThousands(s, sep string) string {
	n := len(s)
	if n <= 3 || sep == "" {
		return s
	}
	var b strings.Builder
	b.Grow(n + (n/3)*len(sep))
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
