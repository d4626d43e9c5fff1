package report

import (
	"html"
	"strings"
)

const (
	boldOpen  = "<b>"
	boldClose = "</b>"
)

// Bold envuelve s en el marcado de negrita que entiende el canvas.
func Bold(s string) string {
	return boldOpen + s + boldClose
}

// ParseBold quita el marcado de negrita si s está completamente envuelto.
func ParseBold(s string) (plain string, bold bool) {
	if strings.HasPrefix(s, boldOpen) && strings.HasSuffix(s, boldClose) && len(s) >= len(boldOpen)+len(boldClose) {
		return s[len(boldOpen) : len(s)-len(boldClose)], true
	}
	return s, false
}

// FixHTML decodifica las entidades HTML con las que se guardan los textos libres
// (observaciones, texto del formato): "&lt;b&gt;" → "<b>", "&quot;" → `"`.
func FixHTML(s string) string {
	return html.UnescapeString(s)
}
