// Package i18n traduce las etiquetas impresas en los documentos usando los
// catálogos de golang.org/x/text. Español es el idioma por defecto.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/jhoicas/impresos/internal/application/export"
)

// Idiomas soportados; el primero es el de reserva.
var supported = []language.Tag{language.Spanish, language.English}

var matcher = language.NewMatcher(supported)

// etiquetas clave → texto por idioma.
var messages = map[language.Tag]map[string]string{
	language.Spanish: {
		"PresupuestoCliente": "Presupuesto",
		"PedidoCliente":      "Pedido",
		"AlbaranCliente":     "Albarán",
		"FacturaCliente":     "Factura",

		"address":         "Dirección",
		"amount":          "Importe",
		"cifnif":          "CIF/NIF",
		"currency":        "Divisa",
		"customer":        "Cliente",
		"date":            "Fecha",
		"description":     "Descripción",
		"dto":             "% Dto.",
		"dto-2":           "% Dto. 2",
		"expiration":      "Vencimiento",
		"global-dto":      "Dto. global",
		"global-dto-2":    "Dto. global 2",
		"iban":            "IBAN",
		"irpf":            "% IRPF",
		"net":             "Neto",
		"number":          "Número",
		"observations":    "Observaciones",
		"payment-method":  "Forma de pago",
		"percentage":      "Porcentaje",
		"price":           "Precio",
		"quantity":        "Cantidad",
		"re":              "% R.E.",
		"reference":       "Referencia",
		"retention":       "Retención",
		"subtotal":        "Subtotal",
		"supplied-amount": "Suplidos",
		"tax":             "Impuesto",
		"tax-base":        "Base imponible",
		"taxes":           "Impuestos",
		"total":           "Total",
	},
	language.English: {
		"PresupuestoCliente": "Estimation",
		"PedidoCliente":      "Order",
		"AlbaranCliente":     "Delivery note",
		"FacturaCliente":     "Invoice",

		"address":         "Address",
		"amount":          "Amount",
		"cifnif":          "Tax ID",
		"currency":        "Currency",
		"customer":        "Customer",
		"date":            "Date",
		"description":     "Description",
		"dto":             "% Disc.",
		"dto-2":           "% Disc. 2",
		"expiration":      "Expiration",
		"global-dto":      "Global disc.",
		"global-dto-2":    "Global disc. 2",
		"iban":            "IBAN",
		"irpf":            "% Withholding",
		"net":             "Net",
		"number":          "Number",
		"observations":    "Observations",
		"payment-method":  "Payment method",
		"percentage":      "Percentage",
		"price":           "Price",
		"quantity":        "Quantity",
		"re":              "% Surcharge",
		"reference":       "Reference",
		"retention":       "Withholding",
		"subtotal":        "Subtotal",
		"supplied-amount": "Supplied",
		"tax":             "Tax",
		"tax-base":        "Tax base",
		"taxes":           "Taxes",
		"total":           "Total",
	},
}

// Translator implementa export.Translator para un idioma fijo.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
	known   map[string]bool
}

var _ export.Translator = (*Translator)(nil)

// New crea el traductor para lang ("es", "en", "es-ES"...). Un idioma no
// soportado usa español.
func New(lang string) (*Translator, error) {
	cat := catalog.NewBuilder(catalog.Fallback(supported[0]))
	known := make(map[string]bool)
	for tag, msgs := range messages {
		for key, value := range msgs {
			// los mensajes del catálogo son formatos de Printf
			if err := cat.SetString(tag, key, strings.ReplaceAll(value, "%", "%%")); err != nil {
				return nil, err
			}
			known[key] = true
		}
	}

	tag := Match(lang)
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
		known:   known,
	}, nil
}

// Match devuelve el idioma soportado más cercano a lang.
func Match(lang string) language.Tag {
	if lang == "" {
		return supported[0]
	}
	desired, err := language.Parse(lang)
	if err != nil {
		return supported[0]
	}
	_, idx, confidence := matcher.Match(desired)
	if confidence == language.No {
		return supported[0]
	}
	return supported[idx]
}

// Trans traduce key; una clave desconocida se devuelve sin cambios.
func (t *Translator) Trans(key string) string {
	if !t.known[key] {
		return key
	}
	return t.printer.Sprintf(key)
}

// Language código base del idioma activo ("es", "en").
func (t *Translator) Language() string {
	base, _ := t.tag.Base()
	return base.String()
}
