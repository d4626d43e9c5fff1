package export

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/impresos/internal/domain/entity"
)

// lineValue valor numérico de la línea para la columna key.
func lineValue(line *entity.BusinessDocumentLine, key string) decimal.Decimal {
	switch key {
	case LineQuantity:
		return line.Quantity
	case LinePrice:
		return line.UnitPrice
	case LineDiscount:
		return line.Discount
	case LineDiscount2:
		return line.Discount2
	case LineNet:
		return line.LineTotal
	case LineTax:
		return line.TaxRate
	case LineSurcharge:
		return line.SurchargeRate
	case LineRetention:
		return line.RetentionRate
	}
	return decimal.Zero
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func formatDate(doc *entity.BusinessDocument) string {
	return formatTime(doc.Date)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}

// formatIBAN agrupa el IBAN de cuatro en cuatro: "ES91 2100 0418 ...".
func formatIBAN(iban string) string {
	compact := strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	var b strings.Builder
	for i, r := range compact {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func companyName(c *entity.Company) string {
	if c == nil {
		return ""
	}
	return c.Name
}
