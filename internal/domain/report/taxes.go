package report

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/impresos/internal/domain/entity"
)

// Claves de la tabla de desglose de impuestos.
const (
	KeyTax           = "tax"
	KeyTaxBase       = "taxbase"
	KeyTaxPercent    = "taxp"
	KeyTaxAmount     = "taxamount"
	KeySurchargePct  = "taxsurchargep"
	KeySurchargeAmnt = "taxsurcharge"
)

type taxGroup struct {
	name      string
	rate      decimal.Decimal
	surcharge decimal.Decimal
	base      decimal.Decimal
	amount    decimal.Decimal
	surAmount decimal.Decimal
}

// TaxRows agrupa las líneas por (IVA, recargo) en orden de aparición.
// Se excluyen las líneas suplidas y las de total cero. La base aplica
// los descuentos globales del documento. taxNames traduce código → descripción.
func TaxRows(doc *entity.BusinessDocument, taxNames map[string]string, nf NumberFormat) []Row {
	eud := doc.EUDiscount()
	hundred := decimal.NewFromInt(100)

	var order []string
	groups := make(map[string]*taxGroup)
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if line.LineTotal.IsZero() || line.Supplied {
			continue
		}
		key := line.TaxRate.String() + "_" + line.SurchargeRate.String()
		g, ok := groups[key]
		if !ok {
			name := line.TaxCode
			if desc, found := taxNames[line.TaxCode]; found && desc != "" {
				name = desc
			}
			g = &taxGroup{name: name, rate: line.TaxRate, surcharge: line.SurchargeRate}
			groups[key] = g
			order = append(order, key)
		}
		base := line.LineTotal.Mul(eud)
		g.base = g.base.Add(base)
		g.amount = g.amount.Add(base.Mul(line.TaxRate).Div(hundred))
		g.surAmount = g.surAmount.Add(base.Mul(line.SurchargeRate).Div(hundred))
	}

	rows := make([]Row, 0, len(order))
	for _, key := range order {
		g := groups[key]
		rows = append(rows, Row{
			KeyTax:           g.name,
			KeyTaxBase:       nf.Format(g.base),
			KeyTaxPercent:    nf.Percent(g.rate),
			KeyTaxAmount:     nf.Format(g.amount),
			KeySurchargePct:  nf.Percent(g.surcharge),
			KeySurchargeAmnt: nf.Format(g.surAmount),
		})
	}
	return rows
}
