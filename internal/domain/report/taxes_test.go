package report_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/impresos/internal/domain/entity"
	"github.com/jhoicas/impresos/internal/domain/report"
)

func line(total, iva, re string, code string) entity.BusinessDocumentLine {
	return entity.BusinessDocumentLine{
		LineTotal:     decimal.RequireFromString(total),
		TaxRate:       decimal.RequireFromString(iva),
		SurchargeRate: decimal.RequireFromString(re),
		TaxCode:       code,
	}
}

func TestTaxRows_AgrupaPorTipo(t *testing.T) {
	doc := &entity.BusinessDocument{
		Lines: []entity.BusinessDocumentLine{
			line("100", "21", "0", "IVA21"),
			line("50", "10", "0", "IVA10"),
			line("200", "21", "0", "IVA21"),
		},
	}
	names := map[string]string{"IVA21": "IVA 21%"}

	rows := report.TaxRows(doc, names, report.DefaultNumberFormat())

	require.Len(t, rows, 2)
	assert.Equal(t, "IVA 21%", rows[0][report.KeyTax])
	assert.Equal(t, "300,00", rows[0][report.KeyTaxBase])
	assert.Equal(t, "21,00%", rows[0][report.KeyTaxPercent])
	assert.Equal(t, "63,00", rows[0][report.KeyTaxAmount])
	assert.Equal(t, "IVA10", rows[1][report.KeyTax], "sin descripción se usa el código")
	assert.Equal(t, "5,00", rows[1][report.KeyTaxAmount])
}

func TestTaxRows_DescuentosGlobalesYRecargo(t *testing.T) {
	doc := &entity.BusinessDocument{
		GlobalDiscount1: decimal.NewFromInt(10),
		Lines: []entity.BusinessDocumentLine{
			line("100", "21", "5.2", "IVA21"),
		},
	}

	rows := report.TaxRows(doc, nil, report.DefaultNumberFormat())

	require.Len(t, rows, 1)
	assert.Equal(t, "90,00", rows[0][report.KeyTaxBase])
	assert.Equal(t, "18,90", rows[0][report.KeyTaxAmount])
	assert.Equal(t, "5,20%", rows[0][report.KeySurchargePct])
	assert.Equal(t, "4,68", rows[0][report.KeySurchargeAmnt])
}

func TestTaxRows_IgnoraSuplidosYTotalesCero(t *testing.T) {
	supplied := line("30", "0", "0", "")
	supplied.Supplied = true
	doc := &entity.BusinessDocument{
		Lines: []entity.BusinessDocumentLine{
			supplied,
			line("0", "4", "0", "IVA4"),
			line("10", "21", "0", "IVA21"),
		},
	}

	rows := report.TaxRows(doc, nil, report.DefaultNumberFormat())

	require.Len(t, rows, 1)
	assert.Equal(t, "10,00", rows[0][report.KeyTaxBase])
}
