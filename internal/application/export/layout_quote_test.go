package export_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/impresos/internal/application/export"
	"github.com/jhoicas/impresos/internal/domain"
	"github.com/jhoicas/impresos/internal/domain/entity"
	"github.com/jhoicas/impresos/internal/domain/report"
)

func renderWith(t *testing.T, layout export.Layout, docs ...*export.DocumentData) *fakeCanvas {
	t.Helper()
	rec := &canvasRecorder{}
	e := export.NewPDFExport(rec.factory, identityTranslator{}, export.WithLayout(layout))
	for _, d := range docs {
		require.NoError(t, e.AddBusinessDocPage(d))
	}
	out, err := e.Output()
	require.NoError(t, err)
	require.NotEmpty(t, out)
	require.Len(t, rec.canvases, 1, "un único canvas por exportación")
	return rec.last()
}

func TestQuoteLayout_TotalesJustoDespuesDeLasLineas(t *testing.T) {
	c := renderWith(t, export.NewQuoteLayout(export.QuoteInline), quoteData())

	lines := c.indexOf(tableHas(export.LineReference))
	totals := c.indexOf(tableHas(export.TotalTotal))
	require.NotEqual(t, -1, lines)
	require.NotEqual(t, -1, totals)
	assert.Less(t, lines, totals)
	assert.Equal(t, 0, c.count(opBottom), "los totales no se empujan al pie")

	// entre ambas tablas solo hay texto en blanco
	for _, o := range c.ops[lines+1 : totals] {
		assert.Equal(t, opText, o.kind)
		assert.Equal(t, "\n", o.text)
	}
}

func TestQuoteLayout_TablaDeTotales(t *testing.T) {
	c := renderWith(t, export.NewQuoteLayout(export.QuoteInline), quoteData())

	totals, ok := c.tableWith(export.TotalTotal)
	require.True(t, ok)

	assert.Equal(t,
		[]string{export.TotalCurrency, export.TotalNet, export.TotalTaxes, export.TotalTotal},
		totals.Keys(),
		"sin descuentos, recargo, retención ni suplidos esas columnas se omiten")

	row := totals.Rows[0]
	assert.Equal(t, "Euros", row[export.TotalCurrency])
	assert.Equal(t, "300,00", row[export.TotalNet])
	assert.Equal(t, "63,00", row[export.TotalTaxes])
	assert.Equal(t, "<b>363,00</b>", row[export.TotalTotal], "el total va en negrita")
	assert.Equal(t, report.ThinLine, totals.Options.Inner())
	assert.Equal(t, report.ThinLine, totals.Options.Outer())
	assert.Equal(t, report.DefaultShade, totals.Options.ShadeHeadingCol)
}

func TestQuoteLayout_DescuentosYSubtotal(t *testing.T) {
	data := quoteData()
	data.Document.GlobalDiscount1 = dec("10")
	data.Document.NetBeforeDiscount = dec("300")
	data.Document.Net = dec("270")
	data.Document.TotalRetention = dec("40.5")

	c := renderWith(t, export.NewQuoteLayout(export.QuoteInline), data)

	totals, ok := c.tableWith(export.TotalTotal)
	require.True(t, ok)
	assert.True(t, totals.HasColumn(export.TotalSubtotal))
	assert.True(t, totals.HasColumn(export.TotalDiscount))
	assert.False(t, totals.HasColumn(export.TotalDiscount2))
	assert.Equal(t, "300,00", totals.Rows[0][export.TotalSubtotal])
	assert.Equal(t, "10,00%", totals.Rows[0][export.TotalDiscount])
	assert.Equal(t, "-40,50", totals.Rows[0][export.TotalIrpf])
}

func TestQuoteLayout_DesgloseDeImpuestosSoloConVariosTipos(t *testing.T) {
	c := renderWith(t, export.NewQuoteLayout(export.QuoteInline), quoteData())
	_, ok := c.tableWith(report.KeyTaxBase)
	assert.False(t, ok, "un único tipo de IVA no dibuja desglose")

	data := quoteData()
	data.Document.Lines[1].TaxRate = dec("10")
	data.Document.Lines[1].TaxCode = "IVA10"
	c = renderWith(t, export.NewQuoteLayout(export.QuoteInline), data)

	taxes, ok := c.tableWith(report.KeyTaxBase)
	require.True(t, ok)
	require.Len(t, taxes.Rows, 2)
	assert.Equal(t, "IVA 21%", taxes.Rows[0][report.KeyTax])
	assert.Equal(t, "IVA10", taxes.Rows[1][report.KeyTax])
	assert.False(t, taxes.HasColumn(report.KeySurchargeAmnt), "sin recargo se omite la columna")
	assert.Less(t, c.indexOf(tableHas(report.KeyTaxBase)), c.indexOf(tableHas(export.TotalTotal)))
}

func TestQuoteLayout_TablaDeLineas(t *testing.T) {
	data := quoteData()
	data.Document.Lines[0].Description = "Tornillo &lt;M8&gt;"

	c := renderWith(t, export.NewQuoteLayout(export.QuoteInline), data)

	lines, ok := c.tableWith(export.LineReference)
	require.True(t, ok)
	assert.Equal(t,
		[]string{export.LineReference, export.LineQuantity, export.LinePrice, export.LineNet, export.LineTax},
		lines.Keys())
	assert.Equal(t, "REF1 - Tornillo <M8>", lines.Rows[0][export.LineReference])
	assert.Equal(t, "Mano de obra", lines.Rows[1][export.LineReference])
	assert.Equal(t, "2,00", lines.Rows[0][export.LineQuantity])
	assert.Equal(t, "21,00%", lines.Rows[0][export.LineTax])
	assert.Equal(t, report.ThinLine, lines.Options.Inner())

	for _, col := range lines.Columns {
		if col.Key == export.LineReference {
			assert.Equal(t, report.JustifyLeft, col.Justification)
		} else {
			assert.Equal(t, report.JustifyRight, col.Justification, col.Key)
		}
	}
}

func TestQuoteLayout_OcultarPrecioYCantidad(t *testing.T) {
	data := quoteData()
	for i := range data.Document.Lines {
		data.Document.Lines[i].ShowPrice = boolPtr(false)
	}
	data.Document.Lines[0].ShowQuantity = boolPtr(true)
	data.Document.Lines[1].ShowQuantity = boolPtr(false)

	c := renderWith(t, export.NewQuoteLayout(export.QuoteInline), data)

	lines, ok := c.tableWith(export.LineReference)
	require.True(t, ok)
	assert.Equal(t, []string{export.LineReference, export.LineQuantity}, lines.Keys())
	assert.Equal(t, "2", lines.Rows[0][export.LineQuantity], "cantidad sin formato")
	assert.Equal(t, "", lines.Rows[1][export.LineQuantity])
	_, hasPrice := lines.Rows[0][export.LinePrice]
	assert.False(t, hasPrice)
}

func TestQuoteLayout_SaltoDePagina(t *testing.T) {
	data := quoteData()
	data.Document.Lines[0].PageBreak = true

	c := renderWith(t, export.NewQuoteLayout(export.QuoteInline), data)

	var lineTables []int
	for i, o := range c.ops {
		if o.kind == opTable && o.table.HasColumn(export.LineReference) {
			lineTables = append(lineTables, i)
		}
	}
	require.Len(t, lineTables, 2)
	assert.Equal(t, opNewPage, c.ops[lineTables[0]+1].kind)
	assert.Len(t, c.ops[lineTables[0]].table.Rows, 1)
	assert.Len(t, c.ops[lineTables[1]].table.Rows, 1)
}

func TestQuoteLayout_SaltoEnLaUltimaLineaNoDejaTablaVacia(t *testing.T) {
	data := quoteData()
	data.Document.Lines[1].PageBreak = true

	c := renderWith(t, export.NewQuoteLayout(export.QuoteInline), data)

	n := 0
	for _, o := range c.ops {
		if o.kind == opTable && o.table.HasColumn(export.LineReference) {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestQuoteLayout_PieInline(t *testing.T) {
	c := renderWith(t, export.NewQuoteLayout(export.QuoteInline), quoteData())

	first := c.indexOf(func(o op) bool { return o.kind == opLineStyle })
	assert.Equal(t, 0, first, "la primera operación fija el estilo fino")
	assert.Equal(t, report.ThinLine, c.ops[first].thickness)

	pay, ok := c.tableWith("method")
	require.True(t, ok)
	assert.Equal(t, "Transferencia\niban: ES91 2100 0418 4502 0005 1332", pay.Rows[0]["method"])
	assert.Equal(t, "15-04-2024", pay.Rows[0]["expiration"])
	assert.Equal(t, report.ThinLine, pay.Options.Inner())

	totals := c.indexOf(tableHas(export.TotalTotal))
	payIdx := c.indexOf(tableHas("method"))
	expiration := c.indexOf(textContains("expiration: 15-04-2024"))
	format := c.indexOf(textContains("Oferta válida 30 días"))
	observations := c.indexOf(textContains("Portes \"incluidos\""))

	assert.True(t, totals < payIdx && payIdx < expiration && expiration < format && format < observations,
		"orden: totales, forma de pago, vencimiento, texto del formato, observaciones")

	// regla fina justo antes del texto de las observaciones
	assert.Equal(t, opLine, c.ops[observations-1].kind)
	assert.Equal(t, report.ThinLine, c.ops[observations-1].thickness)
}

func TestQuoteLayout_PieSinClienteNiOpcionales(t *testing.T) {
	data := quoteData()
	data.Document.CustomerCode = ""
	data.Document.OfferExpiration = time.Time{}
	data.Document.Observations = ""
	data.Format = nil

	c := renderWith(t, export.NewQuoteLayout(export.QuoteInline), data)

	_, ok := c.tableWith("method")
	assert.False(t, ok, "sin cliente no hay forma de pago")
	assert.Equal(t, -1, c.indexOf(textContains("expiration")))
	assert.Equal(t, -1, c.indexOf(textContains("observations")))
}

func TestQuoteLayout_ObservacionesEnBlancoSeImprimen(t *testing.T) {
	for _, layout := range []export.Layout{export.NewQuoteLayout(export.QuoteInline), export.DefaultLayout{}} {
		data := quoteData()
		data.Document.Observations = "   "

		c := renderWith(t, layout, data)

		title := c.indexOf(textContains("observations"))
		require.NotEqual(t, -1, title, layout.Name())
		rule := title + 1
		if c.ops[rule].kind == opLineStyle {
			rule++
		}
		assert.Equal(t, opLine, c.ops[rule].kind, layout.Name())
	}
}

func TestQuoteLayout_SinLineasNoHayTablaDeLineas(t *testing.T) {
	for _, data := range []*export.DocumentData{quoteData(), invoiceData()} {
		data.Document.Lines = nil

		for _, layout := range []export.Layout{export.NewQuoteLayout(export.QuoteInline), export.NewQuoteLayout(export.QuoteProforma), export.DefaultLayout{}} {
			c := renderWith(t, layout, data)

			_, ok := c.tableWith(export.LineReference)
			assert.False(t, ok, "%s/%s", layout.Name(), data.Document.ModelClass)
			_, ok = c.tableWith(export.TotalTotal)
			assert.True(t, ok, "los totales se dibujan igualmente")
			assert.Equal(t, 0, c.count(opNewPage), "una sola página")
		}
	}
}

func TestQuoteLayout_Proforma(t *testing.T) {
	c := renderWith(t, export.NewQuoteLayout(export.QuoteProforma), quoteData())

	assert.NotEqual(t, opLineStyle, c.ops[0].kind, "la proforma no fija el estilo fino al empezar")

	observations := c.indexOf(textContains("Portes \"incluidos\""))
	lines := c.indexOf(tableHas(export.LineReference))
	totalsIdx := c.indexOf(tableHas(export.TotalTotal))
	assert.True(t, lines < observations && observations < totalsIdx, "observaciones antes de los totales")

	totals := c.ops[totalsIdx].table
	assert.Equal(t, "363,00", totals.Rows[0][export.TotalTotal], "sin negrita")
	assert.Equal(t, report.DefaultLine, totals.Options.Inner())

	lineTable := c.ops[lines].table
	assert.Equal(t, report.ThinLine, lineTable.Options.Inner(), "las líneas siguen con borde fino")

	pay, ok := c.tableWith("method")
	require.True(t, ok)
	assert.Equal(t, report.ThinLine, pay.Options.Inner())
	assert.NotEqual(t, -1, c.indexOf(textContains("expiration: 15-04-2024")))
}

func TestQuoteLayout_OtrosDocumentosDelegan(t *testing.T) {
	quoteCanvas := renderWith(t, export.NewQuoteLayout(export.QuoteInline), invoiceData())
	defaultCanvas := renderWith(t, export.DefaultLayout{}, invoiceData())

	assert.Equal(t, defaultCanvas.ops, quoteCanvas.ops,
		"una factura sin cliente se dibuja igual que con el layout genérico")
	assert.Equal(t, 1, quoteCanvas.count(opBottom), "el genérico empuja los totales al pie")

	lines, ok := quoteCanvas.tableWith(export.LineReference)
	require.True(t, ok)
	assert.Equal(t, report.DefaultLine, lines.Options.Inner())
}

func TestQuoteLayout_FormaDePagoFinaEnCualquierDocumento(t *testing.T) {
	data := invoiceData()
	data.Document.CustomerCode = "C001"

	c := renderWith(t, export.NewQuoteLayout(export.QuoteInline), data)

	pay, ok := c.tableWith("method")
	require.True(t, ok)
	assert.Equal(t, report.ThinLine, pay.Options.Inner())
	assert.Equal(t, "", pay.Rows[0]["expiration"], "las facturas no tienen fin de oferta")
	assert.Less(t, c.indexOf(func(o op) bool { return o.kind == opBottom }), c.indexOf(tableHas("method")))
}

func TestPDFExport_VariosDocumentos(t *testing.T) {
	second := quoteData()
	second.Document.Code = "PRE2024-8"
	second.Format = &entity.DocumentFormat{Title: "Otro"}

	c := renderWith(t, export.NewQuoteLayout(export.QuoteInline), quoteData(), second)

	assert.Equal(t, 1, c.count(opNewPage))
	assert.NotEqual(t, -1, c.indexOf(textContains("PresupuestoCliente: PRE2024-8")),
		"el formato se resuelve una vez y se reutiliza")
	assert.Equal(t, 2, len(filterText(c, "Impresos SL")), "la cabecera se repite en cada página")
	assert.Equal(t, "PresupuestoCliente PRE2024-7", c.meta.Title)
	assert.Equal(t, "Impresos SL", c.meta.Author)
}

func TestPDFExport_Errores(t *testing.T) {
	rec := &canvasRecorder{}
	e := export.NewPDFExport(rec.factory, identityTranslator{})

	_, err := e.Output()
	assert.Error(t, err, "sin páginas no hay PDF")
	assert.Error(t, e.AddBusinessDocPage(nil))
	assert.Error(t, e.AddBusinessDocPage(&export.DocumentData{}))
	assert.Equal(t, "default", e.Layout().Name())
}

func TestParseQuoteVariant(t *testing.T) {
	v, ok := export.ParseQuoteVariant("proforma")
	assert.True(t, ok)
	assert.Equal(t, export.QuoteProforma, v)
	assert.Equal(t, "quote-proforma", export.NewQuoteLayout(v).Name())

	_, ok = export.ParseQuoteVariant("bottom")
	assert.False(t, ok)
}

func TestLayoutByName(t *testing.T) {
	for name, want := range map[string]string{"": "default", "none": "default", "inline": "quote-inline", "proforma": "quote-proforma"} {
		l, err := export.LayoutByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, l.Name(), name)
	}

	_, err := export.LayoutByName("bottom")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func filterText(c *fakeCanvas, s string) []op {
	var out []op
	for _, o := range c.ops {
		if textContains(s)(o) {
			out = append(out, o)
		}
	}
	return out
}
