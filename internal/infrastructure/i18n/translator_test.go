package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator_Spanish(t *testing.T) {
	tr, err := New("es")
	require.NoError(t, err)

	assert.Equal(t, "es", tr.Language())
	assert.Equal(t, "Presupuesto", tr.Trans("PresupuestoCliente"))
	assert.Equal(t, "Observaciones", tr.Trans("observations"))
	assert.Equal(t, "Vencimiento", tr.Trans("expiration"))
}

func TestTranslator_English(t *testing.T) {
	tr, err := New("en-GB")
	require.NoError(t, err)

	assert.Equal(t, "en", tr.Language())
	assert.Equal(t, "Estimation", tr.Trans("PresupuestoCliente"))
	assert.Equal(t, "Payment method", tr.Trans("payment-method"))
}

func TestTranslator_Fallbacks(t *testing.T) {
	tr, err := New("zz-invalid-tag-@@")
	require.NoError(t, err)
	assert.Equal(t, "es", tr.Language(), "un idioma inválido usa español")

	tr, err = New("")
	require.NoError(t, err)
	assert.Equal(t, "es", tr.Language())

	assert.Equal(t, "clave-sin-traducir", tr.Trans("clave-sin-traducir"))
}

func TestCatalogsComplete(t *testing.T) {
	for tag, msgs := range messages {
		for key := range messages[supported[0]] {
			_, ok := msgs[key]
			assert.True(t, ok, "%s: falta %q", tag, key)
		}
	}
}

func TestTranslator_PercentSign(t *testing.T) {
	tr, err := New("es")
	require.NoError(t, err)
	assert.Equal(t, "% Dto.", tr.Trans("dto"))
	assert.Equal(t, "% R.E.", tr.Trans("re"))
}
