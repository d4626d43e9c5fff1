package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir replicates testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "impresos", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 30, cfg.Redis.CacheTTLMinutes)
	assert.Equal(t, "inline", cfg.PDF.QuoteLayout)
	assert.Equal(t, "es", cfg.PDF.Lang)
	assert.Equal(t, 2, cfg.PDF.Decimals)
	assert.Equal(t, ",", cfg.PDF.DecimalSeparator)
	assert.Equal(t, ".", cfg.PDF.ThousandsSeparator)
}

func TestLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PDF_QUOTE_LAYOUT", "proforma")
	t.Setenv("PDF_LANG", "en")
	t.Setenv("NUMBER_DECIMAL_SEPARATOR", ".")
	t.Setenv("NUMBER_THOUSANDS_SEPARATOR", ",")
	t.Setenv("HTTP_PORT", "no-es-un-numero")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "proforma", cfg.PDF.QuoteLayout)
	assert.Equal(t, "en", cfg.PDF.Lang)
	assert.Equal(t, 8080, cfg.HTTP.Port, "un entero inválido usa el valor por defecto")
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("PDF_QUOTE_LAYOUT", "bottom")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PDF_QUOTE_LAYOUT", "inline")
	t.Setenv("NUMBER_THOUSANDS_SEPARATOR", ",")
	_, err = Load()
	assert.Error(t, err, "mismo separador decimal y de miles")
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "impresos", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/impresos?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
