package http_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/impresos/internal/application/bundle"
	"github.com/jhoicas/impresos/internal/application/dto"
	"github.com/jhoicas/impresos/internal/application/export"
	"github.com/jhoicas/impresos/internal/domain"
	"github.com/jhoicas/impresos/internal/domain/entity"
	apphttp "github.com/jhoicas/impresos/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakePDF struct {
	err       error
	companyID string
	model     string
	code      string
}

func (f *fakePDF) DownloadDocumentPDF(_ context.Context, companyID, modelClass, code string) ([]byte, string, error) {
	f.companyID, f.model, f.code = companyID, modelClass, code
	if f.err != nil {
		return nil, "", f.err
	}
	return []byte("%PDF-1.3 fake"), "presupuestocliente_PRE1.pdf", nil
}

type fakeRenderer struct{ docs int }

func (f *fakeRenderer) Render(docs ...*export.DocumentData) ([]byte, error) {
	f.docs = len(docs)
	return []byte("%PDF-1.3 bundle"), nil
}

type fakeImporter struct {
	called    bool
	companyID string
	err       error
}

func (f *fakeImporter) ImportForCompany(_ context.Context, companyID string, b *bundle.Bundle) (*bundle.ImportResult, error) {
	f.called = true
	f.companyID = companyID
	if f.err != nil {
		return nil, f.err
	}
	return &bundle.ImportResult{CompanyID: b.Company.ID, Documents: len(b.Documents)}, nil
}

type fakeLogin struct{}

func (fakeLogin) Login(_ context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Password != "ok" {
		return nil, domain.ErrUnauthorized
	}
	return &dto.LoginResponse{Token: "tok", User: dto.UserResponse{Email: in.Email}}, nil
}

// decodeFake acepta cualquier cuerpo no vacío como un paquete de la empresa del cuerpo.
func decodeFake(r io.Reader) (*bundle.Bundle, error) {
	body, _ := io.ReadAll(r)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: fichero vacío", domain.ErrInvalidInput)
	}
	return &bundle.Bundle{
		Company: entity.Company{ID: strings.TrimSpace(string(body)), Name: "X"},
		Documents: []entity.BusinessDocument{
			{ModelClass: entity.ModelPresupuestoCliente, Code: "PRE1"},
			{ModelClass: entity.ModelFacturaCliente, Code: "FAC1"},
		},
	}, nil
}

type testDeps struct {
	pdf      *fakePDF
	renderer *fakeRenderer
	importer *fakeImporter
}

func buildDocumentApp() (*fiber.App, testDeps) {
	d := testDeps{pdf: &fakePDF{}, renderer: &fakeRenderer{}, importer: &fakeImporter{}}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      fakeLogin{},
		DocumentPDF: d.pdf,
		Renderer:    d.renderer,
		Importer:    d.importer,
		Decode:      decodeFake,
		JWTSecret:   testJWTSecret,
	})
	return app, d
}

func send(t *testing.T, app *fiber.App, method, path, auth, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if body != "" && strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Descarga de PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestDownloadPDF_OK(t *testing.T) {
	app, d := buildDocumentApp()
	resp := send(t, app, http.MethodGet, "/api/documents/PresupuestoCliente/PRE%2F1/pdf", tokenForRole(t, "lectura"), "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="presupuestocliente_PRE1.pdf"`, resp.Header.Get("Content-Disposition"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))

	assert.Equal(t, testCompanyID, d.pdf.companyID, "la empresa sale del token")
	assert.Equal(t, "PresupuestoCliente", d.pdf.model)
	assert.Equal(t, "PRE/1", d.pdf.code, "el código llega decodificado")
}

func TestDownloadPDF_Inline(t *testing.T) {
	app, _ := buildDocumentApp()
	resp := send(t, app, http.MethodGet, "/api/documents/PresupuestoCliente/PRE1/pdf?inline=true", tokenForRole(t, "admin"), "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Disposition"), "inline;"))
}

func TestDownloadPDF_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: %w: Ticket", domain.ErrInvalidInput, domain.ErrUnknownModel), http.StatusBadRequest, "UNKNOWN_MODEL"},
		{domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
		{fmt.Errorf("%w: documento", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{errors.New("pdf roto"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			app, d := buildDocumentApp()
			d.pdf.err = tc.err
			resp := send(t, app, http.MethodGet, "/api/documents/PresupuestoCliente/PRE1/pdf", tokenForRole(t, "vendedor"), "")
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.code)
			assert.NotContains(t, string(body), "pdf roto", "los errores internos no se filtran al cliente")
		})
	}
}

func TestDownloadPDF_RequiresToken(t *testing.T) {
	app, _ := buildDocumentApp()
	resp := send(t, app, http.MethodGet, "/api/documents/PresupuestoCliente/PRE1/pdf", "", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Render e importación de paquetes
// ──────────────────────────────────────────────────────────────────────────────

func TestRenderBundle(t *testing.T) {
	app, d := buildDocumentApp()
	resp := send(t, app, http.MethodPost, "/api/documents/render", tokenForRole(t, "vendedor"), "company-x")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, d.renderer.docs)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "presupuestocliente_PRE1.pdf")
}

func TestRenderBundle_Errors(t *testing.T) {
	app, _ := buildDocumentApp()

	resp := send(t, app, http.MethodPost, "/api/documents/render", tokenForRole(t, "lectura"), "company-x")
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "lectura no puede renderizar paquetes")

	resp = send(t, app, http.MethodPost, "/api/documents/render", tokenForRole(t, "admin"), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportBundle(t *testing.T) {
	app, d := buildDocumentApp()

	resp := send(t, app, http.MethodPost, "/api/documents/import", tokenForRole(t, "admin"), testCompanyID)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, d.importer.called)
	assert.Equal(t, testCompanyID, d.importer.companyID, "la empresa sale del token")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"documents":2`)
}

func TestImportBundle_SharedFormatForbidden(t *testing.T) {
	app, d := buildDocumentApp()
	d.importer.err = fmt.Errorf("%w: el formato \"Pie general\" no es exclusivo de la empresa", domain.ErrForbidden)

	resp := send(t, app, http.MethodPost, "/api/documents/import", tokenForRole(t, "admin"), testCompanyID)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestImportBundle_OtherCompanyForbidden(t *testing.T) {
	app, d := buildDocumentApp()

	resp := send(t, app, http.MethodPost, "/api/documents/import", tokenForRole(t, "admin"), "otra-empresa")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, d.importer.called)

	resp2 := send(t, app, http.MethodPost, "/api/documents/import", tokenForRole(t, "vendedor"), testCompanyID)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode, "solo admin importa")
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	app, _ := buildDocumentApp()

	resp := send(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"a@b.c","password":"ok"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2 := send(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"a@b.c","password":"mal"}`)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)

	resp3 := send(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"a@b.c"}`)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp3.StatusCode)
}
