package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/impresos/internal/domain"
	"github.com/jhoicas/impresos/internal/domain/entity"
	"github.com/jhoicas/impresos/internal/domain/repository"
	"github.com/jhoicas/impresos/internal/domain/report"
)

// RendererConfig piezas con las que se construye un PDFExport por petición.
type RendererConfig struct {
	NewCanvas  CanvasFactory
	Translator Translator
	Numbers    report.NumberFormat
	Layout     Layout
}

// NewExport crea un exportador nuevo con esta configuración.
func (c RendererConfig) NewExport() *PDFExport {
	return NewPDFExport(c.NewCanvas, c.Translator, WithLayout(c.Layout), WithNumberFormat(c.Numbers))
}

// Render dibuja los documentos en un único PDF, uno por página.
func (c RendererConfig) Render(docs ...*DocumentData) ([]byte, error) {
	if len(docs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	e := c.NewExport()
	for _, d := range docs {
		if err := e.AddBusinessDocPage(d); err != nil {
			return nil, err
		}
	}
	return e.Output()
}

func (c RendererConfig) layoutName() string {
	if c.Layout == nil {
		return DefaultLayout{}.Name()
	}
	return c.Layout.Name()
}

func (c RendererConfig) language() string {
	if c.Translator == nil {
		return ""
	}
	return c.Translator.Language()
}

// PDFUseCase genera el PDF de un documento comercial guardado.
type PDFUseCase struct {
	documents  repository.BusinessDocumentRepository
	companies  repository.CompanyRepository
	currencies repository.CurrencyRepository
	payments   repository.PaymentMethodRepository
	taxes      repository.TaxRepository
	formats    repository.DocumentFormatRepository
	renderer   RendererConfig
	cache      PDFCache
	log        zerolog.Logger
}

// UseCaseOption configura el caso de uso.
type UseCaseOption func(*PDFUseCase)

// WithCache activa la caché de PDFs generados.
func WithCache(c PDFCache) UseCaseOption {
	return func(uc *PDFUseCase) { uc.cache = c }
}

// WithLogger fija el logger (por defecto no registra nada).
func WithLogger(l zerolog.Logger) UseCaseOption {
	return func(uc *PDFUseCase) { uc.log = l }
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	documents repository.BusinessDocumentRepository,
	companies repository.CompanyRepository,
	currencies repository.CurrencyRepository,
	payments repository.PaymentMethodRepository,
	taxes repository.TaxRepository,
	formats repository.DocumentFormatRepository,
	renderer RendererConfig,
	opts ...UseCaseOption,
) *PDFUseCase {
	uc := &PDFUseCase{
		documents:  documents,
		companies:  companies,
		currencies: currencies,
		payments:   payments,
		taxes:      taxes,
		formats:    formats,
		renderer:   renderer,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// DownloadDocumentPDF carga el documento y todo lo necesario para imprimirlo y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrUnknownModel     si modelClass no es un tipo de documento soportado
//     (también es domain.ErrInvalidInput).
//   - domain.ErrNotFound         si la empresa del token no tiene ese documento,
//     o la empresa no existe.
//   - domain.ErrForbidden        si el repositorio devuelve un documento de otra empresa.
func (uc *PDFUseCase) DownloadDocumentPDF(
	ctx context.Context,
	companyID, modelClass, code string,
) (pdfBytes []byte, filename string, err error) {
	if !entity.IsKnownModel(modelClass) {
		return nil, "", fmt.Errorf("%w: %w: %s", domain.ErrInvalidInput, domain.ErrUnknownModel, modelClass)
	}
	if code == "" {
		return nil, "", domain.ErrInvalidInput
	}

	// ── 1. Documento ──────────────────────────────────────────────────────────
	doc, err := uc.documents.GetByCode(ctx, companyID, modelClass, code)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener documento: %w", err)
	}
	if doc == nil {
		return nil, "", domain.ErrNotFound
	}
	if doc.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}
	filename = FileName(doc)

	// ── 2. Datos de impresión ─────────────────────────────────────────────────
	data, err := uc.loadDocumentData(ctx, doc)
	if err != nil {
		return nil, "", err
	}

	// ── 3. Caché ──────────────────────────────────────────────────────────────
	key := uc.cacheKey(data)
	if uc.cache != nil {
		cached, cErr := uc.cache.Get(ctx, key)
		switch {
		case cErr != nil:
			uc.log.Warn().Err(cErr).Str("key", key).Msg("pdf: caché no disponible")
		case cached != nil:
			uc.log.Debug().Str("key", key).Msg("pdf: servido desde caché")
			return cached, filename, nil
		}
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.renderer.Render(data)
	if err != nil {
		uc.log.Error().Err(err).Str("model", modelClass).Str("code", code).Msg("pdf: generación fallida")
		return nil, "", fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	uc.log.Debug().
		Str("model", modelClass).
		Str("code", code).
		Str("layout", uc.renderer.layoutName()).
		Int("bytes", len(pdfBytes)).
		Msg("pdf: documento generado")

	if uc.cache != nil {
		if sErr := uc.cache.Set(ctx, key, pdfBytes); sErr != nil {
			uc.log.Warn().Err(sErr).Str("key", key).Msg("pdf: no se pudo guardar en caché")
		}
	}
	return pdfBytes, filename, nil
}

func (uc *PDFUseCase) loadDocumentData(ctx context.Context, doc *entity.BusinessDocument) (*DocumentData, error) {
	if len(doc.Lines) == 0 {
		lines, err := uc.documents.GetLines(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("pdf: obtener líneas: %w", err)
		}
		doc.Lines = lines
	}

	company, err := uc.companies.GetByID(ctx, doc.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	data := &DocumentData{Document: doc, Company: company}

	if doc.CurrencyCode != "" {
		if data.Currency, err = uc.currencies.GetByCode(ctx, doc.CurrencyCode); err != nil {
			return nil, fmt.Errorf("pdf: obtener divisa: %w", err)
		}
	}
	if doc.PaymentMethodCode != "" {
		if data.PaymentMethod, err = uc.payments.GetByCode(ctx, doc.CompanyID, doc.PaymentMethodCode); err != nil {
			return nil, fmt.Errorf("pdf: obtener forma de pago: %w", err)
		}
	}
	if codes := taxCodes(doc); len(codes) > 0 {
		if data.Taxes, err = uc.taxes.ListByCodes(ctx, codes); err != nil {
			return nil, fmt.Errorf("pdf: obtener impuestos: %w", err)
		}
	}
	if data.Format, err = uc.formats.FindFor(ctx, doc.CompanyID, doc.ModelClass); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("pdf: obtener formato: %w", err)
	}
	return data, nil
}

// cacheKey identifica el PDF: documento y fecha de modificación, layout e idioma,
// más una huella de todo lo demás que se imprime (empresa, catálogos, formato y
// formato numérico). Cambiar cualquiera de ellos deja la entrada anterior sin uso.
func (uc *PDFUseCase) cacheKey(data *DocumentData) string {
	doc := data.Document
	return fmt.Sprintf("pdf:%s:%s:%s:%d:%s:%s:%016x",
		doc.CompanyID, doc.ModelClass, doc.Code, doc.UpdatedAt.UnixNano(),
		uc.renderer.layoutName(), uc.renderer.language(),
		fingerprint(data, uc.renderer.Numbers))
}

// fingerprint hash de los datos de impresión que no son el propio documento.
func fingerprint(data *DocumentData, nf report.NumberFormat) uint64 {
	h := xxhash.New()
	put := func(values ...string) {
		for _, v := range values {
			_, _ = h.WriteString(v)
			_, _ = h.Write([]byte{0})
		}
	}

	put("numbers", strconv.Itoa(nf.Decimals), nf.DecimalSeparator, nf.ThousandsSeparator)
	if c := data.Company; c != nil {
		put("company", c.Name, c.TaxID, c.Address, c.City, c.Phone, c.Email, c.Web)
	}
	if c := data.Currency; c != nil {
		put("currency", c.Code, c.Name, c.Symbol)
	}
	if p := data.PaymentMethod; p != nil {
		put("payment", p.Code, p.Description, p.IBAN, strconv.FormatBool(p.PrintAccount))
	}
	for _, t := range data.Taxes {
		put("tax", t.Code, t.Description, t.Rate.String(), t.Surcharge.String())
	}
	if f := data.Format; f != nil {
		put("format", f.ID, f.Title, f.Text)
	}
	return h.Sum64()
}

func taxCodes(doc *entity.BusinessDocument) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, l := range doc.Lines {
		if l.TaxCode != "" && !seen[l.TaxCode] {
			seen[l.TaxCode] = true
			codes = append(codes, l.TaxCode)
		}
	}
	return codes
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName nombre de descarga: "presupuestocliente_PRE2024-1.pdf".
func FileName(doc *entity.BusinessDocument) string {
	code := unsafeFileChars.ReplaceAllString(doc.Code, "-")
	return fmt.Sprintf("%s_%s.pdf", strings.ToLower(doc.ModelClass), code)
}
