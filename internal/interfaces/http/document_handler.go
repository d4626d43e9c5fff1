package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/impresos/internal/application/bundle"
	"github.com/jhoicas/impresos/internal/application/dto"
	"github.com/jhoicas/impresos/internal/application/export"
	"github.com/jhoicas/impresos/internal/domain"
)

// DocumentPDFUseCase genera el PDF de un documento guardado.
type DocumentPDFUseCase interface {
	DownloadDocumentPDF(ctx context.Context, companyID, modelClass, code string) ([]byte, string, error)
}

// BundleRenderer dibuja documentos ya cargados en memoria.
type BundleRenderer interface {
	Render(docs ...*export.DocumentData) ([]byte, error)
}

// BundleImporter persiste un paquete de la empresa del usuario.
type BundleImporter interface {
	ImportForCompany(ctx context.Context, companyID string, b *bundle.Bundle) (*bundle.ImportResult, error)
}

// BundleDecoder convierte el cuerpo de la petición (YAML o JSON) en un paquete.
type BundleDecoder func(r io.Reader) (*bundle.Bundle, error)

// DocumentHandler impresión de documentos comerciales.
type DocumentHandler struct {
	pdf      DocumentPDFUseCase
	renderer BundleRenderer
	importer BundleImporter
	decode   BundleDecoder
}

// NewDocumentHandler construye el handler. renderer, importer y decode pueden ser nil
// si las rutas correspondientes no se registran.
func NewDocumentHandler(pdf DocumentPDFUseCase, renderer BundleRenderer, importer BundleImporter, decode BundleDecoder) *DocumentHandler {
	return &DocumentHandler{pdf: pdf, renderer: renderer, importer: importer, decode: decode}
}

// DownloadPDF godoc
// @Summary      Descargar PDF de un documento comercial
// @Description  Presupuestos con el diseño de presupuesto configurado; el resto con el diseño por defecto.
// @Tags         documents
// @Produce      application/pdf
// @Param        model   path   string  true   "PresupuestoCliente | PedidoCliente | AlbaranCliente | FacturaCliente"
// @Param        code    path   string  true   "código del documento (URL-encoded)"
// @Param        inline  query  bool    false  "mostrar en el navegador en lugar de descargar"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/documents/{model}/{code}/pdf [get]
func (h *DocumentHandler) DownloadPDF(c *fiber.Ctx) error {
	code, err := url.PathUnescape(c.Params("code"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "código de documento mal codificado"})
	}
	pdf, filename, err := h.pdf.DownloadDocumentPDF(c.UserContext(), GetCompanyID(c), c.Params("model"), code)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, filename, c.QueryBool("inline"))
}

// RenderBundle godoc
// @Summary      Renderizar un paquete de documentos sin guardarlo
// @Description  El cuerpo es un paquete YAML o JSON (empresa, catálogos, documentos). Devuelve un único PDF.
// @Tags         documents
// @Accept       application/x-yaml
// @Accept       json
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/documents/render [post]
func (h *DocumentHandler) RenderBundle(c *fiber.Ctx) error {
	b, err := h.decode(bytes.NewReader(c.Body()))
	if err != nil {
		return writeError(c, err)
	}
	data := b.DocumentData()
	if len(data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el paquete no contiene documentos"})
	}
	pdf, err := h.renderer.Render(data...)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, pdf, export.FileName(data[0].Document), c.QueryBool("inline"))
}

// ImportBundle godoc
// @Summary      Importar un paquete de documentos
// @Description  Crea o actualiza empresa, formas de pago, formatos propios y documentos; crea los
// @Description  usuarios, divisas e impuestos que no existan. La empresa del paquete y la de todos
// @Description  sus formatos debe ser la del token.
// @Tags         documents
// @Accept       application/x-yaml
// @Accept       json
// @Produce      json
// @Success      200  {object}  bundle.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/documents/import [post]
func (h *DocumentHandler) ImportBundle(c *fiber.Ctx) error {
	b, err := h.decode(bytes.NewReader(c.Body()))
	if err != nil {
		return writeError(c, err)
	}
	companyID := GetCompanyID(c)
	if b.Company.ID != companyID {
		return writeError(c, fmt.Errorf("%w: el paquete es de otra empresa", domain.ErrForbidden))
	}
	res, err := h.importer.ImportForCompany(c.UserContext(), companyID, b)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

func sendPDF(c *fiber.Ctx, pdf []byte, filename string, inline bool) error {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
	return c.Send(pdf)
}

// writeError traduce los errores de dominio a códigos HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnknownModel):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_MODEL", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo generar el documento"})
	}
}
