package repository

import (
	"context"

	"github.com/jhoicas/impresos/internal/domain/entity"
)

// BusinessDocumentRepository define el puerto de persistencia para documentos comerciales.
type BusinessDocumentRepository interface {
	// GetByCode devuelve la cabecera de la empresa con sus líneas ordenadas; nil si
	// esa empresa no tiene el documento (aunque otra use el mismo código).
	GetByCode(ctx context.Context, companyID, modelClass, code string) (*entity.BusinessDocument, error)
	GetLines(ctx context.Context, documentID string) ([]entity.BusinessDocumentLine, error)
}
