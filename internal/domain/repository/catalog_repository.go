package repository

import (
	"context"

	"github.com/jhoicas/impresos/internal/domain/entity"
)

// CurrencyRepository divisas.
type CurrencyRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Currency, error)
}

// PaymentMethodRepository formas de pago.
type PaymentMethodRepository interface {
	GetByCode(ctx context.Context, companyID, code string) (*entity.PaymentMethod, error)
}

// TaxRepository impuestos.
type TaxRepository interface {
	ListByCodes(ctx context.Context, codes []string) ([]entity.Tax, error)
}

// DocumentFormatRepository formatos de impresión.
type DocumentFormatRepository interface {
	// FindFor devuelve el formato más específico para la empresa y el tipo de documento:
	// empresa+tipo, empresa, tipo y por último el genérico. nil si no hay ninguno.
	FindFor(ctx context.Context, companyID, modelClass string) (*entity.DocumentFormat, error)
}
