package bundle

import (
	"context"

	"github.com/jhoicas/impresos/internal/domain/entity"
)

// CompanyStore escritura de empresas.
type CompanyStore interface {
	Upsert(ctx context.Context, c *entity.Company) error
}

// CatalogStore escritura de divisas, impuestos y formatos de impresión.
// Divisas e impuestos son comunes a todas las empresas: Upsert* los reescribe,
// Add* solo crea los que faltan.
type CatalogStore interface {
	UpsertCurrency(ctx context.Context, c *entity.Currency) error
	AddCurrency(ctx context.Context, c *entity.Currency) error
	UpsertTax(ctx context.Context, t *entity.Tax) error
	AddTax(ctx context.Context, t *entity.Tax) error
	// UpsertFormat no cambia la empresa de un formato existente:
	// domain.ErrForbidden si el ID ya es de otra empresa (o genérico).
	UpsertFormat(ctx context.Context, f *entity.DocumentFormat) error
}

// PaymentMethodStore escritura de formas de pago.
type PaymentMethodStore interface {
	Upsert(ctx context.Context, p *entity.PaymentMethod) error
}

// DocumentStore escritura de documentos comerciales con sus líneas.
type DocumentStore interface {
	Save(ctx context.Context, d *entity.BusinessDocument) error
}

// UserStore alta de usuarios.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando almacenes atados a esa tx.
// Un paquete se importa entero o no se importa.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		companies CompanyStore,
		catalog CatalogStore,
		payments PaymentMethodStore,
		documents DocumentStore,
		users UserStore,
	) error) error
}
