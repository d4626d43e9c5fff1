package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/impresos/internal/domain"
	"github.com/jhoicas/impresos/internal/domain/entity"
	"github.com/jhoicas/impresos/internal/domain/repository"
)

var (
	_ repository.CurrencyRepository       = (*CatalogRepo)(nil)
	_ repository.TaxRepository            = (*CatalogRepo)(nil)
	_ repository.DocumentFormatRepository = (*CatalogRepo)(nil)
	_ repository.PaymentMethodRepository  = PaymentMethodRepo{}
)

// CatalogRepo tablas auxiliares de impresión: divisas, impuestos y formatos.
type CatalogRepo struct {
	db Querier
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(db Querier) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// PaymentMethods vista del catálogo como repositorio de formas de pago.
// GetByCode ya existe en CatalogRepo para divisas, de ahí el tipo aparte.
func (r *CatalogRepo) PaymentMethods() PaymentMethodRepo {
	return PaymentMethodRepo{db: r.db}
}

// ── Divisas ───────────────────────────────────────────────────────────────────

// GetByCode divisa por código ISO; nil si no existe.
func (r *CatalogRepo) GetByCode(ctx context.Context, code string) (*entity.Currency, error) {
	var c entity.Currency
	err := r.db.QueryRow(ctx, `SELECT code, name, symbol FROM currencies WHERE code = $1`, code).
		Scan(&c.Code, &c.Name, &c.Symbol)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get currency %s: %w", code, err)
	}
	return &c, nil
}

// UpsertCurrency crea o actualiza una divisa.
func (r *CatalogRepo) UpsertCurrency(ctx context.Context, c *entity.Currency) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO currencies (code, name, symbol) VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, symbol = EXCLUDED.symbol`,
		c.Code, c.Name, c.Symbol)
	if err != nil {
		return fmt.Errorf("upsert currency %s: %w", c.Code, err)
	}
	return nil
}

// AddCurrency crea la divisa si no existe; una existente no se modifica.
func (r *CatalogRepo) AddCurrency(ctx context.Context, c *entity.Currency) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO currencies (code, name, symbol) VALUES ($1, $2, $3)
		ON CONFLICT (code) DO NOTHING`,
		c.Code, c.Name, c.Symbol)
	if err != nil {
		return fmt.Errorf("add currency %s: %w", c.Code, err)
	}
	return nil
}

// ── Impuestos ─────────────────────────────────────────────────────────────────

// ListByCodes impuestos con los códigos dados (los inexistentes se ignoran).
func (r *CatalogRepo) ListByCodes(ctx context.Context, codes []string) ([]entity.Tax, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT code, description, rate, surcharge
		FROM taxes WHERE code = ANY($1) ORDER BY code`, codes)
	if err != nil {
		return nil, fmt.Errorf("list taxes: %w", err)
	}
	taxes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Tax, error) {
		var t entity.Tax
		err := row.Scan(&t.Code, &t.Description, &t.Rate, &t.Surcharge)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan tax: %w", err)
	}
	return taxes, nil
}

// UpsertTax crea o actualiza un impuesto.
func (r *CatalogRepo) UpsertTax(ctx context.Context, t *entity.Tax) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO taxes (code, description, rate, surcharge) VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET
			description = EXCLUDED.description, rate = EXCLUDED.rate, surcharge = EXCLUDED.surcharge`,
		t.Code, t.Description, t.Rate, t.Surcharge)
	if err != nil {
		return fmt.Errorf("upsert tax %s: %w", t.Code, err)
	}
	return nil
}

// AddTax crea el impuesto si no existe; uno existente no se modifica.
func (r *CatalogRepo) AddTax(ctx context.Context, t *entity.Tax) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO taxes (code, description, rate, surcharge) VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO NOTHING`,
		t.Code, t.Description, t.Rate, t.Surcharge)
	if err != nil {
		return fmt.Errorf("add tax %s: %w", t.Code, err)
	}
	return nil
}

// ── Formatos de impresión ─────────────────────────────────────────────────────

// FindFor formato más específico: empresa+tipo, empresa, tipo, genérico; nil si no hay.
func (r *CatalogRepo) FindFor(ctx context.Context, companyID, modelClass string) (*entity.DocumentFormat, error) {
	query := `
		SELECT id, name, COALESCE(company_id::text, ''), COALESCE(model_class, ''), title, text
		FROM document_formats
		WHERE (company_id = $1 OR company_id IS NULL)
		  AND (model_class = $2 OR model_class IS NULL)
		ORDER BY (company_id IS NOT NULL) DESC, (model_class IS NOT NULL) DESC, name
		LIMIT 1`
	var f entity.DocumentFormat
	err := r.db.QueryRow(ctx, query, companyID, modelClass).Scan(
		&f.ID, &f.Name, &f.CompanyID, &f.ModelClass, &f.Title, &f.Text,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find document format: %w", err)
	}
	return &f, nil
}

// UpsertFormat crea o actualiza un formato de impresión. Un formato existente
// conserva su empresa: si el ID pertenece a otra (o es genérico y f no), ErrForbidden.
func (r *CatalogRepo) UpsertFormat(ctx context.Context, f *entity.DocumentFormat) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_formats (id, name, company_id, model_class, title, text)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, model_class = EXCLUDED.model_class,
			title = EXCLUDED.title, text = EXCLUDED.text
		WHERE document_formats.company_id IS NOT DISTINCT FROM EXCLUDED.company_id
		RETURNING id`,
		f.ID, f.Name, nullString(f.CompanyID), nullString(f.ModelClass), f.Title, f.Text,
	).Scan(&f.ID)
	if err != nil {
		if isNoRows(err) {
			return fmt.Errorf("%w: el formato %s pertenece a otra empresa", domain.ErrForbidden, f.Name)
		}
		return fmt.Errorf("upsert document format %s: %w", f.Name, err)
	}
	return nil
}

// ── Formas de pago ────────────────────────────────────────────────────────────

// PaymentMethodRepo formas de pago por empresa.
type PaymentMethodRepo struct {
	db Querier
}

// GetByCode forma de pago de la empresa; nil si no existe.
func (r PaymentMethodRepo) GetByCode(ctx context.Context, companyID, code string) (*entity.PaymentMethod, error) {
	var p entity.PaymentMethod
	err := r.db.QueryRow(ctx, `
		SELECT company_id, code, description, iban, print_account
		FROM payment_methods WHERE company_id = $1 AND code = $2`, companyID, code).
		Scan(&p.CompanyID, &p.Code, &p.Description, &p.IBAN, &p.PrintAccount)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment method %s: %w", code, err)
	}
	return &p, nil
}

// Upsert crea o actualiza la forma de pago.
func (r PaymentMethodRepo) Upsert(ctx context.Context, p *entity.PaymentMethod) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payment_methods (company_id, code, description, iban, print_account)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id, code) DO UPDATE SET
			description = EXCLUDED.description, iban = EXCLUDED.iban, print_account = EXCLUDED.print_account`,
		p.CompanyID, p.Code, p.Description, p.IBAN, p.PrintAccount)
	if err != nil {
		return fmt.Errorf("upsert payment method %s: %w", p.Code, err)
	}
	return nil
}
