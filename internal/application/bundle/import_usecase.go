package bundle

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/impresos/internal/domain"
	"github.com/jhoicas/impresos/internal/domain/entity"
)

// ImportResult resumen de una importación.
type ImportResult struct {
	CompanyID    string `json:"company_id"`
	Documents    int    `json:"documents"`
	Users        int    `json:"users"`
	SkippedUsers int    `json:"skipped_users"`
}

// ImportUseCase vuelca un paquete en la base de datos en una única transacción.
type ImportUseCase struct {
	tx   TxRunner
	log  zerolog.Logger
	cost int
}

// ImportOption configura el caso de uso.
type ImportOption func(*ImportUseCase)

// WithImportLogger logger para el detalle de la importación.
func WithImportLogger(l zerolog.Logger) ImportOption {
	return func(uc *ImportUseCase) { uc.log = l }
}

// WithBcryptCost coste de bcrypt para las contraseñas (tests usan bcrypt.MinCost).
func WithBcryptCost(cost int) ImportOption {
	return func(uc *ImportUseCase) { uc.cost = cost }
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(tx TxRunner, opts ...ImportOption) *ImportUseCase {
	uc := &ImportUseCase{tx: tx, log: zerolog.Nop(), cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Import valida el paquete y lo persiste con todos sus catálogos, incluidos los
// comunes (divisas, impuestos, formatos genéricos). Es la carga del operador.
// Los documentos existentes de la empresa (mismo tipo y código) se reemplazan con
// sus líneas; los usuarios cuyo email ya existe se omiten.
func (uc *ImportUseCase) Import(ctx context.Context, b *Bundle) (*ImportResult, error) {
	return uc.run(ctx, b, false)
}

// ImportForCompany importación de un usuario de companyID: el paquete tiene que ser
// de esa empresa y sus formatos también. Las divisas e impuestos que ya existen no
// se tocan, porque los comparten todas las empresas.
func (uc *ImportUseCase) ImportForCompany(ctx context.Context, companyID string, b *Bundle) (*ImportResult, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: paquete vacío", domain.ErrInvalidInput)
	}
	if companyID == "" || b.Company.ID != companyID {
		return nil, fmt.Errorf("%w: el paquete es de otra empresa", domain.ErrForbidden)
	}
	for _, f := range b.Formats {
		if f.CompanyID != companyID {
			return nil, fmt.Errorf("%w: el formato %q no es exclusivo de la empresa", domain.ErrForbidden, f.Name)
		}
	}
	return uc.run(ctx, b, true)
}

func (uc *ImportUseCase) run(ctx context.Context, b *Bundle, tenant bool) (*ImportResult, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: paquete vacío", domain.ErrInvalidInput)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	// Hash fuera de la transacción: bcrypt es lento a propósito.
	hashes := make([]string, len(b.Users))
	for i, u := range b.Users {
		if u.Email == "" || u.Password == "" {
			return nil, fmt.Errorf("%w: usuario %d sin email o password", domain.ErrInvalidInput, i+1)
		}
		switch strings.ToLower(u.Role) {
		case "", entity.RoleAdmin, entity.RoleVendedor, entity.RoleLectura:
		default:
			return nil, fmt.Errorf("%w: rol %q no válido para %s", domain.ErrInvalidInput, u.Role, u.Email)
		}
		h, err := bcrypt.GenerateFromPassword([]byte(u.Password), uc.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password %s: %w", u.Email, err)
		}
		hashes[i] = string(h)
	}

	res := &ImportResult{}
	err := uc.tx.Run(ctx, func(companies CompanyStore, catalog CatalogStore, payments PaymentMethodStore, documents DocumentStore, users UserStore) error {
		if err := companies.Upsert(ctx, &b.Company); err != nil {
			return err
		}
		res.CompanyID = b.Company.ID

		addCurrency, addTax := catalog.UpsertCurrency, catalog.UpsertTax
		if tenant {
			addCurrency, addTax = catalog.AddCurrency, catalog.AddTax
		}
		for i := range b.Currencies {
			if err := addCurrency(ctx, &b.Currencies[i]); err != nil {
				return err
			}
		}
		for i := range b.Taxes {
			if err := addTax(ctx, &b.Taxes[i]); err != nil {
				return err
			}
		}
		for i := range b.Formats {
			if err := catalog.UpsertFormat(ctx, &b.Formats[i]); err != nil {
				return err
			}
		}
		for i := range b.PaymentMethods {
			p := &b.PaymentMethods[i]
			p.CompanyID = b.Company.ID
			if err := payments.Upsert(ctx, p); err != nil {
				return err
			}
		}
		for i := range b.Documents {
			d := &b.Documents[i]
			d.CompanyID = b.Company.ID
			if err := documents.Save(ctx, d); err != nil {
				return err
			}
			uc.log.Debug().Str("model", d.ModelClass).Str("code", d.Code).Int("lines", len(d.Lines)).Msg("documento importado")
			res.Documents++
		}
		for i, u := range b.Users {
			existing, err := users.FindByEmail(ctx, u.Email)
			if err != nil {
				return err
			}
			if existing != nil {
				uc.log.Info().Str("email", u.Email).Msg("usuario ya existe, se omite")
				res.SkippedUsers++
				continue
			}
			if err := users.Create(ctx, newUser(b.Company.ID, u, hashes[i])); err != nil {
				return err
			}
			res.Users++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", res.CompanyID).Int("documents", res.Documents).
		Int("users", res.Users).Int("skipped_users", res.SkippedUsers).Msg("paquete importado")
	return res, nil
}

func newUser(companyID string, in UserSeed, hash string) *entity.User {
	name := in.Name
	if name == "" {
		name = in.Email
	}
	role := strings.ToLower(in.Role)
	if role == "" {
		role = entity.RoleLectura
	}
	return &entity.User{
		CompanyID:    companyID,
		Email:        in.Email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Status:       "active",
	}
}
