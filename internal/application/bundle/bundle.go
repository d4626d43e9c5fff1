// Package bundle agrupa en un solo paquete una empresa, sus catálogos y sus documentos:
// es la unidad de trabajo del renderizado sin base de datos y de la carga inicial.
package bundle

import (
	"fmt"

	"github.com/jhoicas/impresos/internal/application/export"
	"github.com/jhoicas/impresos/internal/domain"
	"github.com/jhoicas/impresos/internal/domain/entity"
)

// UserSeed usuario a crear en la carga inicial (password en claro, se hashea al importar).
type UserSeed struct {
	Email    string
	Name     string
	Role     string
	Password string
}

// Bundle empresa, catálogos y documentos relacionados entre sí por código.
type Bundle struct {
	Company        entity.Company
	Currencies     []entity.Currency
	PaymentMethods []entity.PaymentMethod
	Taxes          []entity.Tax
	Formats        []entity.DocumentFormat
	Documents      []entity.BusinessDocument
	Users          []UserSeed
}

// Validate comprueba que cada documento tenga tipo conocido, código único y
// que sus referencias (divisa, forma de pago) existan en el paquete.
func (b *Bundle) Validate() error {
	if b.Company.Name == "" {
		return fmt.Errorf("%w: empresa sin nombre", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(b.Documents))
	for i := range b.Documents {
		d := &b.Documents[i]
		if !entity.IsKnownModel(d.ModelClass) {
			return fmt.Errorf("%w: documento %q: %s", domain.ErrUnknownModel, d.Code, d.ModelClass)
		}
		if d.Code == "" {
			return fmt.Errorf("%w: documento %d sin código", domain.ErrInvalidInput, i+1)
		}
		key := d.ModelClass + "/" + d.Code
		if seen[key] {
			return fmt.Errorf("%w: documento duplicado %s", domain.ErrInvalidInput, key)
		}
		seen[key] = true
		if d.CurrencyCode != "" && b.currency(d.CurrencyCode) == nil {
			return fmt.Errorf("%w: %s: divisa %q no definida", domain.ErrInvalidInput, d.Code, d.CurrencyCode)
		}
		if d.PaymentMethodCode != "" && b.paymentMethod(d.PaymentMethodCode) == nil {
			return fmt.Errorf("%w: %s: forma de pago %q no definida", domain.ErrInvalidInput, d.Code, d.PaymentMethodCode)
		}
	}
	return nil
}

// DocumentData datos de impresión de todos los documentos, en el orden del paquete.
func (b *Bundle) DocumentData() []*export.DocumentData {
	out := make([]*export.DocumentData, 0, len(b.Documents))
	for i := range b.Documents {
		out = append(out, b.dataFor(&b.Documents[i]))
	}
	return out
}

// Find datos de impresión de un documento concreto; domain.ErrNotFound si no está.
func (b *Bundle) Find(modelClass, code string) (*export.DocumentData, error) {
	for i := range b.Documents {
		d := &b.Documents[i]
		if d.ModelClass == modelClass && d.Code == code {
			return b.dataFor(d), nil
		}
	}
	return nil, fmt.Errorf("%w: %s %s", domain.ErrNotFound, modelClass, code)
}

func (b *Bundle) dataFor(d *entity.BusinessDocument) *export.DocumentData {
	return &export.DocumentData{
		Document:      d,
		Company:       &b.Company,
		Currency:      b.currency(d.CurrencyCode),
		PaymentMethod: b.paymentMethod(d.PaymentMethodCode),
		Taxes:         b.Taxes,
		Format:        PickFormat(b.Formats, d.CompanyID, d.ModelClass),
	}
}

func (b *Bundle) currency(code string) *entity.Currency {
	for i := range b.Currencies {
		if b.Currencies[i].Code == code {
			return &b.Currencies[i]
		}
	}
	return nil
}

func (b *Bundle) paymentMethod(code string) *entity.PaymentMethod {
	for i := range b.PaymentMethods {
		if b.PaymentMethods[i].Code == code {
			return &b.PaymentMethods[i]
		}
	}
	return nil
}

// PickFormat formato más específico para la empresa y el tipo de documento:
// empresa+tipo, luego empresa, luego tipo, luego genérico. nil si ninguno aplica.
func PickFormat(formats []entity.DocumentFormat, companyID, modelClass string) *entity.DocumentFormat {
	var best *entity.DocumentFormat
	bestScore := -1
	for i := range formats {
		f := &formats[i]
		if f.CompanyID != "" && f.CompanyID != companyID {
			continue
		}
		if f.ModelClass != "" && f.ModelClass != modelClass {
			continue
		}
		score := 0
		if f.CompanyID != "" {
			score += 2
		}
		if f.ModelClass != "" {
			score++
		}
		if score > bestScore {
			best, bestScore = f, score
		}
	}
	return best
}
