// Package fixture lee paquetes de documentos (empresa, catálogos, documentos y usuarios)
// desde ficheros YAML o JSON para renderizarlos sin base de datos o importarlos.
package fixture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/impresos/internal/application/bundle"
	"github.com/jhoicas/impresos/internal/domain"
	"github.com/jhoicas/impresos/internal/domain/entity"
)

// namespace de los IDs derivados: el mismo fichero produce siempre los mismos IDs,
// así reimportarlo actualiza en lugar de duplicar.
var namespace = uuid.MustParse("6f1c9a52-3b8e-4d8a-9a51-0b7c2a4e9d10")

// ── Estructura del fichero ────────────────────────────────────────────────────

type fileBundle struct {
	Company        fileCompany         `yaml:"company"`
	Currencies     []fileCurrency      `yaml:"currencies"`
	PaymentMethods []filePaymentMethod `yaml:"payment_methods"`
	Taxes          []fileTax           `yaml:"taxes"`
	Formats        []fileFormat        `yaml:"formats"`
	Documents      []fileDocument      `yaml:"documents"`
	Users          []fileUser          `yaml:"users"`
}

type fileCompany struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	TaxID   string `yaml:"tax_id"`
	Address string `yaml:"address"`
	City    string `yaml:"city"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
	Web     string `yaml:"web"`
}

type fileCurrency struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

type filePaymentMethod struct {
	Code         string `yaml:"code"`
	Description  string `yaml:"description"`
	IBAN         string `yaml:"iban"`
	PrintAccount bool   `yaml:"print_account"`
}

type fileTax struct {
	Code        string          `yaml:"code"`
	Description string          `yaml:"description"`
	Rate        decimal.Decimal `yaml:"rate"`
	Surcharge   decimal.Decimal `yaml:"surcharge"`
}

type fileFormat struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	CompanyOnly bool   `yaml:"company_only"` // solo para la empresa del paquete
	Model       string `yaml:"model"`
	Title       string `yaml:"title"`
	Text        string `yaml:"text"`
}

type fileDocument struct {
	Model             string          `yaml:"model"`
	Code              string          `yaml:"code"`
	Number            string          `yaml:"number"`
	Date              string          `yaml:"date"`
	CustomerCode      string          `yaml:"customer_code"`
	CustomerName      string          `yaml:"customer_name"`
	CustomerTaxID     string          `yaml:"customer_tax_id"`
	Address           string          `yaml:"address"`
	City              string          `yaml:"city"`
	Currency          string          `yaml:"currency"`
	PaymentMethod     string          `yaml:"payment_method"`
	Discount1         decimal.Decimal `yaml:"discount1"`
	Discount2         decimal.Decimal `yaml:"discount2"`
	NetBeforeDiscount decimal.Decimal `yaml:"net_before_discount"`
	Net               decimal.Decimal `yaml:"net"`
	TotalTax          decimal.Decimal `yaml:"total_tax"`
	TotalSurcharge    decimal.Decimal `yaml:"total_surcharge"`
	TotalRetention    decimal.Decimal `yaml:"total_retention"`
	TotalSupplied     decimal.Decimal `yaml:"total_supplied"`
	Total             decimal.Decimal `yaml:"total"`
	OfferExpiration   string          `yaml:"offer_expiration"`
	DueDate           string          `yaml:"due_date"`
	Observations      string          `yaml:"observations"`
	Lines             []fileLine      `yaml:"lines"`
}

type fileLine struct {
	Reference     string          `yaml:"reference"`
	Description   string          `yaml:"description"`
	Quantity      decimal.Decimal `yaml:"quantity"`
	UnitPrice     decimal.Decimal `yaml:"unit_price"`
	Discount      decimal.Decimal `yaml:"discount"`
	Discount2     decimal.Decimal `yaml:"discount2"`
	Total         decimal.Decimal `yaml:"total"`
	Tax           string          `yaml:"tax"`
	TaxRate       decimal.Decimal `yaml:"tax_rate"`
	SurchargeRate decimal.Decimal `yaml:"surcharge_rate"`
	RetentionRate decimal.Decimal `yaml:"retention_rate"`
	Supplied      bool            `yaml:"supplied"`
	ShowPrice     *bool           `yaml:"show_price"`
	ShowQuantity  *bool           `yaml:"show_quantity"`
	PageBreak     bool            `yaml:"page_break"`
}

type fileUser struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

// ── Opciones ──────────────────────────────────────────────────────────────────

type options struct {
	enc encoding.Encoding
}

// Option configura la lectura.
type Option func(*options) error

// WithCharset juego de caracteres del fichero: utf-8 (por defecto), latin1/iso-8859-1,
// iso-8859-15 o windows-1252. Los exportes de gestores antiguos suelen venir en latin1.
func WithCharset(name string) Option {
	return func(o *options) error {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "", "utf-8", "utf8":
			o.enc = nil
		case "latin1", "iso-8859-1", "iso8859-1":
			o.enc = charmap.ISO8859_1
		case "latin9", "iso-8859-15", "iso8859-15":
			o.enc = charmap.ISO8859_15
		case "windows-1252", "cp1252":
			o.enc = charmap.Windows1252
		default:
			return fmt.Errorf("%w: juego de caracteres %q no soportado", domain.ErrInvalidInput, name)
		}
		return nil
	}
}

// ── Lectura ───────────────────────────────────────────────────────────────────

// Load lee el paquete del fichero indicado. JSON también vale: es un subconjunto de YAML.
func Load(path string, opts ...Option) (*bundle.Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()

	b, err := Decode(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Decode lee un paquete de r, lo convierte a entidades y lo valida.
func Decode(r io.Reader, opts ...Option) (*bundle.Bundle, error) {
	var o options
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	if o.enc != nil {
		r = transform.NewReader(r, o.enc.NewDecoder())
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var fb fileBundle
	if err := dec.Decode(&fb); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: fichero vacío", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	b, err := fb.toBundle()
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (fb *fileBundle) toBundle() (*bundle.Bundle, error) {
	c := fb.Company
	companyID := c.ID
	if companyID == "" {
		key := c.TaxID
		if key == "" {
			key = c.Name
		}
		companyID = derivedID("company", key)
	}
	b := &bundle.Bundle{
		Company: entity.Company{
			ID: companyID, Name: c.Name, TaxID: c.TaxID, Address: c.Address,
			City: c.City, Phone: c.Phone, Email: c.Email, Web: c.Web,
		},
	}

	for _, cur := range fb.Currencies {
		b.Currencies = append(b.Currencies, entity.Currency{Code: cur.Code, Name: cur.Name, Symbol: cur.Symbol})
	}
	for _, p := range fb.PaymentMethods {
		b.PaymentMethods = append(b.PaymentMethods, entity.PaymentMethod{
			Code: p.Code, CompanyID: companyID, Description: p.Description,
			IBAN: p.IBAN, PrintAccount: p.PrintAccount,
		})
	}
	for _, t := range fb.Taxes {
		b.Taxes = append(b.Taxes, entity.Tax{Code: t.Code, Description: t.Description, Rate: t.Rate, Surcharge: t.Surcharge})
	}
	for _, f := range fb.Formats {
		format := entity.DocumentFormat{Name: f.Name, ModelClass: f.Model, Title: f.Title, Text: f.Text, ID: f.ID}
		if f.CompanyOnly {
			format.CompanyID = companyID
		}
		if format.ID == "" {
			format.ID = derivedID("format", format.CompanyID+"/"+format.ModelClass+"/"+format.Name)
		}
		b.Formats = append(b.Formats, format)
	}

	for i, fd := range fb.Documents {
		d, err := fd.toEntity(companyID)
		if err != nil {
			return nil, fmt.Errorf("documento %d (%s): %w", i+1, fd.Code, err)
		}
		b.Documents = append(b.Documents, *d)
	}

	for _, u := range fb.Users {
		b.Users = append(b.Users, bundle.UserSeed{Email: u.Email, Name: u.Name, Role: u.Role, Password: u.Password})
	}
	return b, nil
}

func (fd *fileDocument) toEntity(companyID string) (*entity.BusinessDocument, error) {
	date, err := parseDate(fd.Date)
	if err != nil {
		return nil, err
	}
	expiration, err := parseDate(fd.OfferExpiration)
	if err != nil {
		return nil, err
	}
	due, err := parseDate(fd.DueDate)
	if err != nil {
		return nil, err
	}

	number := fd.Number
	if number == "" {
		number = fd.Code
	}
	d := &entity.BusinessDocument{
		ID:                derivedID("document", companyID+"/"+fd.Model+"/"+fd.Code),
		ModelClass:        fd.Model,
		CompanyID:         companyID,
		Code:              fd.Code,
		Number:            number,
		Date:              date,
		CustomerCode:      fd.CustomerCode,
		CustomerName:      fd.CustomerName,
		CustomerTaxID:     fd.CustomerTaxID,
		Address:           fd.Address,
		City:              fd.City,
		CurrencyCode:      fd.Currency,
		PaymentMethodCode: fd.PaymentMethod,
		GlobalDiscount1:   fd.Discount1,
		GlobalDiscount2:   fd.Discount2,
		NetBeforeDiscount: fd.NetBeforeDiscount,
		Net:               fd.Net,
		TotalTax:          fd.TotalTax,
		TotalSurcharge:    fd.TotalSurcharge,
		TotalRetention:    fd.TotalRetention,
		TotalSupplied:     fd.TotalSupplied,
		Total:             fd.Total,
		OfferExpiration:   expiration,
		DueDate:           due,
		Observations:      fd.Observations,
		UpdatedAt:         date,
	}
	// Sin neto previo a descuentos, el neto sirve (no hay descuentos globales).
	if d.NetBeforeDiscount.IsZero() {
		d.NetBeforeDiscount = d.Net
	}

	for i, fl := range fd.Lines {
		d.Lines = append(d.Lines, entity.BusinessDocumentLine{
			ID:            derivedID("line", fmt.Sprintf("%s/%d", d.ID, i+1)),
			DocumentID:    d.ID,
			Position:      i + 1,
			Reference:     fl.Reference,
			Description:   fl.Description,
			Quantity:      fl.Quantity,
			UnitPrice:     fl.UnitPrice,
			Discount:      fl.Discount,
			Discount2:     fl.Discount2,
			LineTotal:     fl.Total,
			TaxCode:       fl.Tax,
			TaxRate:       fl.TaxRate,
			SurchargeRate: fl.SurchargeRate,
			RetentionRate: fl.RetentionRate,
			Supplied:      fl.Supplied,
			ShowPrice:     fl.ShowPrice,
			ShowQuantity:  fl.ShowQuantity,
			PageBreak:     fl.PageBreak,
		})
	}
	return d, nil
}

// parseDate admite 2006-01-02 y RFC 3339; vacío es la fecha cero.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q (se espera AAAA-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func derivedID(kind, key string) string {
	return uuid.NewSHA1(namespace, []byte(kind+":"+key)).String()
}
