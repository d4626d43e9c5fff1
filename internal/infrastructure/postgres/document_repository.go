package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/impresos/internal/domain/entity"
	"github.com/jhoicas/impresos/internal/domain/repository"
)

var _ repository.BusinessDocumentRepository = (*BusinessDocumentRepo)(nil)

// BusinessDocumentRepo documentos comerciales y sus líneas sobre PostgreSQL.
type BusinessDocumentRepo struct {
	db Querier
}

// NewBusinessDocumentRepository construye el adaptador (acepta el pool o una transacción).
func NewBusinessDocumentRepository(db Querier) *BusinessDocumentRepo {
	return &BusinessDocumentRepo{db: db}
}

const documentColumns = `
	id, model_class, company_id, code, number, date,
	customer_code, customer_name, customer_tax_id, address, city,
	currency_code, payment_method_code,
	global_discount1, global_discount2, net_before_discount, net,
	total_tax, total_surcharge, total_retention, total_supplied, total,
	offer_expiration, due_date, observations, created_at, updated_at`

// GetByCode cabecera de la empresa con sus líneas ordenadas por posición; nil si no existe.
func (r *BusinessDocumentRepo) GetByCode(ctx context.Context, companyID, modelClass, code string) (*entity.BusinessDocument, error) {
	query := `SELECT ` + documentColumns + `
		FROM business_documents WHERE company_id = $1 AND model_class = $2 AND code = $3`

	var d entity.BusinessDocument
	var offerExpiration, dueDate *time.Time
	err := r.db.QueryRow(ctx, query, companyID, modelClass, code).Scan(
		&d.ID, &d.ModelClass, &d.CompanyID, &d.Code, &d.Number, &d.Date,
		&d.CustomerCode, &d.CustomerName, &d.CustomerTaxID, &d.Address, &d.City,
		&d.CurrencyCode, &d.PaymentMethodCode,
		&d.GlobalDiscount1, &d.GlobalDiscount2, &d.NetBeforeDiscount, &d.Net,
		&d.TotalTax, &d.TotalSurcharge, &d.TotalRetention, &d.TotalSupplied, &d.Total,
		&offerExpiration, &dueDate, &d.Observations, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document %s %s: %w", modelClass, code, err)
	}
	d.OfferExpiration = fromNullTime(offerExpiration)
	d.DueDate = fromNullTime(dueDate)

	if d.Lines, err = r.GetLines(ctx, d.ID); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetLines líneas del documento en orden.
func (r *BusinessDocumentRepo) GetLines(ctx context.Context, documentID string) ([]entity.BusinessDocumentLine, error) {
	query := `
		SELECT id, document_id, position, reference, description,
		       quantity, unit_price, discount, discount2, line_total,
		       tax_code, tax_rate, surcharge_rate, retention_rate,
		       supplied, show_price, show_quantity, page_break
		FROM business_document_lines
		WHERE document_id = $1
		ORDER BY position, id`
	rows, err := r.db.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.BusinessDocumentLine
	for rows.Next() {
		var l entity.BusinessDocumentLine
		if err := rows.Scan(
			&l.ID, &l.DocumentID, &l.Position, &l.Reference, &l.Description,
			&l.Quantity, &l.UnitPrice, &l.Discount, &l.Discount2, &l.LineTotal,
			&l.TaxCode, &l.TaxRate, &l.SurchargeRate, &l.RetentionRate,
			&l.Supplied, &l.ShowPrice, &l.ShowQuantity, &l.PageBreak,
		); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Save inserta o reemplaza el documento (por empresa + model_class + code) y todas sus
// líneas. La empresa de un documento existente no cambia nunca.
// Pensado para ejecutarse dentro de una transacción (ver TxRunner).
func (r *BusinessDocumentRepo) Save(ctx context.Context, d *entity.BusinessDocument) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	query := `
		INSERT INTO business_documents (` + documentColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
		ON CONFLICT (company_id, model_class, code) DO UPDATE SET
			number = EXCLUDED.number, date = EXCLUDED.date,
			customer_code = EXCLUDED.customer_code, customer_name = EXCLUDED.customer_name,
			customer_tax_id = EXCLUDED.customer_tax_id, address = EXCLUDED.address, city = EXCLUDED.city,
			currency_code = EXCLUDED.currency_code, payment_method_code = EXCLUDED.payment_method_code,
			global_discount1 = EXCLUDED.global_discount1, global_discount2 = EXCLUDED.global_discount2,
			net_before_discount = EXCLUDED.net_before_discount, net = EXCLUDED.net,
			total_tax = EXCLUDED.total_tax, total_surcharge = EXCLUDED.total_surcharge,
			total_retention = EXCLUDED.total_retention, total_supplied = EXCLUDED.total_supplied,
			total = EXCLUDED.total, offer_expiration = EXCLUDED.offer_expiration,
			due_date = EXCLUDED.due_date, observations = EXCLUDED.observations,
			updated_at = EXCLUDED.updated_at
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		d.ID, d.ModelClass, d.CompanyID, d.Code, d.Number, d.Date,
		d.CustomerCode, d.CustomerName, d.CustomerTaxID, d.Address, d.City,
		d.CurrencyCode, d.PaymentMethodCode,
		d.GlobalDiscount1, d.GlobalDiscount2, d.NetBeforeDiscount, d.Net,
		d.TotalTax, d.TotalSurcharge, d.TotalRetention, d.TotalSupplied, d.Total,
		nullTime(d.OfferExpiration), nullTime(d.DueDate), d.Observations, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", d.Code, err)
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM business_document_lines WHERE document_id = $1`, d.ID); err != nil {
		return fmt.Errorf("delete document lines: %w", err)
	}
	for i := range d.Lines {
		if err := r.insertLine(ctx, d.ID, i, &d.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *BusinessDocumentRepo) insertLine(ctx context.Context, documentID string, pos int, l *entity.BusinessDocumentLine) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.DocumentID = documentID
	if l.Position == 0 {
		l.Position = pos + 1
	}
	query := `
		INSERT INTO business_document_lines (
			id, document_id, position, reference, description,
			quantity, unit_price, discount, discount2, line_total,
			tax_code, tax_rate, surcharge_rate, retention_rate,
			supplied, show_price, show_quantity, page_break)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`
	_, err := r.db.Exec(ctx, query,
		l.ID, l.DocumentID, l.Position, l.Reference, l.Description,
		l.Quantity, l.UnitPrice, l.Discount, l.Discount2, l.LineTotal,
		l.TaxCode, l.TaxRate, l.SurchargeRate, l.RetentionRate,
		l.Supplied, l.ShowPrice, l.ShowQuantity, l.PageBreak,
	)
	if err != nil {
		return fmt.Errorf("insert document line %d: %w", l.Position, err)
	}
	return nil
}
