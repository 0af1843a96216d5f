package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
)

// DeclarationRepository provides data access methods for the
// dividend_declaration table. Lifecycle transitions are status-guarded
// UPDATEs, so a lost race surfaces as zero rows affected instead of a
// double transition.
type DeclarationRepository struct {
	db *sql.DB
}

// NewDeclarationRepository creates a new DeclarationRepository with the provided database connection.
func NewDeclarationRepository(db *sql.DB) *DeclarationRepository {
	return &DeclarationRepository{db: db}
}

const declarationViewQuery = `
	SELECT
		d.id, d.declaration_number, d.financial_year, d.rate, d.total_amount,
		d.declaration_date, d.record_date, d.payment_date, d.status, d.notes,
		d.approved_by, d.approved_at, d.processed_at, d.created_at,
		(SELECT COUNT(*) FROM dividend_payment p WHERE p.declaration_id = d.id) AS payment_count,
		(SELECT COALESCE(SUM(CAST(p.amount AS REAL)), 0) FROM dividend_payment p
			WHERE p.declaration_id = d.id AND p.status = 'Paid') AS paid_amount
	FROM dividend_declaration d
`

func scanDeclarationView(row interface{ Scan(...any) error }) (model.DeclarationView, error) {
	var v model.DeclarationView
	var rateStr, totalStr, declDateStr, recordDateStr, createdAtStr, paidAmountStr string
	var paymentDateStr, notes, approvedBy, approvedAtStr, processedAtStr sql.NullString

	err := row.Scan(
		&v.ID,
		&v.DeclarationNumber,
		&v.FinancialYear,
		&rateStr,
		&totalStr,
		&declDateStr,
		&recordDateStr,
		&paymentDateStr,
		&v.Status,
		&notes,
		&approvedBy,
		&approvedAtStr,
		&processedAtStr,
		&createdAtStr,
		&v.PaymentCount,
		&paidAmountStr,
	)
	if err != nil {
		return model.DeclarationView{}, err
	}

	v.Notes = notes.String
	v.ApprovedBy = approvedBy.String

	if v.Rate, err = ParseDecimal(rateStr); err != nil {
		return model.DeclarationView{}, err
	}
	if v.TotalAmount, err = ParseDecimal(totalStr); err != nil {
		return model.DeclarationView{}, err
	}
	if v.PaidAmount, err = ParseDecimal(paidAmountStr); err != nil {
		return model.DeclarationView{}, err
	}
	if v.DeclarationDate, err = ParseTime(declDateStr); err != nil {
		return model.DeclarationView{}, err
	}
	if v.RecordDate, err = ParseTime(recordDateStr); err != nil {
		return model.DeclarationView{}, err
	}
	if v.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.DeclarationView{}, err
	}

	for _, opt := range []struct {
		src sql.NullString
		dst **time.Time
	}{
		{paymentDateStr, &v.PaymentDate},
		{approvedAtStr, &v.ApprovedAt},
		{processedAtStr, &v.ProcessedAt},
	} {
		if opt.src.Valid {
			t, err := ParseTime(opt.src.String)
			if err != nil {
				return model.DeclarationView{}, err
			}
			*opt.dst = &t
		}
	}

	return v, nil
}

// GetDeclarations retrieves all declarations with payment aggregates,
// most recent declaration date first.
func (r *DeclarationRepository) GetDeclarations(ctx context.Context) ([]model.DeclarationView, error) {
	rows, err := r.db.QueryContext(ctx, declarationViewQuery+` ORDER BY d.declaration_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend_declaration table: %w", err)
	}
	defer rows.Close()

	declarations := []model.DeclarationView{}
	for rows.Next() {
		v, err := scanDeclarationView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dividend_declaration results: %w", err)
		}
		declarations = append(declarations, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend_declaration table: %w", err)
	}

	return declarations, nil
}

// GetDeclaration retrieves a single declaration by ID.
func (r *DeclarationRepository) GetDeclaration(ctx context.Context, id string) (model.DeclarationView, error) {
	row := r.db.QueryRowContext(ctx, declarationViewQuery+` WHERE d.id = ?`, id)

	v, err := scanDeclarationView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DeclarationView{}, apperrors.ErrDeclarationNotFound
	}
	if err != nil {
		return model.DeclarationView{}, fmt.Errorf("failed to scan dividend_declaration results: %w", err)
	}

	return v, nil
}

// GetDeclarationByYear retrieves a declaration by its normalized
// financial year. The column collates case-insensitively.
func (r *DeclarationRepository) GetDeclarationByYear(ctx context.Context, financialYear string) (model.DeclarationView, error) {
	row := r.db.QueryRowContext(ctx, declarationViewQuery+` WHERE d.financial_year = ?`, financialYear)

	v, err := scanDeclarationView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DeclarationView{}, apperrors.ErrDeclarationNotFound
	}
	if err != nil {
		return model.DeclarationView{}, fmt.Errorf("failed to scan dividend_declaration results: %w", err)
	}

	return v, nil
}

// FinancialYearExists reports whether any declaration covers the year.
func (r *DeclarationRepository) FinancialYearExists(ctx context.Context, financialYear string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM dividend_declaration WHERE financial_year = ?`, financialYear,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check financial year: %w", err)
	}
	return true, nil
}

// InsertDeclaration creates a declaration row in Pending status.
func (r *DeclarationRepository) InsertDeclaration(ctx context.Context, d *model.DividendDeclaration) error {
	var paymentDate any
	if d.PaymentDate != nil {
		paymentDate = FormatDate(*d.PaymentDate)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dividend_declaration
			(id, declaration_number, financial_year, rate, total_amount,
			 declaration_date, record_date, payment_date, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.DeclarationNumber, d.FinancialYear, d.Rate.String(), d.TotalAmount.String(),
		FormatDate(d.DeclarationDate), FormatDate(d.RecordDate), paymentDate,
		d.Status, nullable(d.Notes), FormatDateTime(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert declaration: %w", err)
	}
	return nil
}

// UpdateDeclarationPending edits the mutable fields of a Pending
// declaration, keyed by financial year. Returns
// apperrors.ErrDeclarationNotModifiable when the row exists but has left
// Pending; existence must be confirmed by the caller first.
func (r *DeclarationRepository) UpdateDeclarationPending(ctx context.Context, d *model.DividendDeclaration) error {
	var paymentDate any
	if d.PaymentDate != nil {
		paymentDate = FormatDate(*d.PaymentDate)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE dividend_declaration SET
			rate = ?, declaration_date = ?, record_date = ?, payment_date = ?, notes = ?
		WHERE financial_year = ? AND status = 'Pending'`,
		d.Rate.String(), FormatDate(d.DeclarationDate), FormatDate(d.RecordDate),
		paymentDate, nullable(d.Notes), d.FinancialYear,
	)
	if err != nil {
		return fmt.Errorf("failed to update declaration: %w", err)
	}
	return requireOneRow(res, apperrors.ErrDeclarationNotModifiable)
}

// GetStatusForUpdate reads the lifecycle fields used by approval inside
// the given transaction.
func (r *DeclarationRepository) GetStatusForUpdate(ctx context.Context, q Querier, id string) (status, financialYear string, recordDate time.Time, rateStr string, err error) {
	var recordDateStr string
	err = q.QueryRowContext(ctx,
		`SELECT status, financial_year, record_date, rate FROM dividend_declaration WHERE id = ?`, id,
	).Scan(&status, &financialYear, &recordDateStr, &rateStr)
	if errors.Is(err, sql.ErrNoRows) {
		err = apperrors.ErrDeclarationNotFound
		return
	}
	if err != nil {
		err = fmt.Errorf("failed to read declaration status: %w", err)
		return
	}
	recordDate, err = ParseTime(recordDateStr)
	return
}

// Approve flips a Pending declaration to Approved and records the total.
// The status guard is the compare-and-swap: zero rows affected means a
// concurrent request won the transition.
func (r *DeclarationRepository) Approve(ctx context.Context, q Querier, id, totalAmount, approvedBy string, approvedAt time.Time) error {
	res, err := q.ExecContext(ctx, `
		UPDATE dividend_declaration SET
			total_amount = ?, status = 'Approved', approved_by = ?, approved_at = ?
		WHERE id = ? AND status = 'Pending'`,
		totalAmount, approvedBy, FormatDateTime(approvedAt), id,
	)
	if err != nil {
		return fmt.Errorf("failed to approve declaration: %w", err)
	}
	return requireOneRow(res, apperrors.ErrInvalidDeclarationState)
}

// MarkProcessed flips an Approved declaration to the terminal Processed
// marker.
func (r *DeclarationRepository) MarkProcessed(ctx context.Context, id string, processedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dividend_declaration SET status = 'Processed', processed_at = ?
		WHERE id = ? AND status = 'Approved'`,
		FormatDateTime(processedAt), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark declaration processed: %w", err)
	}
	return requireOneRow(res, apperrors.ErrInvalidDeclarationState)
}

// DeletePending removes a declaration that is still Pending.
func (r *DeclarationRepository) DeletePending(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM dividend_declaration WHERE id = ? AND status = 'Pending'`, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete declaration: %w", err)
	}
	return requireOneRow(res, apperrors.ErrInvalidDeclarationState)
}
