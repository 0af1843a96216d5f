package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
)

// PaymentRepository provides data access methods for the dividend_payment
// table. Status transitions are guarded on 'Pending' so a payment can
// only leave that state once.
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new PaymentRepository with the provided database connection.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentViewQuery = `
	SELECT
		p.id, p.member_id, p.declaration_id, p.financial_year, p.amount, p.shares,
		p.payment_date, p.payment_method, p.payment_number, p.transaction_reference,
		p.status, p.remarks, p.created_at,
		m.first_name || ' ' || m.last_name AS member_name,
		m.member_no,
		m.phone_number
	FROM dividend_payment p
	JOIN member m ON p.member_id = m.id
`

func scanPaymentView(row interface{ Scan(...any) error }) (model.PaymentView, error) {
	var v model.PaymentView
	var amountStr, createdAtStr string
	var paymentDateStr, method, number, reference, remarks sql.NullString

	err := row.Scan(
		&v.ID,
		&v.MemberID,
		&v.DeclarationID,
		&v.FinancialYear,
		&amountStr,
		&v.Shares,
		&paymentDateStr,
		&method,
		&number,
		&reference,
		&v.Status,
		&remarks,
		&createdAtStr,
		&v.MemberName,
		&v.MemberNumber,
		&v.PhoneNumber,
	)
	if err != nil {
		return model.PaymentView{}, err
	}

	v.PaymentMethod = method.String
	v.PaymentNumber = number.String
	v.TransactionReference = reference.String
	v.Remarks = remarks.String

	if v.Amount, err = ParseDecimal(amountStr); err != nil {
		return model.PaymentView{}, err
	}
	if paymentDateStr.Valid {
		t, err := ParseTime(paymentDateStr.String)
		if err != nil {
			return model.PaymentView{}, err
		}
		v.PaymentDate = &t
	}
	if v.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.PaymentView{}, err
	}

	return v, nil
}

// GetPayments retrieves all payments with member details, pending first.
func (r *PaymentRepository) GetPayments(ctx context.Context) ([]model.PaymentView, error) {
	return r.queryPayments(ctx, paymentViewQuery+` ORDER BY p.status, p.payment_date DESC`)
}

// GetPaymentsByDeclaration retrieves the payments generated by one
// declaration.
func (r *PaymentRepository) GetPaymentsByDeclaration(ctx context.Context, declarationID string) ([]model.PaymentView, error) {
	return r.queryPayments(ctx,
		paymentViewQuery+` WHERE p.declaration_id = ? ORDER BY p.status, p.payment_date DESC`,
		declarationID,
	)
}

func (r *PaymentRepository) queryPayments(ctx context.Context, query string, args ...any) ([]model.PaymentView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend_payment table: %w", err)
	}
	defer rows.Close()

	payments := []model.PaymentView{}
	for rows.Next() {
		v, err := scanPaymentView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dividend_payment results: %w", err)
		}
		payments = append(payments, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend_payment table: %w", err)
	}

	return payments, nil
}

// GetPayment retrieves a single payment by ID.
func (r *PaymentRepository) GetPayment(ctx context.Context, id string) (model.PaymentView, error) {
	row := r.db.QueryRowContext(ctx, paymentViewQuery+` WHERE p.id = ?`, id)

	v, err := scanPaymentView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PaymentView{}, apperrors.ErrPaymentNotFound
	}
	if err != nil {
		return model.PaymentView{}, fmt.Errorf("failed to scan dividend_payment results: %w", err)
	}

	return v, nil
}

// GetPaymentStatus reads just the status column, distinguishing a
// missing payment from one that already left Pending.
func (r *PaymentRepository) GetPaymentStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT status FROM dividend_payment WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.ErrPaymentNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read payment status: %w", err)
	}
	return status, nil
}

// InsertPayments bulk-inserts the payments generated at approval time.
// Runs on the approval transaction.
func (r *PaymentRepository) InsertPayments(ctx context.Context, q Querier, payments []model.DividendPayment) error {
	for i := range payments {
		p := &payments[i]
		_, err := q.ExecContext(ctx, `
			INSERT INTO dividend_payment
				(id, member_id, declaration_id, financial_year, amount, shares, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.MemberID, p.DeclarationID, p.FinancialYear,
			p.Amount.String(), p.Shares, p.Status, FormatDateTime(p.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert dividend payment: %w", err)
		}
	}
	return nil
}

// MarkPaid transitions a Pending payment to Paid. Returns
// apperrors.ErrPaymentNotFound when no Pending row matches; callers
// needing the distinction check GetPaymentStatus afterwards.
func (r *PaymentRepository) MarkPaid(ctx context.Context, q Querier, id string, paymentDate time.Time, method, paymentNumber, reference, remarks string) error {
	res, err := q.ExecContext(ctx, `
		UPDATE dividend_payment SET
			payment_date = ?, status = 'Paid', payment_method = ?,
			payment_number = ?, transaction_reference = ?, remarks = ?
		WHERE id = ? AND status = 'Pending'`,
		FormatDate(paymentDate), method, nullable(paymentNumber), reference, remarks, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment paid: %w", err)
	}
	return requireOneRow(res, apperrors.ErrPaymentNotFound)
}

// MarkFailed transitions a Pending payment to Failed.
func (r *PaymentRepository) MarkFailed(ctx context.Context, id, remarks string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dividend_payment SET status = 'Failed', remarks = ?
		WHERE id = ? AND status = 'Pending'`,
		remarks, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	return requireOneRow(res, apperrors.ErrPaymentNotFound)
}

// EligibleHolding is one member's aggregated eligible units as of a
// record date.
type EligibleHolding struct {
	MemberID string
	Units    int
}

// GetEligibleHoldings aggregates active units per active member over lots
// purchased on or before the record date. Runs inside the approval
// transaction so the payment fan-out sees the same snapshot.
func (r *PaymentRepository) GetEligibleHoldings(ctx context.Context, q Querier, recordDate time.Time) ([]EligibleHolding, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT s.member_id, SUM(s.units)
		FROM share s
		JOIN member m ON s.member_id = m.id
		WHERE s.status = 'Active'
		AND s.purchase_date <= ?
		AND m.status = 'Active'
		GROUP BY s.member_id
		ORDER BY s.member_id`,
		FormatDate(recordDate),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible holdings: %w", err)
	}
	defer rows.Close()

	holdings := []EligibleHolding{}
	for rows.Next() {
		var h EligibleHolding
		if err := rows.Scan(&h.MemberID, &h.Units); err != nil {
			return nil, fmt.Errorf("failed to scan eligible holdings: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating eligible holdings: %w", err)
	}

	return holdings, nil
}

// GetEligibleMembers counts the members and units a declaration with the
// given record date would cover.
func (r *PaymentRepository) GetEligibleMembers(ctx context.Context, recordDate time.Time) (model.EligibleMembers, error) {
	var e model.EligibleMembers
	var count, units sql.NullInt64

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT s.member_id), SUM(s.units)
		FROM share s
		JOIN member m ON s.member_id = m.id
		WHERE s.status = 'Active'
		AND m.status = 'Active'
		AND s.purchase_date <= ?`,
		FormatDate(recordDate),
	).Scan(&count, &units)
	if err != nil {
		return model.EligibleMembers{}, fmt.Errorf("failed to query eligible members: %w", err)
	}

	e.EligibleMembersCount = int(count.Int64)
	e.TotalShares = int(units.Int64)
	return e, nil
}

// GetDividendSummary aggregates the dividend ledger.
func (r *PaymentRepository) GetDividendSummary(ctx context.Context) (model.DividendSummary, error) {
	var s model.DividendSummary
	var total, paid, pending, currentRate, currentYear, declaredAtStr sql.NullString
	var paidMembers, pendingMembers sql.NullInt64

	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT SUM(CAST(total_amount AS REAL)) FROM dividend_declaration WHERE status = 'Processed'),
			(SELECT SUM(CAST(amount AS REAL)) FROM dividend_payment WHERE status = 'Paid'),
			(SELECT SUM(CAST(amount AS REAL)) FROM dividend_payment WHERE status = 'Pending'),
			(SELECT COUNT(DISTINCT member_id) FROM dividend_payment WHERE status = 'Paid'),
			(SELECT COUNT(DISTINCT member_id) FROM dividend_payment WHERE status = 'Pending'),
			(SELECT rate FROM dividend_declaration ORDER BY declaration_date DESC LIMIT 1),
			(SELECT financial_year FROM dividend_declaration ORDER BY declaration_date DESC LIMIT 1),
			(SELECT declaration_date FROM dividend_declaration ORDER BY declaration_date DESC LIMIT 1)`,
	).Scan(&total, &paid, &pending, &paidMembers, &pendingMembers, &currentRate, &currentYear, &declaredAtStr)
	if err != nil {
		return model.DividendSummary{}, fmt.Errorf("failed to query dividend summary: %w", err)
	}

	s.TotalDividends = decimal.Zero
	s.PaidDividends = decimal.Zero
	s.PendingDividends = decimal.Zero
	s.PaidMembersCount = int(paidMembers.Int64)
	s.PendingMembersCount = int(pendingMembers.Int64)
	s.CurrentYear = currentYear.String

	for _, opt := range []struct {
		src sql.NullString
		dst *decimal.Decimal
	}{
		{total, &s.TotalDividends},
		{paid, &s.PaidDividends},
		{pending, &s.PendingDividends},
	} {
		if opt.src.Valid {
			d, err := ParseDecimal(opt.src.String)
			if err != nil {
				return model.DividendSummary{}, err
			}
			*opt.dst = d
		}
	}

	if currentRate.Valid {
		rate, err := ParseDecimal(currentRate.String)
		if err != nil {
			return model.DividendSummary{}, err
		}
		s.CurrentRate = &rate
	}
	if declaredAtStr.Valid {
		t, err := ParseTime(declaredAtStr.String)
		if err != nil {
			return model.DividendSummary{}, err
		}
		s.CurrentDeclaredAt = &t
	}

	return s, nil
}
