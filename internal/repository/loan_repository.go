package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
)

// LoanRepository provides data access methods for the loan and
// loan_installment tables. Lifecycle mutations are guarded on the current
// status so concurrent transitions cannot double-apply.
type LoanRepository struct {
	db *sql.DB
}

// NewLoanRepository creates a new LoanRepository with the provided database connection.
func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

const loanViewQuery = `
	SELECT
		l.id, l.loan_number, l.member_id, l.loan_type, l.principal_amount,
		l.interest_rate, l.term_months, l.purpose, l.application_date,
		l.approval_date, l.start_date, l.end_date, l.status,
		l.monthly_installment, l.total_payable, l.outstanding_balance,
		l.guarantor1_id, l.guarantor2_id, l.remarks, l.created_at,
		m.first_name || ' ' || m.last_name AS member_name,
		m.member_no,
		g1.first_name || ' ' || g1.last_name AS guarantor1_name,
		g2.first_name || ' ' || g2.last_name AS guarantor2_name
	FROM loan l
	JOIN member m ON l.member_id = m.id
	LEFT JOIN guarantor g1 ON l.guarantor1_id = g1.id
	LEFT JOIN guarantor g2 ON l.guarantor2_id = g2.id
`

//nolint:funlen // straight column mapping
func scanLoanView(row interface{ Scan(...any) error }) (model.LoanView, error) {
	var v model.LoanView
	var principalStr, rateStr, applicationDateStr, createdAtStr string
	var purpose, approvalDateStr, startDateStr, endDateStr sql.NullString
	var installmentStr, payableStr, outstandingStr sql.NullString
	var g1ID, g2ID, remarks, g1Name, g2Name sql.NullString

	err := row.Scan(
		&v.ID,
		&v.LoanNumber,
		&v.MemberID,
		&v.LoanType,
		&principalStr,
		&rateStr,
		&v.TermMonths,
		&purpose,
		&applicationDateStr,
		&approvalDateStr,
		&startDateStr,
		&endDateStr,
		&v.Status,
		&installmentStr,
		&payableStr,
		&outstandingStr,
		&g1ID,
		&g2ID,
		&remarks,
		&createdAtStr,
		&v.MemberName,
		&v.MemberNumber,
		&g1Name,
		&g2Name,
	)
	if err != nil {
		return model.LoanView{}, err
	}

	v.Purpose = purpose.String
	v.Guarantor1ID = g1ID.String
	v.Guarantor2ID = g2ID.String
	v.Remarks = remarks.String
	v.Guarantor1Name = g1Name.String
	v.Guarantor2Name = g2Name.String

	if v.PrincipalAmount, err = ParseDecimal(principalStr); err != nil {
		return model.LoanView{}, err
	}
	if v.InterestRate, err = ParseDecimal(rateStr); err != nil {
		return model.LoanView{}, err
	}
	if v.ApplicationDate, err = ParseTime(applicationDateStr); err != nil {
		return model.LoanView{}, err
	}
	if v.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.LoanView{}, err
	}

	if approvalDateStr.Valid {
		t, err := ParseTime(approvalDateStr.String)
		if err != nil {
			return model.LoanView{}, err
		}
		v.ApprovalDate = &t
	}
	if startDateStr.Valid {
		t, err := ParseTime(startDateStr.String)
		if err != nil {
			return model.LoanView{}, err
		}
		v.StartDate = &t
	}
	if endDateStr.Valid {
		t, err := ParseTime(endDateStr.String)
		if err != nil {
			return model.LoanView{}, err
		}
		v.EndDate = &t
	}

	v.MonthlyInstallment = decimal.Zero
	v.TotalPayable = decimal.Zero
	v.OutstandingBalance = decimal.Zero
	if installmentStr.Valid {
		if v.MonthlyInstallment, err = ParseDecimal(installmentStr.String); err != nil {
			return model.LoanView{}, err
		}
	}
	if payableStr.Valid {
		if v.TotalPayable, err = ParseDecimal(payableStr.String); err != nil {
			return model.LoanView{}, err
		}
	}
	if outstandingStr.Valid {
		if v.OutstandingBalance, err = ParseDecimal(outstandingStr.String); err != nil {
			return model.LoanView{}, err
		}
	}

	return v, nil
}

// GetLoans retrieves all loans with member and guarantor details, newest
// applications first.
func (r *LoanRepository) GetLoans(ctx context.Context) ([]model.LoanView, error) {
	rows, err := r.db.QueryContext(ctx, loanViewQuery+` ORDER BY l.application_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan table: %w", err)
	}
	defer rows.Close()

	loans := []model.LoanView{}
	for rows.Next() {
		v, err := scanLoanView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan table results: %w", err)
		}
		loans = append(loans, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan table: %w", err)
	}

	return loans, nil
}

// GetLoan retrieves a single loan by ID.
func (r *LoanRepository) GetLoan(ctx context.Context, id string) (model.LoanView, error) {
	row := r.db.QueryRowContext(ctx, loanViewQuery+` WHERE l.id = ?`, id)

	v, err := scanLoanView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LoanView{}, apperrors.ErrLoanNotFound
	}
	if err != nil {
		return model.LoanView{}, fmt.Errorf("failed to scan loan table results: %w", err)
	}

	return v, nil
}

// GetLoanStatus reads the current lifecycle status.
func (r *LoanRepository) GetLoanStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT status FROM loan WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.ErrLoanNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query loan status: %w", err)
	}
	return status, nil
}

// InsertLoan creates a loan row.
func (r *LoanRepository) InsertLoan(ctx context.Context, l *model.Loan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO loan
			(id, loan_number, member_id, loan_type, principal_amount, interest_rate,
			 term_months, purpose, application_date, status, monthly_installment,
			 total_payable, outstanding_balance, guarantor1_id, guarantor2_id,
			 remarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.LoanNumber, l.MemberID, l.LoanType, l.PrincipalAmount.String(),
		l.InterestRate.String(), l.TermMonths, nullable(l.Purpose),
		FormatDate(l.ApplicationDate), l.Status, l.MonthlyInstallment.String(),
		l.TotalPayable.String(), l.OutstandingBalance.String(),
		nullable(l.Guarantor1ID), nullable(l.Guarantor2ID), nullable(l.Remarks),
		FormatDateTime(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert loan: %w", err)
	}
	return nil
}

// ApprovePending locks the approved terms and repayment figures onto a
// Pending loan. Guarded on Pending status.
func (r *LoanRepository) ApprovePending(ctx context.Context, l *model.Loan, approvalDate string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE loan SET
			status = 'Approved', approval_date = ?, interest_rate = ?,
			term_months = ?, monthly_installment = ?, total_payable = ?,
			outstanding_balance = ?, remarks = ?
		WHERE id = ? AND status = 'Pending'`,
		approvalDate, l.InterestRate.String(), l.TermMonths,
		l.MonthlyInstallment.String(), l.TotalPayable.String(),
		l.OutstandingBalance.String(), nullable(l.Remarks), l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to approve loan: %w", err)
	}
	return requireOneRow(res, apperrors.ErrLoanNotFound)
}

// RejectPending closes a Pending loan as Rejected.
func (r *LoanRepository) RejectPending(ctx context.Context, id, remarks string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE loan SET status = 'Rejected', remarks = ? WHERE id = ? AND status = 'Pending'`,
		nullable(remarks), id,
	)
	if err != nil {
		return fmt.Errorf("failed to reject loan: %w", err)
	}
	return requireOneRow(res, apperrors.ErrLoanNotFound)
}

// DisburseApproved starts repayment on an Approved loan. Runs on the given
// Querier so the schedule insert shares its transaction.
func (r *LoanRepository) DisburseApproved(ctx context.Context, q Querier, id, startDate, endDate string) error {
	res, err := q.ExecContext(ctx, `
		UPDATE loan SET status = 'Disbursed', start_date = ?, end_date = ?
		WHERE id = ? AND status = 'Approved'`,
		startDate, endDate, id,
	)
	if err != nil {
		return fmt.Errorf("failed to disburse loan: %w", err)
	}
	return requireOneRow(res, apperrors.ErrLoanNotFound)
}

// DeleteLoan removes a loan row; installments cascade.
func (r *LoanRepository) DeleteLoan(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loan WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	return requireOneRow(res, apperrors.ErrLoanNotFound)
}

// InsertInstallments writes a generated amortization schedule. Runs on
// the given Querier so disbursement inserts atomically.
func (r *LoanRepository) InsertInstallments(ctx context.Context, q Querier, installments []model.LoanInstallment) error {
	for i := range installments {
		ins := &installments[i]
		_, err := q.ExecContext(ctx, `
			INSERT INTO loan_installment
				(id, loan_id, installment_number, due_date, principal_amount,
				 interest_amount, total_amount, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			ins.ID, ins.LoanID, ins.InstallmentNumber, FormatDate(ins.DueDate),
			ins.PrincipalAmount.String(), ins.InterestAmount.String(),
			ins.TotalAmount.String(), ins.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert installment %d: %w", ins.InstallmentNumber, err)
		}
	}
	return nil
}

// GetInstallments retrieves a loan's schedule in order.
func (r *LoanRepository) GetInstallments(ctx context.Context, loanID string) ([]model.LoanInstallment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, loan_id, installment_number, due_date, principal_amount,
		       interest_amount, total_amount, status, payment_date
		FROM loan_installment
		WHERE loan_id = ?
		ORDER BY installment_number`,
		loanID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan installments: %w", err)
	}
	defer rows.Close()

	installments := []model.LoanInstallment{}
	for rows.Next() {
		ins, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan installments: %w", err)
		}
		installments = append(installments, ins)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan installments: %w", err)
	}

	return installments, nil
}

// GetInstallment retrieves one installment. Runs on the given Querier so
// payment can read it inside its transaction.
func (r *LoanRepository) GetInstallment(ctx context.Context, q Querier, id string) (model.LoanInstallment, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, loan_id, installment_number, due_date, principal_amount,
		       interest_amount, total_amount, status, payment_date
		FROM loan_installment
		WHERE id = ?`,
		id,
	)

	ins, err := scanInstallment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LoanInstallment{}, apperrors.ErrInstallmentNotFound
	}
	if err != nil {
		return model.LoanInstallment{}, fmt.Errorf("failed to scan loan installment: %w", err)
	}

	return ins, nil
}

func scanInstallment(row interface{ Scan(...any) error }) (model.LoanInstallment, error) {
	var ins model.LoanInstallment
	var principalStr, interestStr, totalStr, dueDateStr string
	var paymentDateStr sql.NullString

	err := row.Scan(
		&ins.ID,
		&ins.LoanID,
		&ins.InstallmentNumber,
		&dueDateStr,
		&principalStr,
		&interestStr,
		&totalStr,
		&ins.Status,
		&paymentDateStr,
	)
	if err != nil {
		return model.LoanInstallment{}, err
	}

	if ins.DueDate, err = ParseTime(dueDateStr); err != nil {
		return model.LoanInstallment{}, err
	}
	if ins.PrincipalAmount, err = ParseDecimal(principalStr); err != nil {
		return model.LoanInstallment{}, err
	}
	if ins.InterestAmount, err = ParseDecimal(interestStr); err != nil {
		return model.LoanInstallment{}, err
	}
	if ins.TotalAmount, err = ParseDecimal(totalStr); err != nil {
		return model.LoanInstallment{}, err
	}
	if paymentDateStr.Valid {
		t, err := ParseTime(paymentDateStr.String)
		if err != nil {
			return model.LoanInstallment{}, err
		}
		ins.PaymentDate = &t
	}

	return ins, nil
}

// MarkInstallmentPaid settles a Pending installment. Guarded on Pending
// status; zero rows affected reports not-found to the caller, which
// distinguishes missing from already-paid itself.
func (r *LoanRepository) MarkInstallmentPaid(ctx context.Context, q Querier, id, paymentDate string) error {
	res, err := q.ExecContext(ctx,
		`UPDATE loan_installment SET status = 'Paid', payment_date = ? WHERE id = ? AND status = 'Pending'`,
		paymentDate, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark installment paid: %w", err)
	}
	return requireOneRow(res, apperrors.ErrInstallmentNotFound)
}

// DecrementOutstanding reduces a loan's outstanding balance by the settled
// installment's total. Stored as TEXT, so the arithmetic happens here in
// decimal and the new value is written back whole.
func (r *LoanRepository) DecrementOutstanding(ctx context.Context, q Querier, loanID string, amount decimal.Decimal) error {
	var outstandingStr sql.NullString
	err := q.QueryRowContext(ctx, `SELECT outstanding_balance FROM loan WHERE id = ?`, loanID).Scan(&outstandingStr)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrLoanNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query outstanding balance: %w", err)
	}

	outstanding := decimal.Zero
	if outstandingStr.Valid {
		if outstanding, err = ParseDecimal(outstandingStr.String); err != nil {
			return err
		}
	}

	res, err := q.ExecContext(ctx, `UPDATE loan SET outstanding_balance = ? WHERE id = ?`,
		outstanding.Sub(amount).String(), loanID)
	if err != nil {
		return fmt.Errorf("failed to update outstanding balance: %w", err)
	}
	return requireOneRow(res, apperrors.ErrLoanNotFound)
}
