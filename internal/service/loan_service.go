package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/repository"
)

// LoanService manages the loan lifecycle: application, approval or
// rejection, disbursement with schedule generation, and installment
// settlement.
type LoanService struct {
	db         *sql.DB
	loans      *repository.LoanRepository
	guarantors *repository.GuarantorRepository
	members    *repository.MemberRepository
}

// NewLoanService creates a new LoanService.
func NewLoanService(db *sql.DB, loans *repository.LoanRepository, guarantors *repository.GuarantorRepository, members *repository.MemberRepository) *LoanService {
	return &LoanService{db: db, loans: loans, guarantors: guarantors, members: members}
}

// MonthlyInstallment computes the annuity payment for a principal at an
// annual percentage rate over the given term, rounded to cents. A zero
// rate degrades to straight principal division.
func MonthlyInstallment(principal, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	months := decimal.NewFromInt(int64(termMonths))
	if annualRate.IsZero() {
		return principal.Div(months).Round(2)
	}

	monthlyRate := annualRate.Div(decimal.NewFromInt(1200))
	factor := decimal.NewFromInt(1).Add(monthlyRate).Pow(months)
	return principal.Mul(monthlyRate).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1))).Round(2)
}

// generateLoanNumber derives a short human-readable loan number from the
// loan's ID.
func generateLoanNumber(id string) string {
	return "LN-" + strings.ToUpper(id[:8])
}

// GetLoans returns all loans with member and guarantor details.
func (s *LoanService) GetLoans(ctx context.Context) ([]model.LoanView, error) {
	return s.loans.GetLoans(ctx)
}

// GetLoan returns one loan.
func (s *LoanService) GetLoan(ctx context.Context, id string) (model.LoanView, error) {
	return s.loans.GetLoan(ctx, id)
}

// GetInstallments returns a loan's amortization schedule.
func (s *LoanService) GetInstallments(ctx context.Context, loanID string) ([]model.LoanInstallment, error) {
	if _, err := s.loans.GetLoanStatus(ctx, loanID); err != nil {
		return nil, err
	}
	return s.loans.GetInstallments(ctx, loanID)
}

// ApplyLoan records a loan application with the repayment figures the
// requested terms would produce. The loan starts Pending.
func (s *LoanService) ApplyLoan(ctx context.Context, req request.ApplyLoanRequest) (model.Loan, error) {
	m, err := s.members.GetMember(ctx, req.MemberID)
	if err != nil {
		return model.Loan{}, err
	}
	if m.Status != model.MemberStatusActive {
		return model.Loan{}, apperrors.ErrMemberInactive
	}

	for _, guarantorID := range []string{req.Guarantor1ID, req.Guarantor2ID} {
		if guarantorID == "" {
			continue
		}
		exists, err := s.guarantors.GuarantorExists(ctx, guarantorID)
		if err != nil {
			return model.Loan{}, err
		}
		if !exists {
			return model.Loan{}, apperrors.ErrGuarantorNotFound
		}
	}

	now := time.Now().UTC()
	applicationDate := now
	if req.ApplicationDate != "" {
		if applicationDate, err = time.Parse("2006-01-02", req.ApplicationDate); err != nil {
			return model.Loan{}, fmt.Errorf("invalid application date: %w", err)
		}
	}

	installment := MonthlyInstallment(req.PrincipalAmount, req.InterestRate, req.TermMonths)
	totalPayable := installment.Mul(decimal.NewFromInt(int64(req.TermMonths)))

	id := uuid.New().String()
	loan := model.Loan{
		ID:                 id,
		LoanNumber:         generateLoanNumber(id),
		MemberID:           req.MemberID,
		LoanType:           req.LoanType,
		PrincipalAmount:    req.PrincipalAmount,
		InterestRate:       req.InterestRate,
		TermMonths:         req.TermMonths,
		Purpose:            req.Purpose,
		ApplicationDate:    applicationDate,
		Status:             model.LoanStatusPending,
		MonthlyInstallment: installment,
		TotalPayable:       totalPayable,
		OutstandingBalance: totalPayable,
		Guarantor1ID:       req.Guarantor1ID,
		Guarantor2ID:       req.Guarantor2ID,
		Remarks:            req.Remarks,
		CreatedAt:          now,
	}
	if err := s.loans.InsertLoan(ctx, &loan); err != nil {
		return model.Loan{}, err
	}
	return loan, nil
}

// ApproveLoan locks final terms onto a Pending loan and recomputes the
// repayment figures from the stored principal. Approval from any other
// state reports invalid state.
func (s *LoanService) ApproveLoan(ctx context.Context, id string, req request.ApproveLoanRequest) (model.LoanView, error) {
	existing, err := s.loans.GetLoan(ctx, id)
	if err != nil {
		return model.LoanView{}, err
	}
	if existing.Status != model.LoanStatusPending {
		return model.LoanView{}, fmt.Errorf("%w: loan is %s", apperrors.ErrInvalidLoanState, existing.Status)
	}

	installment := MonthlyInstallment(existing.PrincipalAmount, req.InterestRate, req.TermMonths)
	totalPayable := installment.Mul(decimal.NewFromInt(int64(req.TermMonths)))

	approved := existing.Loan
	approved.InterestRate = req.InterestRate
	approved.TermMonths = req.TermMonths
	approved.MonthlyInstallment = installment
	approved.TotalPayable = totalPayable
	approved.OutstandingBalance = totalPayable
	approved.Remarks = req.Remarks

	err = s.loans.ApprovePending(ctx, &approved, repository.FormatDate(time.Now().UTC()))
	if errors.Is(err, apperrors.ErrLoanNotFound) {
		return model.LoanView{}, fmt.Errorf("%w: loan left Pending concurrently", apperrors.ErrInvalidLoanState)
	}
	if err != nil {
		return model.LoanView{}, err
	}

	return s.loans.GetLoan(ctx, id)
}

// RejectLoan closes a Pending loan as Rejected.
func (s *LoanService) RejectLoan(ctx context.Context, id, remarks string) (model.LoanView, error) {
	status, err := s.loans.GetLoanStatus(ctx, id)
	if err != nil {
		return model.LoanView{}, err
	}
	if status != model.LoanStatusPending {
		return model.LoanView{}, fmt.Errorf("%w: loan is %s", apperrors.ErrInvalidLoanState, status)
	}

	if err := s.loans.RejectPending(ctx, id, remarks); err != nil {
		if errors.Is(err, apperrors.ErrLoanNotFound) {
			return model.LoanView{}, fmt.Errorf("%w: loan left Pending concurrently", apperrors.ErrInvalidLoanState)
		}
		return model.LoanView{}, err
	}

	return s.loans.GetLoan(ctx, id)
}

// DisburseLoan starts repayment on an Approved loan: the status flips to
// Disbursed with the repayment window stamped, and the full amortization
// schedule is generated, all in one transaction.
func (s *LoanService) DisburseLoan(ctx context.Context, id string) (model.LoanView, error) {
	loan, err := s.loans.GetLoan(ctx, id)
	if err != nil {
		return model.LoanView{}, err
	}
	if loan.Status != model.LoanStatusApproved {
		return model.LoanView{}, fmt.Errorf("%w: loan is %s", apperrors.ErrInvalidLoanState, loan.Status)
	}

	start := time.Now().UTC()
	end := start.AddDate(0, loan.TermMonths, 0)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.LoanView{}, fmt.Errorf("failed to begin disbursement: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	err = s.loans.DisburseApproved(ctx, tx, id, repository.FormatDate(start), repository.FormatDate(end))
	if errors.Is(err, apperrors.ErrLoanNotFound) {
		return model.LoanView{}, fmt.Errorf("%w: loan left Approved concurrently", apperrors.ErrInvalidLoanState)
	}
	if err != nil {
		return model.LoanView{}, err
	}

	schedule := buildSchedule(loan.Loan, start)
	if err := s.loans.InsertInstallments(ctx, tx, schedule); err != nil {
		return model.LoanView{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.LoanView{}, fmt.Errorf("failed to commit disbursement: %w", err)
	}

	return s.loans.GetLoan(ctx, id)
}

// buildSchedule amortizes a loan into monthly installments from the start
// date. Interest accrues on the declining balance; the final installment
// absorbs rounding drift so principal parts sum exactly to the principal.
func buildSchedule(loan model.Loan, start time.Time) []model.LoanInstallment {
	monthlyRate := loan.InterestRate.Div(decimal.NewFromInt(1200))
	balance := loan.PrincipalAmount

	schedule := make([]model.LoanInstallment, 0, loan.TermMonths)
	for i := 1; i <= loan.TermMonths; i++ {
		interest := balance.Mul(monthlyRate).Round(2)
		principal := loan.MonthlyInstallment.Sub(interest)
		if i == loan.TermMonths {
			principal = balance
		}

		schedule = append(schedule, model.LoanInstallment{
			ID:                uuid.New().String(),
			LoanID:            loan.ID,
			InstallmentNumber: i,
			DueDate:           start.AddDate(0, i, 0),
			PrincipalAmount:   principal,
			InterestAmount:    interest,
			TotalAmount:       principal.Add(interest),
			Status:            model.InstallmentStatusPending,
		})
		balance = balance.Sub(principal)
	}

	return schedule
}

// DeleteLoan removes a loan and its schedule.
func (s *LoanService) DeleteLoan(ctx context.Context, id string) error {
	return s.loans.DeleteLoan(ctx, id)
}

// PayInstallment settles one Pending installment and reduces the loan's
// outstanding balance by its total, in one transaction.
func (s *LoanService) PayInstallment(ctx context.Context, id string, req request.PayInstallmentRequest) (model.LoanInstallment, error) {
	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return model.LoanInstallment{}, fmt.Errorf("invalid payment date: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.LoanInstallment{}, fmt.Errorf("failed to begin installment payment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	ins, err := s.loans.GetInstallment(ctx, tx, id)
	if err != nil {
		return model.LoanInstallment{}, err
	}
	if ins.Status != model.InstallmentStatusPending {
		return model.LoanInstallment{}, apperrors.ErrInstallmentAlreadyPaid
	}

	if err := s.loans.MarkInstallmentPaid(ctx, tx, id, repository.FormatDate(paymentDate)); err != nil {
		return model.LoanInstallment{}, err
	}
	if err := s.loans.DecrementOutstanding(ctx, tx, ins.LoanID, ins.TotalAmount); err != nil {
		return model.LoanInstallment{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.LoanInstallment{}, fmt.Errorf("failed to commit installment payment: %w", err)
	}

	ins.Status = model.InstallmentStatusPaid
	paid := paymentDate.UTC()
	ins.PaymentDate = &paid
	return ins, nil
}
