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
	"github.com/saccokit/sacco-backoffice/internal/vault"
)

// DividendService drives the declaration lifecycle and payment
// processing. Approval computes the total, generates one payment per
// eligible member, and flips the status, all in one transaction.
type DividendService struct {
	db           *sql.DB
	declarations *repository.DeclarationRepository
	payments     *repository.PaymentRepository
	members      *repository.MemberRepository
	vault        *vault.Vault
}

// NewDividendService creates a new DividendService.
func NewDividendService(
	db *sql.DB,
	declarations *repository.DeclarationRepository,
	payments *repository.PaymentRepository,
	members *repository.MemberRepository,
	v *vault.Vault,
) *DividendService {
	return &DividendService{
		db:           db,
		declarations: declarations,
		payments:     payments,
		members:      members,
		vault:        v,
	}
}

// NormalizeFinancialYear maps the accepted year spellings onto the
// canonical "YYYY/YYYY" form. "2024-2025" and "2024/2025" name the same
// year; comparison is case-insensitive at the database layer.
func NormalizeFinancialYear(year string) string {
	return strings.ReplaceAll(strings.TrimSpace(year), "-", "/")
}

// generateDeclarationNumber builds a human-readable declaration number
// from the financial year and declaration time, capped at 20 characters.
func generateDeclarationNumber(financialYear string, at time.Time) string {
	yearPart := strings.ReplaceAll(financialYear, "/", "")
	number := fmt.Sprintf("DIV-%s-%s", yearPart, at.Format("01021504"))
	if len(number) > 20 {
		number = number[:20]
	}
	return number
}

// GetDeclarations returns all declarations with payment aggregates.
func (s *DividendService) GetDeclarations(ctx context.Context) ([]model.DeclarationView, error) {
	return s.declarations.GetDeclarations(ctx)
}

// GetDeclaration returns one declaration.
func (s *DividendService) GetDeclaration(ctx context.Context, id string) (model.DeclarationView, error) {
	return s.declarations.GetDeclaration(ctx, id)
}

// CreateDeclaration records a new declaration in Pending status. At most
// one declaration may exist per financial year.
func (s *DividendService) CreateDeclaration(ctx context.Context, req request.CreateDeclarationRequest) (model.DividendDeclaration, error) {
	year := NormalizeFinancialYear(req.FinancialYear)

	exists, err := s.declarations.FinancialYearExists(ctx, year)
	if err != nil {
		return model.DividendDeclaration{}, err
	}
	if exists {
		return model.DividendDeclaration{}, apperrors.ErrDeclarationExists
	}

	declarationDate, err := time.Parse("2006-01-02", req.DeclarationDate)
	if err != nil {
		return model.DividendDeclaration{}, fmt.Errorf("invalid declaration date: %w", err)
	}
	recordDate, err := time.Parse("2006-01-02", req.RecordDate)
	if err != nil {
		return model.DividendDeclaration{}, fmt.Errorf("invalid record date: %w", err)
	}

	now := time.Now().UTC()
	d := model.DividendDeclaration{
		ID:                uuid.New().String(),
		DeclarationNumber: generateDeclarationNumber(year, now),
		FinancialYear:     year,
		Rate:              req.Rate,
		TotalAmount:       decimal.Zero,
		DeclarationDate:   declarationDate,
		RecordDate:        recordDate,
		Status:            model.DeclarationStatusPending,
		Notes:             req.Notes,
		CreatedAt:         now,
	}

	if req.PaymentDate != "" {
		paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			return model.DividendDeclaration{}, fmt.Errorf("invalid payment date: %w", err)
		}
		d.PaymentDate = &paymentDate
	}

	if err := s.declarations.InsertDeclaration(ctx, &d); err != nil {
		return model.DividendDeclaration{}, err
	}
	return d, nil
}

// UpdateDeclaration edits a declaration that is still Pending, keyed by
// financial year.
func (s *DividendService) UpdateDeclaration(ctx context.Context, financialYear string, req request.UpdateDeclarationRequest) (model.DeclarationView, error) {
	year := NormalizeFinancialYear(financialYear)

	existing, err := s.declarations.GetDeclarationByYear(ctx, year)
	if err != nil {
		return model.DeclarationView{}, err
	}

	declarationDate, err := time.Parse("2006-01-02", req.DeclarationDate)
	if err != nil {
		return model.DeclarationView{}, fmt.Errorf("invalid declaration date: %w", err)
	}
	recordDate, err := time.Parse("2006-01-02", req.RecordDate)
	if err != nil {
		return model.DeclarationView{}, fmt.Errorf("invalid record date: %w", err)
	}

	d := existing.DividendDeclaration
	d.Rate = req.Rate
	d.DeclarationDate = declarationDate
	d.RecordDate = recordDate
	d.Notes = req.Notes
	d.PaymentDate = nil
	if req.PaymentDate != "" {
		paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			return model.DeclarationView{}, fmt.Errorf("invalid payment date: %w", err)
		}
		d.PaymentDate = &paymentDate
	}

	if err := s.declarations.UpdateDeclarationPending(ctx, &d); err != nil {
		return model.DeclarationView{}, err
	}
	return s.declarations.GetDeclarationByYear(ctx, year)
}

// ApproveDeclaration transitions a Pending declaration to Approved.
// Inside one transaction it snapshots the eligible holdings as of the
// record date, computes TotalAmount as the sum over members of
// units * rate, and generates one Pending payment per eligible member.
// The status guard on the update makes the fan-out exactly-once: a
// concurrent approval loses the swap and rolls back.
func (s *DividendService) ApproveDeclaration(ctx context.Context, id, approvedBy string) (model.DeclarationView, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.DeclarationView{}, fmt.Errorf("failed to begin approval: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	status, financialYear, recordDate, rateStr, err := s.declarations.GetStatusForUpdate(ctx, tx, id)
	if err != nil {
		return model.DeclarationView{}, err
	}
	if status != model.DeclarationStatusPending {
		return model.DeclarationView{}, apperrors.ErrInvalidDeclarationState
	}

	rate, err := repository.ParseDecimal(rateStr)
	if err != nil {
		return model.DeclarationView{}, err
	}

	holdings, err := s.payments.GetEligibleHoldings(ctx, tx, recordDate)
	if err != nil {
		return model.DeclarationView{}, err
	}

	now := time.Now().UTC()
	total := decimal.Zero
	payments := make([]model.DividendPayment, 0, len(holdings))
	for _, h := range holdings {
		amount := rate.Mul(decimal.NewFromInt(int64(h.Units)))
		total = total.Add(amount)
		payments = append(payments, model.DividendPayment{
			ID:            uuid.New().String(),
			MemberID:      h.MemberID,
			DeclarationID: id,
			FinancialYear: financialYear,
			Amount:        amount,
			Shares:        h.Units,
			Status:        model.PaymentStatusPending,
			CreatedAt:     now,
		})
	}

	if err := s.declarations.Approve(ctx, tx, id, total.String(), approvedBy, now); err != nil {
		return model.DeclarationView{}, err
	}
	if err := s.payments.InsertPayments(ctx, tx, payments); err != nil {
		return model.DeclarationView{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.DeclarationView{}, fmt.Errorf("failed to commit approval: %w", err)
	}
	return s.declarations.GetDeclaration(ctx, id)
}

// ProcessDeclaration flips an Approved declaration to the terminal
// Processed marker. Payments remain individually payable afterwards.
func (s *DividendService) ProcessDeclaration(ctx context.Context, id string) (model.DeclarationView, error) {
	if _, err := s.declarations.GetDeclaration(ctx, id); err != nil {
		return model.DeclarationView{}, err
	}
	if err := s.declarations.MarkProcessed(ctx, id, time.Now().UTC()); err != nil {
		return model.DeclarationView{}, err
	}
	return s.declarations.GetDeclaration(ctx, id)
}

// DeleteDeclaration removes a declaration that is still Pending.
func (s *DividendService) DeleteDeclaration(ctx context.Context, id string) error {
	if _, err := s.declarations.GetDeclaration(ctx, id); err != nil {
		return err
	}
	return s.declarations.DeletePending(ctx, id)
}

// GetEligibleMembers projects who a declaration with the given record
// date would cover.
func (s *DividendService) GetEligibleMembers(ctx context.Context, recordDate string) (model.EligibleMembers, error) {
	date, err := time.Parse("2006-01-02", recordDate)
	if err != nil {
		return model.EligibleMembers{}, fmt.Errorf("invalid record date: %w", err)
	}
	return s.payments.GetEligibleMembers(ctx, date)
}

// GetPayments returns all payments.
func (s *DividendService) GetPayments(ctx context.Context) ([]model.PaymentView, error) {
	return s.payments.GetPayments(ctx)
}

// GetPaymentsByDeclaration returns the payments a declaration generated.
func (s *DividendService) GetPaymentsByDeclaration(ctx context.Context, declarationID string) ([]model.PaymentView, error) {
	if _, err := s.declarations.GetDeclaration(ctx, declarationID); err != nil {
		return nil, err
	}
	return s.payments.GetPaymentsByDeclaration(ctx, declarationID)
}

// GetPayment returns one payment.
func (s *DividendService) GetPayment(ctx context.Context, id string) (model.PaymentView, error) {
	return s.payments.GetPayment(ctx, id)
}

// ProcessPayments marks a batch of Pending payments Paid in one
// transaction. Each payment gets a transaction reference of
// "<batchRef>-<paymentID>". Any payment that is missing or no longer
// Pending aborts and rolls back the whole batch.
func (s *DividendService) ProcessPayments(ctx context.Context, req request.ProcessPaymentsRequest) (model.BatchResult, error) {
	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return model.BatchResult{}, fmt.Errorf("invalid payment date: %w", err)
	}

	batchRef := req.BatchReference
	if batchRef == "" {
		batchRef = "BATCH-" + time.Now().UTC().Format("20060102150405")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.BatchResult{}, fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, id := range req.DividendIDs {
		method := req.PaymentMethods[id]
		if method == "" {
			method = model.DefaultPaymentMethod
		}

		reference := fmt.Sprintf("%s-%s", batchRef, id)
		remarks := "Processed in batch " + batchRef
		if err := s.payments.MarkPaid(ctx, tx, id, paymentDate, method, "", reference, remarks); err != nil {
			return model.BatchResult{}, fmt.Errorf("payment %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.BatchResult{}, fmt.Errorf("failed to commit batch: %w", err)
	}
	return model.BatchResult{BatchReference: batchRef, PaymentCount: len(req.DividendIDs)}, nil
}

// ProcessSinglePayment marks one Pending payment Paid. The payment
// number is resolved from the method: bank transfers use the member's
// decrypted bank account number, M-Pesa uses their phone number, and
// anything else leaves the number blank.
func (s *DividendService) ProcessSinglePayment(ctx context.Context, id string, req request.ProcessPaymentRequest) (model.PaymentView, error) {
	payment, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return model.PaymentView{}, err
	}
	if payment.Status != model.PaymentStatusPending {
		return model.PaymentView{}, apperrors.ErrPaymentAlreadyProcessed
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return model.PaymentView{}, fmt.Errorf("invalid payment date: %w", err)
	}

	method := req.PaymentMethod
	if method == "" {
		method = model.DefaultPaymentMethod
	}

	paymentNumber, err := s.resolvePaymentNumber(ctx, payment.MemberID, method)
	if err != nil {
		return model.PaymentView{}, err
	}

	reference := "PAY-" + time.Now().UTC().Format("20060102150405")
	if err := s.payments.MarkPaid(ctx, s.db, id, paymentDate, method, paymentNumber, reference, req.Remarks); err != nil {
		// The row existed moments ago, so zero rows affected means a
		// concurrent request already processed it.
		if errors.Is(err, apperrors.ErrPaymentNotFound) {
			return model.PaymentView{}, apperrors.ErrPaymentAlreadyProcessed
		}
		return model.PaymentView{}, err
	}
	return s.payments.GetPayment(ctx, id)
}

// MarkPaymentFailed flips one Pending payment to Failed.
func (s *DividendService) MarkPaymentFailed(ctx context.Context, id, remarks string) (model.PaymentView, error) {
	status, err := s.payments.GetPaymentStatus(ctx, id)
	if err != nil {
		return model.PaymentView{}, err
	}
	if status != model.PaymentStatusPending {
		return model.PaymentView{}, apperrors.ErrPaymentAlreadyProcessed
	}
	if err := s.payments.MarkFailed(ctx, id, remarks); err != nil {
		return model.PaymentView{}, err
	}
	return s.payments.GetPayment(ctx, id)
}

// GetDividendSummary aggregates the dividend ledger.
func (s *DividendService) GetDividendSummary(ctx context.Context) (model.DividendSummary, error) {
	return s.payments.GetDividendSummary(ctx)
}

func (s *DividendService) resolvePaymentNumber(ctx context.Context, memberID, method string) (string, error) {
	details, err := s.members.GetPaymentDetails(ctx, memberID)
	if err != nil {
		return "", err
	}

	switch method {
	case "Bank Transfer":
		return s.vault.Decrypt(details.BankAccountNumber)
	case "M-Pesa", "Mobile Money":
		return details.PhoneNumber, nil
	default:
		return "", nil
	}
}
