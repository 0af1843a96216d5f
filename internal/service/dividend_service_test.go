package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/service"
	"github.com/saccokit/sacco-backoffice/internal/testutil"
)

func TestDividendService_CreateDeclaration(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending declaration with normalized year", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		declaration, err := ds.CreateDeclaration(ctx, request.CreateDeclarationRequest{
			FinancialYear:   "2024-2025",
			Rate:            decimal.RequireFromString("0.05"),
			DeclarationDate: "2025-06-30",
			RecordDate:      "2025-06-30",
		})
		if err != nil {
			t.Fatalf("CreateDeclaration failed: %v", err)
		}

		if declaration.FinancialYear != "2024/2025" {
			t.Errorf("Expected normalized year 2024/2025, got %s", declaration.FinancialYear)
		}
		if declaration.Status != model.DeclarationStatusPending {
			t.Errorf("Expected Pending status, got %s", declaration.Status)
		}
		if !declaration.TotalAmount.IsZero() {
			t.Errorf("Expected zero total amount, got %s", declaration.TotalAmount)
		}
		if !strings.HasPrefix(declaration.DeclarationNumber, "DIV-20242025-") {
			t.Errorf("Unexpected declaration number %s", declaration.DeclarationNumber)
		}
		if len(declaration.DeclarationNumber) > 20 {
			t.Errorf("Declaration number exceeds 20 characters: %s", declaration.DeclarationNumber)
		}
	})

	t.Run("rejects duplicate financial year across spellings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		req := request.CreateDeclarationRequest{
			FinancialYear:   "2024/2025",
			Rate:            decimal.RequireFromString("0.05"),
			DeclarationDate: "2025-06-30",
			RecordDate:      "2025-06-30",
		}
		if _, err := ds.CreateDeclaration(ctx, req); err != nil {
			t.Fatalf("First declaration failed: %v", err)
		}

		req.FinancialYear = "2024-2025"
		_, err := ds.CreateDeclaration(ctx, req)
		if !errors.Is(err, apperrors.ErrDeclarationExists) {
			t.Errorf("Expected ErrDeclarationExists, got %v", err)
		}
	})
}

func TestDividendService_ApproveDeclaration(t *testing.T) {
	ctx := context.Background()

	t.Run("computes total and generates one payment per member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		member := testutil.CreateMember(t, db)
		testutil.NewShare(member.ID).
			WithUnits(200).
			WithUnitPrice("100").
			WithPurchaseDate("2024-01-15").
			Build(t, db)

		declaration := testutil.NewDeclaration().
			WithRate("0.05").
			WithRecordDate("2025-06-30").
			Build(t, db)

		approved, err := ds.ApproveDeclaration(ctx, declaration.ID, "treasurer")
		if err != nil {
			t.Fatalf("ApproveDeclaration failed: %v", err)
		}

		if approved.Status != model.DeclarationStatusApproved {
			t.Errorf("Expected Approved status, got %s", approved.Status)
		}
		if !approved.TotalAmount.Equal(decimal.NewFromInt(10)) {
			t.Errorf("Expected total 10, got %s", approved.TotalAmount)
		}
		if approved.ApprovedBy != "treasurer" {
			t.Errorf("Expected approver treasurer, got %s", approved.ApprovedBy)
		}

		payments, err := ds.GetPaymentsByDeclaration(ctx, declaration.ID)
		if err != nil {
			t.Fatalf("GetPaymentsByDeclaration failed: %v", err)
		}
		if len(payments) != 1 {
			t.Fatalf("Expected 1 payment, got %d", len(payments))
		}
		if !payments[0].Amount.Equal(decimal.NewFromInt(10)) {
			t.Errorf("Expected payment amount 10, got %s", payments[0].Amount)
		}
		if payments[0].Shares != 200 {
			t.Errorf("Expected 200 shares, got %d", payments[0].Shares)
		}
		if payments[0].Status != model.PaymentStatusPending {
			t.Errorf("Expected Pending payment, got %s", payments[0].Status)
		}
	})

	t.Run("aggregates multiple lots into one payment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		member := testutil.CreateMember(t, db)
		testutil.NewShare(member.ID).WithUnits(100).WithPurchaseDate("2024-01-01").Build(t, db)
		testutil.NewShare(member.ID).WithUnits(50).WithPurchaseDate("2024-06-01").Build(t, db)

		declaration := testutil.NewDeclaration().
			WithRate("0.10").
			WithRecordDate("2025-06-30").
			Build(t, db)

		approved, err := ds.ApproveDeclaration(ctx, declaration.ID, "treasurer")
		if err != nil {
			t.Fatalf("ApproveDeclaration failed: %v", err)
		}

		if !approved.TotalAmount.Equal(decimal.NewFromInt(15)) {
			t.Errorf("Expected total 15, got %s", approved.TotalAmount)
		}

		payments, _ := ds.GetPaymentsByDeclaration(ctx, declaration.ID)
		if len(payments) != 1 {
			t.Fatalf("Expected a single aggregated payment, got %d", len(payments))
		}
		if payments[0].Shares != 150 {
			t.Errorf("Expected 150 aggregated shares, got %d", payments[0].Shares)
		}
	})

	t.Run("excludes purchases after the record date and inactive members", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		eligible := testutil.CreateMember(t, db)
		testutil.NewShare(eligible.ID).WithUnits(100).WithPurchaseDate("2024-01-01").Build(t, db)
		testutil.NewShare(eligible.ID).WithUnits(500).WithPurchaseDate("2025-09-01").Build(t, db)

		inactive := testutil.CreateInactiveMember(t, db)
		testutil.NewShare(inactive.ID).WithUnits(300).WithPurchaseDate("2024-01-01").Build(t, db)

		declaration := testutil.NewDeclaration().
			WithRate("0.05").
			WithRecordDate("2025-06-30").
			Build(t, db)

		approved, err := ds.ApproveDeclaration(ctx, declaration.ID, "treasurer")
		if err != nil {
			t.Fatalf("ApproveDeclaration failed: %v", err)
		}

		if !approved.TotalAmount.Equal(decimal.NewFromInt(5)) {
			t.Errorf("Expected total 5 over 100 eligible units, got %s", approved.TotalAmount)
		}

		payments, _ := ds.GetPaymentsByDeclaration(ctx, declaration.ID)
		if len(payments) != 1 {
			t.Fatalf("Expected 1 payment, got %d", len(payments))
		}
		if payments[0].MemberID != eligible.ID {
			t.Errorf("Expected payment for the active member only")
		}
	})

	t.Run("rejects a second approval", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		member := testutil.CreateMember(t, db)
		testutil.CreateShare(t, db, member.ID, 100)
		declaration := testutil.NewDeclaration().Build(t, db)

		if _, err := ds.ApproveDeclaration(ctx, declaration.ID, "treasurer"); err != nil {
			t.Fatalf("First approval failed: %v", err)
		}

		_, err := ds.ApproveDeclaration(ctx, declaration.ID, "treasurer")
		if !errors.Is(err, apperrors.ErrInvalidDeclarationState) {
			t.Errorf("Expected ErrInvalidDeclarationState, got %v", err)
		}

		payments, _ := ds.GetPaymentsByDeclaration(ctx, declaration.ID)
		if len(payments) != 1 {
			t.Errorf("Expected payments generated exactly once, got %d", len(payments))
		}
	})

	t.Run("returns not found for missing declaration", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		_, err := ds.ApproveDeclaration(ctx, testutil.MakeID(), "treasurer")
		if !errors.Is(err, apperrors.ErrDeclarationNotFound) {
			t.Errorf("Expected ErrDeclarationNotFound, got %v", err)
		}
	})
}

func TestDividendService_ProcessDeclaration(t *testing.T) {
	ctx := context.Background()

	t.Run("marks an approved declaration processed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		declaration := testutil.NewDeclaration().Approved().Build(t, db)

		processed, err := ds.ProcessDeclaration(ctx, declaration.ID)
		if err != nil {
			t.Fatalf("ProcessDeclaration failed: %v", err)
		}
		if processed.Status != model.DeclarationStatusProcessed {
			t.Errorf("Expected Processed, got %s", processed.Status)
		}
		if processed.ProcessedAt == nil {
			t.Error("Expected ProcessedAt to be set")
		}
	})

	t.Run("rejects processing a pending declaration", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		declaration := testutil.NewDeclaration().Build(t, db)

		_, err := ds.ProcessDeclaration(ctx, declaration.ID)
		if !errors.Is(err, apperrors.ErrInvalidDeclarationState) {
			t.Errorf("Expected ErrInvalidDeclarationState, got %v", err)
		}
	})
}

func TestDividendService_DeleteDeclaration(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a pending declaration", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		declaration := testutil.NewDeclaration().Build(t, db)

		if err := ds.DeleteDeclaration(ctx, declaration.ID); err != nil {
			t.Fatalf("DeleteDeclaration failed: %v", err)
		}

		_, err := ds.GetDeclaration(ctx, declaration.ID)
		if !errors.Is(err, apperrors.ErrDeclarationNotFound) {
			t.Errorf("Expected declaration gone, got %v", err)
		}
	})

	t.Run("refuses to delete an approved declaration", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		declaration := testutil.NewDeclaration().Approved().Build(t, db)

		err := ds.DeleteDeclaration(ctx, declaration.ID)
		if !errors.Is(err, apperrors.ErrInvalidDeclarationState) {
			t.Errorf("Expected ErrInvalidDeclarationState, got %v", err)
		}
	})
}

func TestDividendService_ProcessPayments(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the whole batch paid with batch references", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		member := testutil.CreateMember(t, db)
		declaration := testutil.NewDeclaration().Approved().Build(t, db)
		p1 := testutil.NewPayment(member.ID, declaration.ID).Build(t, db)
		p2 := testutil.NewPayment(member.ID, declaration.ID).Build(t, db)

		result, err := ds.ProcessPayments(ctx, request.ProcessPaymentsRequest{
			DividendIDs: []string{p1.ID, p2.ID},
			PaymentDate: "2025-07-15",
			PaymentMethods: map[string]string{
				p1.ID: "M-Pesa",
			},
		})
		if err != nil {
			t.Fatalf("ProcessPayments failed: %v", err)
		}

		if result.PaymentCount != 2 {
			t.Errorf("Expected 2 payments processed, got %d", result.PaymentCount)
		}
		if !strings.HasPrefix(result.BatchReference, "BATCH-") {
			t.Errorf("Unexpected batch reference %s", result.BatchReference)
		}

		paid1, _ := ds.GetPayment(ctx, p1.ID)
		if paid1.Status != model.PaymentStatusPaid {
			t.Errorf("Expected p1 Paid, got %s", paid1.Status)
		}
		if paid1.PaymentMethod != "M-Pesa" {
			t.Errorf("Expected M-Pesa method, got %s", paid1.PaymentMethod)
		}
		if paid1.TransactionReference != result.BatchReference+"-"+p1.ID {
			t.Errorf("Unexpected transaction reference %s", paid1.TransactionReference)
		}

		paid2, _ := ds.GetPayment(ctx, p2.ID)
		if paid2.PaymentMethod != model.DefaultPaymentMethod {
			t.Errorf("Expected default method, got %s", paid2.PaymentMethod)
		}
	})

	t.Run("rolls back the whole batch on one bad payment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		member := testutil.CreateMember(t, db)
		declaration := testutil.NewDeclaration().Approved().Build(t, db)
		good := testutil.NewPayment(member.ID, declaration.ID).Build(t, db)

		_, err := ds.ProcessPayments(ctx, request.ProcessPaymentsRequest{
			DividendIDs: []string{good.ID, testutil.MakeID()},
			PaymentDate: "2025-07-15",
		})
		if err == nil {
			t.Fatal("Expected batch to fail on missing payment")
		}

		// The good payment must be untouched after rollback.
		payment, _ := ds.GetPayment(ctx, good.ID)
		if payment.Status != model.PaymentStatusPending {
			t.Errorf("Expected good payment still Pending after rollback, got %s", payment.Status)
		}
	})

	t.Run("rolls back when a payment is already paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		member := testutil.CreateMember(t, db)
		declaration := testutil.NewDeclaration().Approved().Build(t, db)
		pending := testutil.NewPayment(member.ID, declaration.ID).Build(t, db)
		paid := testutil.NewPayment(member.ID, declaration.ID).Paid().Build(t, db)

		_, err := ds.ProcessPayments(ctx, request.ProcessPaymentsRequest{
			DividendIDs: []string{pending.ID, paid.ID},
			PaymentDate: "2025-07-15",
		})
		if err == nil {
			t.Fatal("Expected batch to fail on already-paid payment")
		}

		payment, _ := ds.GetPayment(ctx, pending.ID)
		if payment.Status != model.PaymentStatusPending {
			t.Errorf("Expected pending payment untouched, got %s", payment.Status)
		}
	})
}

func TestDividendService_ProcessSinglePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves phone number for mobile money", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		member := testutil.NewMember().WithPhoneNumber("+254711111111").Build(t, db)
		declaration := testutil.NewDeclaration().Approved().Build(t, db)
		payment := testutil.NewPayment(member.ID, declaration.ID).Build(t, db)

		paid, err := ds.ProcessSinglePayment(ctx, payment.ID, request.ProcessPaymentRequest{
			PaymentDate:   "2025-07-15",
			PaymentMethod: "M-Pesa",
		})
		if err != nil {
			t.Fatalf("ProcessSinglePayment failed: %v", err)
		}

		if paid.Status != model.PaymentStatusPaid {
			t.Errorf("Expected Paid, got %s", paid.Status)
		}
		if paid.PaymentNumber != "+254711111111" {
			t.Errorf("Expected phone payment number, got %s", paid.PaymentNumber)
		}
		if !strings.HasPrefix(paid.TransactionReference, "PAY-") {
			t.Errorf("Unexpected reference %s", paid.TransactionReference)
		}
	})

	t.Run("resolves decrypted bank account for bank transfers", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		v := testutil.NewTestVault(t)
		ds := testutil.NewTestDividendServiceWithVault(t, db, v)

		encrypted, err := v.Encrypt("01234567890")
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		member := testutil.NewMember().WithBankAccountNumber(encrypted).Build(t, db)
		declaration := testutil.NewDeclaration().Approved().Build(t, db)
		payment := testutil.NewPayment(member.ID, declaration.ID).Build(t, db)

		paid, err := ds.ProcessSinglePayment(ctx, payment.ID, request.ProcessPaymentRequest{
			PaymentDate:   "2025-07-15",
			PaymentMethod: "Bank Transfer",
		})
		if err != nil {
			t.Fatalf("ProcessSinglePayment failed: %v", err)
		}

		if paid.PaymentNumber != "01234567890" {
			t.Errorf("Expected decrypted account number, got %s", paid.PaymentNumber)
		}
	})

	t.Run("rejects a payment that already left pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		member := testutil.CreateMember(t, db)
		declaration := testutil.NewDeclaration().Approved().Build(t, db)
		payment := testutil.NewPayment(member.ID, declaration.ID).Paid().Build(t, db)

		_, err := ds.ProcessSinglePayment(ctx, payment.ID, request.ProcessPaymentRequest{
			PaymentDate: "2025-07-15",
		})
		if !errors.Is(err, apperrors.ErrPaymentAlreadyProcessed) {
			t.Errorf("Expected ErrPaymentAlreadyProcessed, got %v", err)
		}
	})

	t.Run("returns not found for a missing payment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		_, err := ds.ProcessSinglePayment(ctx, testutil.MakeID(), request.ProcessPaymentRequest{
			PaymentDate: "2025-07-15",
		})
		if !errors.Is(err, apperrors.ErrPaymentNotFound) {
			t.Errorf("Expected ErrPaymentNotFound, got %v", err)
		}
	})
}

func TestDividendService_MarkPaymentFailed(t *testing.T) {
	ctx := context.Background()

	t.Run("fails a pending payment with remarks", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		member := testutil.CreateMember(t, db)
		declaration := testutil.NewDeclaration().Approved().Build(t, db)
		payment := testutil.NewPayment(member.ID, declaration.ID).Build(t, db)

		failed, err := ds.MarkPaymentFailed(ctx, payment.ID, "account closed")
		if err != nil {
			t.Fatalf("MarkPaymentFailed failed: %v", err)
		}

		if failed.Status != model.PaymentStatusFailed {
			t.Errorf("Expected Failed, got %s", failed.Status)
		}
		if failed.Remarks != "account closed" {
			t.Errorf("Expected remarks kept, got %s", failed.Remarks)
		}
	})

	t.Run("rejects failing a paid payment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDividendService(t, db)

		member := testutil.CreateMember(t, db)
		declaration := testutil.NewDeclaration().Approved().Build(t, db)
		payment := testutil.NewPayment(member.ID, declaration.ID).Paid().Build(t, db)

		_, err := ds.MarkPaymentFailed(ctx, payment.ID, "too late")
		if !errors.Is(err, apperrors.ErrPaymentAlreadyProcessed) {
			t.Errorf("Expected ErrPaymentAlreadyProcessed, got %v", err)
		}
	})
}

func TestNormalizeFinancialYear(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024/2025", "2024/2025"},
		{"2024-2025", "2024/2025"},
		{"  2024-2025  ", "2024/2025"},
	}
	for _, c := range cases {
		if got := service.NormalizeFinancialYear(c.in); got != c.want {
			t.Errorf("NormalizeFinancialYear(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
