package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/service"
	"github.com/saccokit/sacco-backoffice/internal/testutil"
)

func TestMonthlyInstallment(t *testing.T) {
	tests := []struct {
		name       string
		principal  string
		annualRate string
		termMonths int
		want       string
	}{
		{"standard annuity", "100000", "12", 12, "8884.88"},
		{"interest-free divides principal evenly", "100000", "0", 12, "8333.33"},
		{"single installment", "5000", "10", 1, "5041.67"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.MonthlyInstallment(
				decimal.RequireFromString(tt.principal),
				decimal.RequireFromString(tt.annualRate),
				tt.termMonths,
			)
			if got.String() != tt.want {
				t.Errorf("Expected installment %s, got %s", tt.want, got)
			}
		})
	}
}

func TestLoanService_ApplyLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("records a pending application with repayment figures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ls := testutil.NewTestLoanService(t, db)

		member := testutil.CreateMember(t, db)
		guarantor := testutil.CreateGuarantor(t, db)

		loan, err := ls.ApplyLoan(ctx, request.ApplyLoanRequest{
			MemberID:        member.ID,
			LoanType:        "Development",
			PrincipalAmount: decimal.RequireFromString("100000"),
			InterestRate:    decimal.RequireFromString("12"),
			TermMonths:      12,
			Purpose:         "School fees",
			Guarantor1ID:    guarantor.ID,
		})
		if err != nil {
			t.Fatalf("ApplyLoan failed: %v", err)
		}

		if loan.Status != model.LoanStatusPending {
			t.Errorf("Expected Pending loan, got %s", loan.Status)
		}
		if loan.LoanNumber == "" {
			t.Error("Expected a loan number to be assigned")
		}
		if loan.MonthlyInstallment.String() != "8884.88" {
			t.Errorf("Expected installment 8884.88, got %s", loan.MonthlyInstallment)
		}
		if loan.TotalPayable.String() != "106618.56" {
			t.Errorf("Expected total payable 106618.56, got %s", loan.TotalPayable)
		}
		if !loan.OutstandingBalance.Equal(loan.TotalPayable) {
			t.Errorf("Expected outstanding to start at total payable, got %s", loan.OutstandingBalance)
		}
	})

	t.Run("rejects applications from inactive members", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ls := testutil.NewTestLoanService(t, db)

		member := testutil.CreateInactiveMember(t, db)

		_, err := ls.ApplyLoan(ctx, request.ApplyLoanRequest{
			MemberID:        member.ID,
			LoanType:        "Emergency",
			PrincipalAmount: decimal.RequireFromString("10000"),
			InterestRate:    decimal.RequireFromString("10"),
			TermMonths:      6,
		})
		if !errors.Is(err, apperrors.ErrMemberInactive) {
			t.Errorf("Expected ErrMemberInactive, got %v", err)
		}
	})

	t.Run("rejects unknown guarantor references", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ls := testutil.NewTestLoanService(t, db)

		member := testutil.CreateMember(t, db)

		_, err := ls.ApplyLoan(ctx, request.ApplyLoanRequest{
			MemberID:        member.ID,
			LoanType:        "Emergency",
			PrincipalAmount: decimal.RequireFromString("10000"),
			InterestRate:    decimal.RequireFromString("10"),
			TermMonths:      6,
			Guarantor1ID:    testutil.MakeID(),
		})
		if !errors.Is(err, apperrors.ErrGuarantorNotFound) {
			t.Errorf("Expected ErrGuarantorNotFound, got %v", err)
		}
	})
}

func TestLoanService_ApproveLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("locks final terms and recomputes figures from the principal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ls := testutil.NewTestLoanService(t, db)

		member := testutil.CreateMember(t, db)
		loan := testutil.NewLoan(member.ID).Build(t, db)

		approved, err := ls.ApproveLoan(ctx, loan.ID, request.ApproveLoanRequest{
			InterestRate: decimal.RequireFromString("10"),
			TermMonths:   24,
			Remarks:      "Approved at reduced rate",
		})
		if err != nil {
			t.Fatalf("ApproveLoan failed: %v", err)
		}

		if approved.Status != model.LoanStatusApproved {
			t.Errorf("Expected Approved loan, got %s", approved.Status)
		}
		if approved.ApprovalDate == nil {
			t.Error("Expected approval date to be stamped")
		}
		if approved.TermMonths != 24 {
			t.Errorf("Expected 24-month term, got %d", approved.TermMonths)
		}

		wantInstallment := service.MonthlyInstallment(loan.PrincipalAmount, decimal.RequireFromString("10"), 24)
		if !approved.MonthlyInstallment.Equal(wantInstallment) {
			t.Errorf("Expected installment %s, got %s", wantInstallment, approved.MonthlyInstallment)
		}
		wantPayable := wantInstallment.Mul(decimal.NewFromInt(24))
		if !approved.TotalPayable.Equal(wantPayable) {
			t.Errorf("Expected total payable %s, got %s", wantPayable, approved.TotalPayable)
		}
	})

	t.Run("rejects approval of a non-pending loan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ls := testutil.NewTestLoanService(t, db)

		member := testutil.CreateMember(t, db)
		loan := testutil.NewLoan(member.ID).Approved().Build(t, db)

		_, err := ls.ApproveLoan(ctx, loan.ID, request.ApproveLoanRequest{
			InterestRate: decimal.RequireFromString("10"),
			TermMonths:   12,
		})
		if !errors.Is(err, apperrors.ErrInvalidLoanState) {
			t.Errorf("Expected ErrInvalidLoanState, got %v", err)
		}
	})

	t.Run("reports not found for an unknown loan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ls := testutil.NewTestLoanService(t, db)

		_, err := ls.ApproveLoan(ctx, testutil.MakeID(), request.ApproveLoanRequest{
			InterestRate: decimal.RequireFromString("10"),
			TermMonths:   12,
		})
		if !errors.Is(err, apperrors.ErrLoanNotFound) {
			t.Errorf("Expected ErrLoanNotFound, got %v", err)
		}
	})
}

func TestLoanService_RejectLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("closes a pending loan as rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ls := testutil.NewTestLoanService(t, db)

		member := testutil.CreateMember(t, db)
		loan := testutil.NewLoan(member.ID).Build(t, db)

		rejected, err := ls.RejectLoan(ctx, loan.ID, "Insufficient guarantors")
		if err != nil {
			t.Fatalf("RejectLoan failed: %v", err)
		}

		if rejected.Status != model.LoanStatusRejected {
			t.Errorf("Expected Rejected loan, got %s", rejected.Status)
		}
		if rejected.Remarks != "Insufficient guarantors" {
			t.Errorf("Expected rejection remarks, got %q", rejected.Remarks)
		}
	})

	t.Run("rejects transition from a non-pending state", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ls := testutil.NewTestLoanService(t, db)

		member := testutil.CreateMember(t, db)
		loan := testutil.NewLoan(member.ID).Disbursed().Build(t, db)

		_, err := ls.RejectLoan(ctx, loan.ID, "")
		if !errors.Is(err, apperrors.ErrInvalidLoanState) {
			t.Errorf("Expected ErrInvalidLoanState, got %v", err)
		}
	})
}

func TestLoanService_DisburseLoan(t *testing.T) {
	ctx := context.Background()

	t.Run("generates the full amortization schedule", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ls := testutil.NewTestLoanService(t, db)

		member := testutil.CreateMember(t, db)
		loan := testutil.NewLoan(member.ID).Approved().Build(t, db)

		disbursed, err := ls.DisburseLoan(ctx, loan.ID)
		if err != nil {
			t.Fatalf("DisburseLoan failed: %v", err)
		}

		if disbursed.Status != model.LoanStatusDisbursed {
			t.Errorf("Expected Disbursed loan, got %s", disbursed.Status)
		}
		if disbursed.StartDate == nil || disbursed.EndDate == nil {
			t.Fatal("Expected repayment window to be stamped")
		}

		installments, err := ls.GetInstallments(ctx, loan.ID)
		if err != nil {
			t.Fatalf("GetInstallments failed: %v", err)
		}
		if len(installments) != loan.TermMonths {
			t.Fatalf("Expected %d installments, got %d", loan.TermMonths, len(installments))
		}

		principalSum := decimal.Zero
		for _, ins := range installments {
			if ins.Status != model.InstallmentStatusPending {
				t.Errorf("Expected Pending installment, got %s", ins.Status)
			}
			principalSum = principalSum.Add(ins.PrincipalAmount)
		}
		if !principalSum.Equal(loan.PrincipalAmount) {
			t.Errorf("Expected principal parts to sum to %s, got %s", loan.PrincipalAmount, principalSum)
		}
	})

	t.Run("rejects disbursement of a loan that is not approved", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ls := testutil.NewTestLoanService(t, db)

		member := testutil.CreateMember(t, db)
		loan := testutil.NewLoan(member.ID).Build(t, db)

		_, err := ls.DisburseLoan(ctx, loan.ID)
		if !errors.Is(err, apperrors.ErrInvalidLoanState) {
			t.Errorf("Expected ErrInvalidLoanState, got %v", err)
		}
	})
}

func TestLoanService_PayInstallment(t *testing.T) {
	ctx := context.Background()

	setupDisbursedLoan := func(t *testing.T) (*service.LoanService, string, []model.LoanInstallment) {
		t.Helper()

		db := testutil.SetupTestDB(t)
		ls := testutil.NewTestLoanService(t, db)

		member := testutil.CreateMember(t, db)
		loan := testutil.NewLoan(member.ID).Approved().Build(t, db)

		if _, err := ls.DisburseLoan(ctx, loan.ID); err != nil {
			t.Fatalf("DisburseLoan failed: %v", err)
		}
		installments, err := ls.GetInstallments(ctx, loan.ID)
		if err != nil {
			t.Fatalf("GetInstallments failed: %v", err)
		}
		return ls, loan.ID, installments
	}

	t.Run("settles the installment and reduces the outstanding balance", func(t *testing.T) {
		ls, loanID, installments := setupDisbursedLoan(t)

		before, err := ls.GetLoan(ctx, loanID)
		if err != nil {
			t.Fatalf("GetLoan failed: %v", err)
		}

		paid, err := ls.PayInstallment(ctx, installments[0].ID, request.PayInstallmentRequest{
			PaymentDate: "2025-02-15",
		})
		if err != nil {
			t.Fatalf("PayInstallment failed: %v", err)
		}

		if paid.Status != model.InstallmentStatusPaid {
			t.Errorf("Expected Paid installment, got %s", paid.Status)
		}
		if paid.PaymentDate == nil {
			t.Error("Expected payment date to be stamped")
		}

		after, err := ls.GetLoan(ctx, loanID)
		if err != nil {
			t.Fatalf("GetLoan failed: %v", err)
		}
		want := before.OutstandingBalance.Sub(installments[0].TotalAmount)
		if !after.OutstandingBalance.Equal(want) {
			t.Errorf("Expected outstanding %s, got %s", want, after.OutstandingBalance)
		}
	})

	t.Run("rejects paying an installment twice", func(t *testing.T) {
		ls, _, installments := setupDisbursedLoan(t)

		if _, err := ls.PayInstallment(ctx, installments[0].ID, request.PayInstallmentRequest{
			PaymentDate: "2025-02-15",
		}); err != nil {
			t.Fatalf("First PayInstallment failed: %v", err)
		}

		_, err := ls.PayInstallment(ctx, installments[0].ID, request.PayInstallmentRequest{
			PaymentDate: "2025-02-16",
		})
		if !errors.Is(err, apperrors.ErrInstallmentAlreadyPaid) {
			t.Errorf("Expected ErrInstallmentAlreadyPaid, got %v", err)
		}
	})

	t.Run("reports not found for an unknown installment", func(t *testing.T) {
		ls, _, _ := setupDisbursedLoan(t)

		_, err := ls.PayInstallment(ctx, testutil.MakeID(), request.PayInstallmentRequest{
			PaymentDate: "2025-02-15",
		})
		if !errors.Is(err, apperrors.ErrInstallmentNotFound) {
			t.Errorf("Expected ErrInstallmentNotFound, got %v", err)
		}
	})
}
