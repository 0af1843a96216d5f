package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
)

// ValidateCreateDeclaration checks a dividend declaration payload.
func ValidateCreateDeclaration(req request.CreateDeclarationRequest) error {
	if err := ValidateFinancialYear(req.FinancialYear); err != nil {
		return err
	}
	if err := ValidateRate(req.Rate); err != nil {
		return err
	}
	if err := ValidateDate("declarationDate", req.DeclarationDate); err != nil {
		return err
	}
	if err := ValidateDate("recordDate", req.RecordDate); err != nil {
		return err
	}
	return ValidateOptionalDate("paymentDate", req.PaymentDate)
}

// ValidateUpdateDeclaration checks a declaration edit payload.
func ValidateUpdateDeclaration(req request.UpdateDeclarationRequest) error {
	return ValidateCreateDeclaration(request.CreateDeclarationRequest{
		FinancialYear:   req.FinancialYear,
		Rate:            req.Rate,
		DeclarationDate: req.DeclarationDate,
		RecordDate:      req.RecordDate,
		PaymentDate:     req.PaymentDate,
	})
}

// ValidateAddShare checks a share purchase payload.
func ValidateAddShare(req request.AddShareRequest) error {
	if err := ValidateUUID(req.MemberID); err != nil {
		return fmt.Errorf("memberId: %w", err)
	}
	if req.Units < 1 {
		return apperrors.ErrInvalidUnits
	}
	if req.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("unitPrice must be greater than zero")
	}
	return ValidateDate("purchaseDate", req.PurchaseDate)
}

// ValidateTransferShares checks a share transfer payload.
func ValidateTransferShares(req request.TransferSharesRequest) error {
	if err := ValidateUUID(req.FromMemberID); err != nil {
		return fmt.Errorf("fromMemberId: %w", err)
	}
	if err := ValidateUUID(req.ToMemberID); err != nil {
		return fmt.Errorf("toMemberId: %w", err)
	}
	if req.FromMemberID == req.ToMemberID {
		return fmt.Errorf("cannot transfer shares to the same member")
	}
	if req.Units < 1 {
		return apperrors.ErrInvalidUnits
	}
	return nil
}

// ValidateCreateMember checks a member registration payload.
func ValidateCreateMember(req request.CreateMemberRequest) error {
	if req.MemberNo == "" {
		return fmt.Errorf("memberNo is required")
	}
	if req.FirstName == "" || req.LastName == "" {
		return fmt.Errorf("firstName and lastName are required")
	}
	return ValidateOptionalDate("joinDate", req.JoinDate)
}

// ValidateCreateContribution checks a contribution payload.
func ValidateCreateContribution(req request.CreateContributionRequest) error {
	if err := ValidateUUID(req.MemberID); err != nil {
		return fmt.Errorf("memberId: %w", err)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be greater than zero")
	}
	return ValidateDate("contributionDate", req.ContributionDate)
}

// ValidateProcessPayments checks a batch payment payload.
func ValidateProcessPayments(req request.ProcessPaymentsRequest) error {
	if len(req.DividendIDs) == 0 {
		return fmt.Errorf("dividendIds must not be empty")
	}
	for _, id := range req.DividendIDs {
		if err := ValidateUUID(id); err != nil {
			return fmt.Errorf("dividendIds: %w", err)
		}
	}
	return ValidateDate("paymentDate", req.PaymentDate)
}

// ValidateProcessPayment checks a single payment payload.
func ValidateProcessPayment(req request.ProcessPaymentRequest) error {
	return ValidateDate("paymentDate", req.PaymentDate)
}

// ValidateApplyLoan checks a loan application payload.
func ValidateApplyLoan(req request.ApplyLoanRequest) error {
	if err := ValidateUUID(req.MemberID); err != nil {
		return fmt.Errorf("memberId: %w", err)
	}
	if req.LoanType == "" {
		return fmt.Errorf("loanType is required")
	}
	if req.PrincipalAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("principalAmount must be greater than zero")
	}
	if err := ValidateLoanTerms(req.InterestRate, req.TermMonths); err != nil {
		return err
	}
	if req.Guarantor1ID != "" {
		if err := ValidateUUID(req.Guarantor1ID); err != nil {
			return fmt.Errorf("guarantor1Id: %w", err)
		}
	}
	if req.Guarantor2ID != "" {
		if err := ValidateUUID(req.Guarantor2ID); err != nil {
			return fmt.Errorf("guarantor2Id: %w", err)
		}
	}
	return ValidateOptionalDate("applicationDate", req.ApplicationDate)
}

// ValidateApproveLoan checks a loan approval payload.
func ValidateApproveLoan(req request.ApproveLoanRequest) error {
	return ValidateLoanTerms(req.InterestRate, req.TermMonths)
}

// ValidateLoanTerms checks the annual percentage rate and term shared by
// loan application and approval payloads.
func ValidateLoanTerms(interestRate decimal.Decimal, termMonths int) error {
	if interestRate.IsNegative() {
		return fmt.Errorf("interestRate must not be negative")
	}
	if termMonths < 1 {
		return fmt.Errorf("termMonths must be at least 1")
	}
	return nil
}

// ValidatePayInstallment checks an installment payment payload.
func ValidatePayInstallment(req request.PayInstallmentRequest) error {
	return ValidateDate("paymentDate", req.PaymentDate)
}

// ValidateCreateGuarantor checks a guarantor registration payload.
func ValidateCreateGuarantor(req request.CreateGuarantorRequest) error {
	if req.FirstName == "" || req.LastName == "" {
		return fmt.Errorf("firstName and lastName are required")
	}
	if req.IDNumber == "" {
		return fmt.Errorf("idNumber is required")
	}
	return ValidateOptionalDate("dateOfBirth", req.DateOfBirth)
}

// ValidateUpdateGuarantor checks a guarantor edit payload.
func ValidateUpdateGuarantor(req request.UpdateGuarantorRequest) error {
	return ValidateCreateGuarantor(request.CreateGuarantorRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IDNumber:    req.IDNumber,
		DateOfBirth: req.DateOfBirth,
	})
}
