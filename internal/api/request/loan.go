package request

import "github.com/shopspring/decimal"

// ApplyLoanRequest records a loan application.
type ApplyLoanRequest struct {
	MemberID        string          `json:"memberId"`
	LoanType        string          `json:"loanType"`
	PrincipalAmount decimal.Decimal `json:"principalAmount"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	TermMonths      int             `json:"termMonths"`
	Purpose         string          `json:"purpose,omitempty"`
	ApplicationDate string          `json:"applicationDate,omitempty"`
	Guarantor1ID    string          `json:"guarantor1Id,omitempty"`
	Guarantor2ID    string          `json:"guarantor2Id,omitempty"`
	Remarks         string          `json:"remarks,omitempty"`
}

// ApproveLoanRequest locks final terms onto a pending loan.
type ApproveLoanRequest struct {
	InterestRate decimal.Decimal `json:"interestRate"`
	TermMonths   int             `json:"termMonths"`
	Remarks      string          `json:"remarks,omitempty"`
}

// RejectLoanRequest closes a pending loan as rejected.
type RejectLoanRequest struct {
	Remarks string `json:"remarks,omitempty"`
}

// PayInstallmentRequest settles one schedule installment.
type PayInstallmentRequest struct {
	PaymentDate string `json:"paymentDate"`
}
