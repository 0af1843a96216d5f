package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is a member loan. Lifecycle: Pending -> Approved (terms locked and
// repayment figures computed) -> Disbursed (schedule generated, repayment
// running). A Pending loan may instead be Rejected.
type Loan struct {
	ID                 string          `json:"id"`
	LoanNumber         string          `json:"loanNumber"`
	MemberID           string          `json:"memberId"`
	LoanType           string          `json:"loanType"`
	PrincipalAmount    decimal.Decimal `json:"principalAmount"`
	InterestRate       decimal.Decimal `json:"interestRate"`
	TermMonths         int             `json:"termMonths"`
	Purpose            string          `json:"purpose,omitempty"`
	ApplicationDate    time.Time       `json:"applicationDate"`
	ApprovalDate       *time.Time      `json:"approvalDate,omitempty"`
	StartDate          *time.Time      `json:"startDate,omitempty"`
	EndDate            *time.Time      `json:"endDate,omitempty"`
	Status             string          `json:"status"`
	MonthlyInstallment decimal.Decimal `json:"monthlyInstallment"`
	TotalPayable       decimal.Decimal `json:"totalPayable"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	Guarantor1ID       string          `json:"guarantor1Id,omitempty"`
	Guarantor2ID       string          `json:"guarantor2Id,omitempty"`
	Remarks            string          `json:"remarks,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// Loan lifecycle statuses.
const (
	LoanStatusPending   = "Pending"
	LoanStatusApproved  = "Approved"
	LoanStatusRejected  = "Rejected"
	LoanStatusDisbursed = "Disbursed"
)

// LoanView is a loan joined with member and guarantor names.
type LoanView struct {
	Loan
	MemberName     string `json:"memberName"`
	MemberNumber   string `json:"memberNumber"`
	Guarantor1Name string `json:"guarantor1Name,omitempty"`
	Guarantor2Name string `json:"guarantor2Name,omitempty"`
}

// LoanInstallment is one row of a loan's amortization schedule.
type LoanInstallment struct {
	ID                string          `json:"id"`
	LoanID            string          `json:"loanId"`
	InstallmentNumber int             `json:"installmentNumber"`
	DueDate           time.Time       `json:"dueDate"`
	PrincipalAmount   decimal.Decimal `json:"principalAmount"`
	InterestAmount    decimal.Decimal `json:"interestAmount"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Status            string          `json:"status"`
	PaymentDate       *time.Time      `json:"paymentDate,omitempty"`
}

// Installment statuses.
const (
	InstallmentStatusPending = "Pending"
	InstallmentStatusPaid    = "Paid"
)
