package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DividendDeclaration announces a per-unit dividend rate for a financial
// year. Lifecycle: Pending -> Approved (computes TotalAmount and generates
// payments, exactly once) -> Processed (terminal bookkeeping marker).
type DividendDeclaration struct {
	ID                string          `json:"id"`
	DeclarationNumber string          `json:"declarationNumber"`
	FinancialYear     string          `json:"financialYear"`
	Rate              decimal.Decimal `json:"rate"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	DeclarationDate   time.Time       `json:"declarationDate"`
	RecordDate        time.Time       `json:"recordDate"`
	PaymentDate       *time.Time      `json:"paymentDate,omitempty"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes,omitempty"`
	ApprovedBy        string          `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time      `json:"approvedAt,omitempty"`
	ProcessedAt       *time.Time      `json:"processedAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// Declaration lifecycle statuses.
const (
	DeclarationStatusPending   = "Pending"
	DeclarationStatusApproved  = "Approved"
	DeclarationStatusProcessed = "Processed"
)

// DeclarationView adds payment aggregates to a declaration row.
type DeclarationView struct {
	DividendDeclaration
	PaymentCount int             `json:"paymentCount"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
}

// DividendPayment is one member's payout under a declaration. Rows are
// generated in bulk at approval time, one per eligible member, and only
// mutated by the payment-processing operations afterwards.
type DividendPayment struct {
	ID                   string          `json:"id"`
	MemberID             string          `json:"memberId"`
	DeclarationID        string          `json:"declarationId"`
	FinancialYear        string          `json:"financialYear"`
	Amount               decimal.Decimal `json:"amount"`
	Shares               int             `json:"shares"`
	PaymentDate          *time.Time      `json:"paymentDate,omitempty"`
	PaymentMethod        string          `json:"paymentMethod,omitempty"`
	PaymentNumber        string          `json:"paymentNumber,omitempty"`
	TransactionReference string          `json:"transactionReference,omitempty"`
	Status               string          `json:"status"`
	Remarks              string          `json:"remarks,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// Payment statuses.
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
	PaymentStatusFailed  = "Failed"
)

// DefaultPaymentMethod is used when a batch entry does not name one.
const DefaultPaymentMethod = "Bank Transfer"

// PaymentView is a payment joined with member and declaration details.
type PaymentView struct {
	DividendPayment
	MemberName   string `json:"memberName"`
	MemberNumber string `json:"memberNumber"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// DividendSummary aggregates the dividend ledger for the dashboard.
type DividendSummary struct {
	TotalDividends      decimal.Decimal  `json:"totalDividends"`
	PaidDividends       decimal.Decimal  `json:"paidDividends"`
	PendingDividends    decimal.Decimal  `json:"pendingDividends"`
	PaidMembersCount    int              `json:"paidMembersCount"`
	PendingMembersCount int              `json:"pendingMembersCount"`
	CurrentRate         *decimal.Decimal `json:"currentRate,omitempty"`
	CurrentYear         string           `json:"currentYear,omitempty"`
	CurrentDeclaredAt   *time.Time       `json:"currentDeclaredAt,omitempty"`
}

// EligibleMembers is the projection of who would receive a dividend
// declared with the given record date.
type EligibleMembers struct {
	EligibleMembersCount int `json:"eligibleMembersCount"`
	TotalShares          int `json:"totalShares"`
}

// BatchResult reports a completed batch payment run.
type BatchResult struct {
	BatchReference string `json:"batchReference"`
	PaymentCount   int    `json:"paymentCount"`
}
