package request

import "github.com/shopspring/decimal"

// CreateDeclarationRequest is the payload for declaring a dividend.
// Dates are plain "2006-01-02" strings.
type CreateDeclarationRequest struct {
	FinancialYear   string          `json:"financialYear"`
	Rate            decimal.Decimal `json:"rate"`
	DeclarationDate string          `json:"declarationDate"`
	RecordDate      string          `json:"recordDate"`
	PaymentDate     string          `json:"paymentDate,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// UpdateDeclarationRequest edits a Pending declaration, keyed by the
// financial year in the URL.
type UpdateDeclarationRequest struct {
	FinancialYear   string          `json:"financialYear"`
	Rate            decimal.Decimal `json:"rate"`
	DeclarationDate string          `json:"declarationDate"`
	RecordDate      string          `json:"recordDate"`
	PaymentDate     string          `json:"paymentDate,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// ProcessPaymentsRequest drives a batch payment run. PaymentMethods maps
// dividend payment IDs to methods; missing entries default to Bank
// Transfer.
type ProcessPaymentsRequest struct {
	DividendIDs    []string          `json:"dividendIds"`
	PaymentDate    string            `json:"paymentDate"`
	PaymentMethods map[string]string `json:"paymentMethods,omitempty"`
	BatchReference string            `json:"batchReference,omitempty"`
}

// ProcessPaymentRequest processes one payment.
type ProcessPaymentRequest struct {
	PaymentDate   string `json:"paymentDate"`
	PaymentMethod string `json:"paymentMethod"`
	Remarks       string `json:"remarks,omitempty"`
}

// FailPaymentRequest marks one payment failed.
type FailPaymentRequest struct {
	Remarks string `json:"remarks,omitempty"`
}
