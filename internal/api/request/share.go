package request

import "github.com/shopspring/decimal"

// AddShareRequest records a share purchase.
type AddShareRequest struct {
	MemberID     string          `json:"memberId"`
	Units        int             `json:"units"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	PurchaseDate string          `json:"purchaseDate"`
	ShareType    string          `json:"shareType,omitempty"`
	Remarks      string          `json:"remarks,omitempty"`
}

// UpdateShareRequest edits an existing lot.
type UpdateShareRequest struct {
	Units        int             `json:"units"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	PurchaseDate string          `json:"purchaseDate"`
	Status       string          `json:"status"`
	ShareType    string          `json:"shareType"`
	Remarks      string          `json:"remarks,omitempty"`
}

// TransferSharesRequest moves units between members. ShareType is
// optional; when omitted each new lot carries the consumed lot's type.
type TransferSharesRequest struct {
	FromMemberID string `json:"fromMemberId"`
	ToMemberID   string `json:"toMemberId"`
	Units        int    `json:"units"`
	ShareType    string `json:"shareType,omitempty"`
	Remarks      string `json:"remarks,omitempty"`
}

// CancelShareRequest soft-deletes a lot.
type CancelShareRequest struct {
	Remarks string `json:"remarks,omitempty"`
}
