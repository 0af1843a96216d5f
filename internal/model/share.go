package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Share is a single purchase lot of share units at a given price and date.
// The sum of Units over a member's Active lots is their dividend-eligible
// holding. A lot never changes units again once Transferred or Cancelled;
// only a partial transfer decrements Units in place.
type Share struct {
	ID           string          `json:"id"`
	MemberID     string          `json:"memberId"`
	Units        int             `json:"units"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	Status       string          `json:"status"`
	ShareType    string          `json:"shareType"`
	Remarks      string          `json:"remarks,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Share lot statuses.
const (
	ShareStatusActive      = "Active"
	ShareStatusTransferred = "Transferred"
	ShareStatusCancelled   = "Cancelled"
)

// DefaultShareType is applied when a purchase does not specify one.
const DefaultShareType = "Ordinary"

// TotalValue is the lot's units at its recorded purchase price.
func (s Share) TotalValue() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Units)))
}

// ShareView is a lot joined with its owning member, as served by the API.
type ShareView struct {
	Share
	MemberName   string `json:"memberName"`
	MemberNumber string `json:"memberNumber"`
}

// ShareSummary aggregates the active share register.
type ShareSummary struct {
	TotalShares       int             `json:"totalShares"`
	TotalValue        decimal.Decimal `json:"totalValue"`
	ShareholdersCount int             `json:"shareholdersCount"`
	CurrentSharePrice decimal.Decimal `json:"currentSharePrice"`
}

// MemberShareSummary is one row of the materialized per-member register,
// refreshed after share mutations and nightly by the scheduler.
type MemberShareSummary struct {
	MemberID    string          `json:"memberId"`
	ActiveUnits int             `json:"activeUnits"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	RefreshedAt time.Time       `json:"refreshedAt"`
}
