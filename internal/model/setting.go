package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Setting is one organization-wide key/value configuration entry,
// e.g. share unit price, currency, minimum monthly contribution.
type Setting struct {
	ID        string     `json:"id"`
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// DashboardSummary is the combined read served to the back-office landing
// page. The three aggregates are loaded concurrently.
type DashboardSummary struct {
	Shares             ShareSummary    `json:"shares"`
	Dividends          DividendSummary `json:"dividends"`
	ContributionsTotal decimal.Decimal `json:"contributionsTotal"`
}
