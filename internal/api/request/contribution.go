package request

import "github.com/shopspring/decimal"

// CreateContributionRequest records a member deposit.
type CreateContributionRequest struct {
	MemberID         string          `json:"memberId"`
	Amount           decimal.Decimal `json:"amount"`
	Method           string          `json:"method"`
	Reference        string          `json:"reference,omitempty"`
	ContributionDate string          `json:"contributionDate"`
}

// UpsertSettingRequest sets one organization setting value.
type UpsertSettingRequest struct {
	Value string `json:"value"`
}
