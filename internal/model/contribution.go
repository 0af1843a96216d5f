package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contribution is a single member deposit into the cooperative.
type Contribution struct {
	ID               string          `json:"id"`
	MemberID         string          `json:"memberId"`
	Amount           decimal.Decimal `json:"amount"`
	Method           string          `json:"method"`
	Reference        string          `json:"reference,omitempty"`
	ContributionDate time.Time       `json:"contributionDate"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ContributionView joins a contribution with its member.
type ContributionView struct {
	Contribution
	MemberName   string `json:"memberName"`
	MemberNumber string `json:"memberNumber"`
}
