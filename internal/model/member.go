package model

import "time"

// Member is a registered SACCO member. BankAccountNumber is stored
// encrypted at rest and only decrypted when resolving a payment number.
type Member struct {
	ID                string     `json:"id"`
	MemberNo          string     `json:"memberNo"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Email             string     `json:"email"`
	PhoneNumber       string     `json:"phoneNumber"`
	NationalID        string     `json:"nationalId,omitempty"`
	BankAccountNumber string     `json:"bankAccountNumber,omitempty"`
	JoinDate          *time.Time `json:"joinDate,omitempty"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// Member lifecycle statuses.
const (
	MemberStatusActive   = "Active"
	MemberStatusInactive = "Inactive"
)

// FullName returns the member's display name.
func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// PaymentDetails carries the fields needed to resolve a payment number
// at payment-processing time. BankAccountNumber is still encrypted here.
type PaymentDetails struct {
	MemberID          string
	BankAccountNumber string
	PhoneNumber       string
}
