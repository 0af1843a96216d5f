package model

import "time"

// Guarantor stands behind a loan. Guarantors are registered separately
// from members so external guarantors can be recorded too.
type Guarantor struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	PhoneNumber     string     `json:"phoneNumber,omitempty"`
	Email           string     `json:"email,omitempty"`
	DateOfBirth     *time.Time `json:"dateOfBirth,omitempty"`
	IDNumber        string     `json:"idNumber"`
	PhysicalAddress string     `json:"physicalAddress,omitempty"`
	IsActive        bool       `json:"isActive"`
	Remarks         string     `json:"remarks,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// FullName returns the guarantor's display name.
func (g Guarantor) FullName() string {
	return g.FirstName + " " + g.LastName
}

// PotentialGuarantor is a member eligible to stand as guarantor.
type PotentialGuarantor struct {
	MemberID    string `json:"memberId"`
	MemberNo    string `json:"memberNo"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	ActiveUnits int    `json:"activeUnits"`
}
