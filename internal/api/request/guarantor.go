package request

// CreateGuarantorRequest registers a guarantor.
type CreateGuarantorRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	Email           string `json:"email,omitempty"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	IDNumber        string `json:"idNumber"`
	PhysicalAddress string `json:"physicalAddress,omitempty"`
	Remarks         string `json:"remarks,omitempty"`
}

// UpdateGuarantorRequest edits a guarantor's mutable fields.
type UpdateGuarantorRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	Email           string `json:"email,omitempty"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	IDNumber        string `json:"idNumber"`
	PhysicalAddress string `json:"physicalAddress,omitempty"`
	IsActive        bool   `json:"isActive"`
	Remarks         string `json:"remarks,omitempty"`
}
