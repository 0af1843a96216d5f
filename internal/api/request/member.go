package request

// CreateMemberRequest registers a member.
type CreateMemberRequest struct {
	MemberNo          string `json:"memberNo"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	PhoneNumber       string `json:"phoneNumber"`
	NationalID        string `json:"nationalId,omitempty"`
	BankAccountNumber string `json:"bankAccountNumber,omitempty"`
	JoinDate          string `json:"joinDate,omitempty"`
}

// UpdateMemberRequest edits a member's mutable fields.
type UpdateMemberRequest struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	PhoneNumber       string `json:"phoneNumber"`
	NationalID        string `json:"nationalId,omitempty"`
	BankAccountNumber string `json:"bankAccountNumber,omitempty"`
	Status            string `json:"status,omitempty"`
}
