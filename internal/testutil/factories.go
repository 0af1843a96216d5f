package testutil

import (
	"database/sql"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/repository"
)

// MemberBuilder provides a fluent interface for creating test members.
//
// Example usage:
//
//	// Simple creation with defaults
//	member := testutil.NewMember().Build(t, db)
//
//	// Customized member
//	member := testutil.NewMember().
//	    WithName("Grace", "Wanjiku").
//	    Inactive().
//	    Build(t, db)
type MemberBuilder struct {
	ID                string
	MemberNo          string
	FirstName         string
	LastName          string
	Email             string
	PhoneNumber       string
	BankAccountNumber string
	Status            string
}

// NewMember creates a MemberBuilder with sensible defaults.
func NewMember() *MemberBuilder {
	return &MemberBuilder{
		ID:          MakeID(),
		MemberNo:    MakeMemberNo(),
		FirstName:   "Test",
		LastName:    "Member",
		Email:       "test.member@example.com",
		PhoneNumber: "+254700000000",
		Status:      model.MemberStatusActive,
	}
}

// WithID sets a custom ID.
func (b *MemberBuilder) WithID(id string) *MemberBuilder {
	b.ID = id
	return b
}

// WithMemberNo sets a custom member number.
func (b *MemberBuilder) WithMemberNo(no string) *MemberBuilder {
	b.MemberNo = no
	return b
}

// WithName sets the first and last name.
func (b *MemberBuilder) WithName(first, last string) *MemberBuilder {
	b.FirstName = first
	b.LastName = last
	return b
}

// WithPhoneNumber sets a custom phone number.
func (b *MemberBuilder) WithPhoneNumber(phone string) *MemberBuilder {
	b.PhoneNumber = phone
	return b
}

// WithBankAccountNumber stores the given (already encrypted, if the test
// exercises the vault) bank account number.
func (b *MemberBuilder) WithBankAccountNumber(account string) *MemberBuilder {
	b.BankAccountNumber = account
	return b
}

// Inactive marks the member as inactive.
func (b *MemberBuilder) Inactive() *MemberBuilder {
	b.Status = model.MemberStatusInactive
	return b
}

// Build creates the member in the database and returns it.
func (b *MemberBuilder) Build(t *testing.T, db *sql.DB) model.Member {
	t.Helper()

	query := `
		INSERT INTO member (id, member_no, first_name, last_name, email, phone_number, bank_account_number, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var bankAccount any
	if b.BankAccountNumber != "" {
		bankAccount = b.BankAccountNumber
	}

	createdAt := time.Now().UTC()
	_, err := db.Exec(query, b.ID, b.MemberNo, b.FirstName, b.LastName, b.Email,
		b.PhoneNumber, bankAccount, b.Status, repository.FormatDateTime(createdAt))
	if err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}

	return model.Member{
		ID:                b.ID,
		MemberNo:          b.MemberNo,
		FirstName:         b.FirstName,
		LastName:          b.LastName,
		Email:             b.Email,
		PhoneNumber:       b.PhoneNumber,
		BankAccountNumber: b.BankAccountNumber,
		Status:            b.Status,
		CreatedAt:         createdAt,
	}
}

// Convenience functions

// CreateMember creates an active member with defaults.
//
// Example usage:
//
//	member := testutil.CreateMember(t, db)
func CreateMember(t *testing.T, db *sql.DB) model.Member {
	t.Helper()
	return NewMember().Build(t, db)
}

// CreateInactiveMember creates an inactive member.
func CreateInactiveMember(t *testing.T, db *sql.DB) model.Member {
	t.Helper()
	return NewMember().Inactive().Build(t, db)
}

// ShareBuilder provides a fluent interface for creating test share lots.
//
// Example usage:
//
//	lot := testutil.NewShare(member.ID).
//	    WithUnits(200).
//	    WithUnitPrice("100").
//	    WithPurchaseDate("2024-01-15").
//	    Build(t, db)
type ShareBuilder struct {
	ID           string
	MemberID     string
	Units        int
	UnitPrice    string
	PurchaseDate string
	Status       string
	ShareType    string
	CreatedAt    time.Time
}

// NewShare creates a ShareBuilder with sensible defaults.
func NewShare(memberID string) *ShareBuilder {
	return &ShareBuilder{
		ID:           MakeID(),
		MemberID:     memberID,
		Units:        100,
		UnitPrice:    "100",
		PurchaseDate: "2024-01-01",
		Status:       model.ShareStatusActive,
		ShareType:    model.DefaultShareType,
		CreatedAt:    time.Now().UTC(),
	}
}

// WithUnits sets the unit count.
func (b *ShareBuilder) WithUnits(units int) *ShareBuilder {
	b.Units = units
	return b
}

// WithUnitPrice sets the purchase price per unit.
func (b *ShareBuilder) WithUnitPrice(price string) *ShareBuilder {
	b.UnitPrice = price
	return b
}

// WithPurchaseDate sets the purchase date ("2006-01-02").
func (b *ShareBuilder) WithPurchaseDate(date string) *ShareBuilder {
	b.PurchaseDate = date
	return b
}

// WithShareType sets the share class.
func (b *ShareBuilder) WithShareType(shareType string) *ShareBuilder {
	b.ShareType = shareType
	return b
}

// WithStatus sets the lot status.
func (b *ShareBuilder) WithStatus(status string) *ShareBuilder {
	b.Status = status
	return b
}

// WithCreatedAt sets the creation timestamp, which breaks FIFO ties
// between lots purchased on the same date.
func (b *ShareBuilder) WithCreatedAt(createdAt time.Time) *ShareBuilder {
	b.CreatedAt = createdAt
	return b
}

// Build creates the lot in the database and returns it.
func (b *ShareBuilder) Build(t *testing.T, db *sql.DB) model.Share {
	t.Helper()

	query := `
		INSERT INTO share (id, member_id, units, unit_price, purchase_date, status, share_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.MemberID, b.Units, b.UnitPrice,
		b.PurchaseDate, b.Status, b.ShareType, repository.FormatDateTime(b.CreatedAt))
	if err != nil {
		t.Fatalf("Failed to create test share: %v", err)
	}

	purchaseDate, err := time.Parse("2006-01-02", b.PurchaseDate)
	if err != nil {
		t.Fatalf("Invalid test purchase date: %v", err)
	}
	unitPrice, err := decimal.NewFromString(b.UnitPrice)
	if err != nil {
		t.Fatalf("Invalid test unit price: %v", err)
	}

	return model.Share{
		ID:           b.ID,
		MemberID:     b.MemberID,
		Units:        b.Units,
		UnitPrice:    unitPrice,
		PurchaseDate: purchaseDate,
		Status:       b.Status,
		ShareType:    b.ShareType,
		CreatedAt:    b.CreatedAt,
	}
}

// CreateShare creates an active lot with the given units for a member.
func CreateShare(t *testing.T, db *sql.DB, memberID string, units int) model.Share {
	t.Helper()
	return NewShare(memberID).WithUnits(units).Build(t, db)
}

// DeclarationBuilder provides a fluent interface for creating test
// dividend declarations.
//
// Example usage:
//
//	declaration := testutil.NewDeclaration().
//	    WithFinancialYear("2024/2025").
//	    WithRate("0.05").
//	    Build(t, db)
type DeclarationBuilder struct {
	ID              string
	Number          string
	FinancialYear   string
	Rate            string
	TotalAmount     string
	DeclarationDate string
	RecordDate      string
	Status          string
}

// NewDeclaration creates a DeclarationBuilder with sensible defaults.
func NewDeclaration() *DeclarationBuilder {
	return &DeclarationBuilder{
		ID:              MakeID(),
		Number:          "DIV-TEST-0001",
		FinancialYear:   MakeFinancialYear(),
		Rate:            "0.05",
		TotalAmount:     "0",
		DeclarationDate: "2025-06-30",
		RecordDate:      "2025-06-30",
		Status:          model.DeclarationStatusPending,
	}
}

// WithFinancialYear sets the financial year.
func (b *DeclarationBuilder) WithFinancialYear(year string) *DeclarationBuilder {
	b.FinancialYear = year
	return b
}

// WithRate sets the per-unit rate.
func (b *DeclarationBuilder) WithRate(rate string) *DeclarationBuilder {
	b.Rate = rate
	return b
}

// WithRecordDate sets the eligibility cutoff date.
func (b *DeclarationBuilder) WithRecordDate(date string) *DeclarationBuilder {
	b.RecordDate = date
	return b
}

// WithStatus sets the lifecycle status.
func (b *DeclarationBuilder) WithStatus(status string) *DeclarationBuilder {
	b.Status = status
	return b
}

// Approved marks the declaration Approved.
func (b *DeclarationBuilder) Approved() *DeclarationBuilder {
	b.Status = model.DeclarationStatusApproved
	return b
}

// Build creates the declaration in the database and returns it.
func (b *DeclarationBuilder) Build(t *testing.T, db *sql.DB) model.DividendDeclaration {
	t.Helper()

	query := `
		INSERT INTO dividend_declaration
			(id, declaration_number, financial_year, rate, total_amount, declaration_date, record_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := time.Now().UTC()
	_, err := db.Exec(query, b.ID, b.Number, b.FinancialYear, b.Rate, b.TotalAmount,
		b.DeclarationDate, b.RecordDate, b.Status, repository.FormatDateTime(createdAt))
	if err != nil {
		t.Fatalf("Failed to create test declaration: %v", err)
	}

	rate, err := decimal.NewFromString(b.Rate)
	if err != nil {
		t.Fatalf("Invalid test rate: %v", err)
	}
	declarationDate, _ := time.Parse("2006-01-02", b.DeclarationDate)
	recordDate, _ := time.Parse("2006-01-02", b.RecordDate)

	return model.DividendDeclaration{
		ID:                b.ID,
		DeclarationNumber: b.Number,
		FinancialYear:     b.FinancialYear,
		Rate:              rate,
		DeclarationDate:   declarationDate,
		RecordDate:        recordDate,
		Status:            b.Status,
		CreatedAt:         createdAt,
	}
}

// PaymentBuilder provides a fluent interface for creating test dividend
// payments.
type PaymentBuilder struct {
	ID            string
	MemberID      string
	DeclarationID string
	FinancialYear string
	Amount        string
	Shares        int
	Status        string
}

// NewPayment creates a PaymentBuilder for the given member and declaration.
func NewPayment(memberID, declarationID string) *PaymentBuilder {
	return &PaymentBuilder{
		ID:            MakeID(),
		MemberID:      memberID,
		DeclarationID: declarationID,
		FinancialYear: "2024/2025",
		Amount:        "10",
		Shares:        200,
		Status:        model.PaymentStatusPending,
	}
}

// WithAmount sets the payout amount.
func (b *PaymentBuilder) WithAmount(amount string) *PaymentBuilder {
	b.Amount = amount
	return b
}

// WithShares sets the eligible unit count the amount was computed from.
func (b *PaymentBuilder) WithShares(shares int) *PaymentBuilder {
	b.Shares = shares
	return b
}

// WithStatus sets the payment status.
func (b *PaymentBuilder) WithStatus(status string) *PaymentBuilder {
	b.Status = status
	return b
}

// Paid marks the payment Paid.
func (b *PaymentBuilder) Paid() *PaymentBuilder {
	b.Status = model.PaymentStatusPaid
	return b
}

// Build creates the payment in the database and returns it.
func (b *PaymentBuilder) Build(t *testing.T, db *sql.DB) model.DividendPayment {
	t.Helper()

	query := `
		INSERT INTO dividend_payment
			(id, member_id, declaration_id, financial_year, amount, shares, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := time.Now().UTC()
	_, err := db.Exec(query, b.ID, b.MemberID, b.DeclarationID, b.FinancialYear,
		b.Amount, b.Shares, b.Status, repository.FormatDateTime(createdAt))
	if err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	amount, err := decimal.NewFromString(b.Amount)
	if err != nil {
		t.Fatalf("Invalid test amount: %v", err)
	}

	return model.DividendPayment{
		ID:            b.ID,
		MemberID:      b.MemberID,
		DeclarationID: b.DeclarationID,
		FinancialYear: b.FinancialYear,
		Amount:        amount,
		Shares:        b.Shares,
		Status:        b.Status,
		CreatedAt:     createdAt,
	}
}

// GuarantorBuilder provides a fluent interface for creating test
// guarantors.
//
// Example usage:
//
//	guarantor := testutil.NewGuarantor().
//	    WithName("Peter", "Otieno").
//	    Build(t, db)
type GuarantorBuilder struct {
	ID          string
	FirstName   string
	LastName    string
	PhoneNumber string
	IDNumber    string
	IsActive    bool
}

// NewGuarantor creates a GuarantorBuilder with sensible defaults.
func NewGuarantor() *GuarantorBuilder {
	return &GuarantorBuilder{
		ID:          MakeID(),
		FirstName:   "Test",
		LastName:    "Guarantor",
		PhoneNumber: "+254722000000",
		IDNumber:    fmt.Sprintf("ID%06d", rand.Intn(1000000)), //nolint:gosec // test data
		IsActive:    true,
	}
}

// WithName sets the first and last name.
func (b *GuarantorBuilder) WithName(first, last string) *GuarantorBuilder {
	b.FirstName = first
	b.LastName = last
	return b
}

// WithIDNumber sets the national ID number.
func (b *GuarantorBuilder) WithIDNumber(idNumber string) *GuarantorBuilder {
	b.IDNumber = idNumber
	return b
}

// WithPhoneNumber sets the phone number.
func (b *GuarantorBuilder) WithPhoneNumber(phone string) *GuarantorBuilder {
	b.PhoneNumber = phone
	return b
}

// Build creates the guarantor in the database and returns it.
func (b *GuarantorBuilder) Build(t *testing.T, db *sql.DB) model.Guarantor {
	t.Helper()

	createdAt := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO guarantor (id, first_name, last_name, phone_number, id_number, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.FirstName, b.LastName, b.PhoneNumber, b.IDNumber, b.IsActive,
		repository.FormatDateTime(createdAt))
	if err != nil {
		t.Fatalf("Failed to create test guarantor: %v", err)
	}

	return model.Guarantor{
		ID:          b.ID,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		PhoneNumber: b.PhoneNumber,
		IDNumber:    b.IDNumber,
		IsActive:    b.IsActive,
		CreatedAt:   createdAt,
	}
}

// CreateGuarantor creates a guarantor with defaults.
func CreateGuarantor(t *testing.T, db *sql.DB) model.Guarantor {
	t.Helper()
	return NewGuarantor().Build(t, db)
}

// LoanBuilder provides a fluent interface for creating test loans.
//
// Example usage:
//
//	loan := testutil.NewLoan(member.ID).
//	    WithPrincipal("100000").
//	    Approved().
//	    Build(t, db)
type LoanBuilder struct {
	ID                 string
	MemberID           string
	LoanType           string
	Principal          string
	InterestRate       string
	TermMonths         int
	Status             string
	MonthlyInstallment string
	TotalPayable       string
	Outstanding        string
	Guarantor1ID       string
	Guarantor2ID       string
}

// NewLoan creates a LoanBuilder with sensible defaults.
func NewLoan(memberID string) *LoanBuilder {
	return &LoanBuilder{
		ID:                 MakeID(),
		MemberID:           memberID,
		LoanType:           "Development",
		Principal:          "100000",
		InterestRate:       "12",
		TermMonths:         12,
		Status:             model.LoanStatusPending,
		MonthlyInstallment: "8884.88",
		TotalPayable:       "106618.56",
		Outstanding:        "106618.56",
	}
}

// WithPrincipal sets the principal amount.
func (b *LoanBuilder) WithPrincipal(principal string) *LoanBuilder {
	b.Principal = principal
	return b
}

// WithTerms sets the annual rate and term.
func (b *LoanBuilder) WithTerms(rate string, months int) *LoanBuilder {
	b.InterestRate = rate
	b.TermMonths = months
	return b
}

// WithGuarantors sets the guarantor references.
func (b *LoanBuilder) WithGuarantors(g1, g2 string) *LoanBuilder {
	b.Guarantor1ID = g1
	b.Guarantor2ID = g2
	return b
}

// Approved marks the loan Approved.
func (b *LoanBuilder) Approved() *LoanBuilder {
	b.Status = model.LoanStatusApproved
	return b
}

// Disbursed marks the loan Disbursed.
func (b *LoanBuilder) Disbursed() *LoanBuilder {
	b.Status = model.LoanStatusDisbursed
	return b
}

// Build creates the loan in the database and returns it.
func (b *LoanBuilder) Build(t *testing.T, db *sql.DB) model.Loan {
	t.Helper()

	createdAt := time.Now().UTC()
	applicationDate := "2025-01-15"

	var g1, g2 any
	if b.Guarantor1ID != "" {
		g1 = b.Guarantor1ID
	}
	if b.Guarantor2ID != "" {
		g2 = b.Guarantor2ID
	}

	_, err := db.Exec(`
		INSERT INTO loan
			(id, loan_number, member_id, loan_type, principal_amount, interest_rate,
			 term_months, application_date, status, monthly_installment, total_payable,
			 outstanding_balance, guarantor1_id, guarantor2_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, "LN-"+b.ID[:8], b.MemberID, b.LoanType, b.Principal, b.InterestRate,
		b.TermMonths, applicationDate, b.Status, b.MonthlyInstallment,
		b.TotalPayable, b.Outstanding, g1, g2, repository.FormatDateTime(createdAt))
	if err != nil {
		t.Fatalf("Failed to create test loan: %v", err)
	}

	principal, err := decimal.NewFromString(b.Principal)
	if err != nil {
		t.Fatalf("Invalid test principal: %v", err)
	}
	rate, err := decimal.NewFromString(b.InterestRate)
	if err != nil {
		t.Fatalf("Invalid test interest rate: %v", err)
	}
	installment, _ := decimal.NewFromString(b.MonthlyInstallment)
	payable, _ := decimal.NewFromString(b.TotalPayable)
	outstanding, _ := decimal.NewFromString(b.Outstanding)
	appDate, _ := time.Parse("2006-01-02", applicationDate)

	return model.Loan{
		ID:                 b.ID,
		LoanNumber:         "LN-" + b.ID[:8],
		MemberID:           b.MemberID,
		LoanType:           b.LoanType,
		PrincipalAmount:    principal,
		InterestRate:       rate,
		TermMonths:         b.TermMonths,
		ApplicationDate:    appDate,
		Status:             b.Status,
		MonthlyInstallment: installment,
		TotalPayable:       payable,
		OutstandingBalance: outstanding,
		Guarantor1ID:       b.Guarantor1ID,
		Guarantor2ID:       b.Guarantor2ID,
		CreatedAt:          createdAt,
	}
}

// CreateContribution inserts a contribution row for a member.
func CreateContribution(t *testing.T, db *sql.DB, memberID, amount, date string) model.Contribution {
	t.Helper()

	id := MakeID()
	createdAt := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO contribution (id, member_id, amount, method, contribution_date, created_at)
		VALUES (?, ?, ?, 'Cash', ?, ?)`,
		id, memberID, amount, date, repository.FormatDateTime(createdAt))
	if err != nil {
		t.Fatalf("Failed to create test contribution: %v", err)
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("Invalid test amount: %v", err)
	}
	contributionDate, _ := time.Parse("2006-01-02", date)

	return model.Contribution{
		ID:               id,
		MemberID:         memberID,
		Amount:           parsed,
		Method:           "Cash",
		ContributionDate: contributionDate,
		CreatedAt:        createdAt,
	}
}
