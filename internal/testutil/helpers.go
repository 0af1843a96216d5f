package testutil

import (
	"database/sql"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/saccokit/sacco-backoffice/internal/repository"
	"github.com/saccokit/sacco-backoffice/internal/service"
	"github.com/saccokit/sacco-backoffice/internal/vault"
)

// MakeID generates a unique UUID for test entities.
func MakeID() string {
	return uuid.New().String()
}

// MakeMemberNo generates a unique member number.
func MakeMemberNo() string {
	return fmt.Sprintf("M%06d", rand.Intn(1000000)) //nolint:gosec // test data
}

// MakeFinancialYear generates a unique financial year so declarations in
// the same test database never collide on the unique column.
func MakeFinancialYear() string {
	start := 2000 + rand.Intn(400) //nolint:gosec // test data
	return fmt.Sprintf("%d/%d", start, start+1)
}

// NewTestVault creates a vault with a freshly generated key.
func NewTestVault(t *testing.T) *vault.Vault {
	t.Helper()

	v, err := vault.New("")
	if err != nil {
		t.Fatalf("Failed to create test vault: %v", err)
	}
	return v
}

func NewTestMemberService(t *testing.T, db *sql.DB) *service.MemberService {
	t.Helper()

	return service.NewMemberService(repository.NewMemberRepository(db), NewTestVault(t))
}

func NewTestShareService(t *testing.T, db *sql.DB) *service.ShareService {
	t.Helper()

	return service.NewShareService(
		db,
		repository.NewShareRepository(db),
		repository.NewMemberRepository(db),
	)
}

func NewTestDividendService(t *testing.T, db *sql.DB) *service.DividendService {
	t.Helper()

	return service.NewDividendService(
		db,
		repository.NewDeclarationRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewMemberRepository(db),
		NewTestVault(t),
	)
}

// NewTestDividendServiceWithVault creates a DividendService sharing the
// given vault, for tests that seed encrypted bank account numbers.
func NewTestDividendServiceWithVault(t *testing.T, db *sql.DB, v *vault.Vault) *service.DividendService {
	t.Helper()

	return service.NewDividendService(
		db,
		repository.NewDeclarationRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewMemberRepository(db),
		v,
	)
}

func NewTestLoanService(t *testing.T, db *sql.DB) *service.LoanService {
	t.Helper()

	return service.NewLoanService(
		db,
		repository.NewLoanRepository(db),
		repository.NewGuarantorRepository(db),
		repository.NewMemberRepository(db),
	)
}

func NewTestGuarantorService(t *testing.T, db *sql.DB) *service.GuarantorService {
	t.Helper()

	return service.NewGuarantorService(repository.NewGuarantorRepository(db))
}

func NewTestContributionService(t *testing.T, db *sql.DB) *service.ContributionService {
	t.Helper()

	return service.NewContributionService(
		repository.NewContributionRepository(db),
		repository.NewMemberRepository(db),
	)
}

func NewTestSettingService(t *testing.T, db *sql.DB) *service.SettingService {
	t.Helper()

	return service.NewSettingService(repository.NewSettingRepository(db))
}

func NewTestSummaryService(t *testing.T, db *sql.DB) *service.SummaryService {
	t.Helper()

	return service.NewSummaryService(
		repository.NewShareRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewContributionRepository(db),
	)
}
