package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/testutil"
)

func TestContributionService_CreateContribution(t *testing.T) {
	ctx := context.Background()

	t.Run("records a deposit for an active member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		cs := testutil.NewTestContributionService(t, db)

		member := testutil.CreateMember(t, db)

		contribution, err := cs.CreateContribution(ctx, request.CreateContributionRequest{
			MemberID:         member.ID,
			Amount:           decimal.RequireFromString("1500.50"),
			Method:           "M-Pesa",
			Reference:        "QX12345",
			ContributionDate: "2025-03-01",
		})
		if err != nil {
			t.Fatalf("CreateContribution failed: %v", err)
		}

		if !contribution.Amount.Equal(decimal.RequireFromString("1500.50")) {
			t.Errorf("Expected amount 1500.50, got %s", contribution.Amount)
		}

		listed, err := cs.GetContributions(ctx, member.ID)
		if err != nil {
			t.Fatalf("GetContributions failed: %v", err)
		}
		if len(listed) != 1 {
			t.Fatalf("Expected 1 contribution, got %d", len(listed))
		}
		if listed[0].MemberName != member.FullName() {
			t.Errorf("Expected member name %s, got %s", member.FullName(), listed[0].MemberName)
		}
	})

	t.Run("rejects deposits for inactive members", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		cs := testutil.NewTestContributionService(t, db)

		member := testutil.CreateInactiveMember(t, db)

		_, err := cs.CreateContribution(ctx, request.CreateContributionRequest{
			MemberID:         member.ID,
			Amount:           decimal.NewFromInt(100),
			Method:           "Cash",
			ContributionDate: "2025-03-01",
		})
		if !errors.Is(err, apperrors.ErrMemberInactive) {
			t.Errorf("Expected ErrMemberInactive, got %v", err)
		}
	})
}

func TestContributionService_GetContributions(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by member and rejects unknown members", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		cs := testutil.NewTestContributionService(t, db)

		m1 := testutil.CreateMember(t, db)
		m2 := testutil.CreateMember(t, db)
		testutil.CreateContribution(t, db, m1.ID, "100", "2025-01-01")
		testutil.CreateContribution(t, db, m2.ID, "200", "2025-01-02")

		all, err := cs.GetContributions(ctx, "")
		if err != nil {
			t.Fatalf("GetContributions failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("Expected 2 contributions, got %d", len(all))
		}

		filtered, err := cs.GetContributions(ctx, m1.ID)
		if err != nil {
			t.Fatalf("GetContributions failed: %v", err)
		}
		if len(filtered) != 1 || filtered[0].MemberID != m1.ID {
			t.Errorf("Expected only m1's contribution, got %+v", filtered)
		}

		_, err = cs.GetContributions(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrMemberNotFound) {
			t.Errorf("Expected ErrMemberNotFound, got %v", err)
		}
	})
}
