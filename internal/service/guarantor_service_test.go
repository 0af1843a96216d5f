package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/testutil"
)

func TestGuarantorService_CreateGuarantor(t *testing.T) {
	ctx := context.Background()

	t.Run("registers an active guarantor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestGuarantorService(t, db)

		guarantor, err := gs.CreateGuarantor(ctx, request.CreateGuarantorRequest{
			FirstName:   "Peter",
			LastName:    "Otieno",
			IDNumber:    "12345678",
			PhoneNumber: "+254733000000",
			DateOfBirth: "1985-04-12",
		})
		if err != nil {
			t.Fatalf("CreateGuarantor failed: %v", err)
		}

		if !guarantor.IsActive {
			t.Error("Expected new guarantor to be active")
		}
		if guarantor.DateOfBirth == nil {
			t.Fatal("Expected date of birth to be recorded")
		}
		if got := guarantor.DateOfBirth.Format("2006-01-02"); got != "1985-04-12" {
			t.Errorf("Expected date of birth 1985-04-12, got %s", got)
		}

		stored, err := gs.GetGuarantor(ctx, guarantor.ID)
		if err != nil {
			t.Fatalf("GetGuarantor failed: %v", err)
		}
		if stored.FullName() != "Peter Otieno" {
			t.Errorf("Expected Peter Otieno, got %s", stored.FullName())
		}
	})

	t.Run("rejects a malformed date of birth", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestGuarantorService(t, db)

		_, err := gs.CreateGuarantor(ctx, request.CreateGuarantorRequest{
			FirstName:   "Peter",
			LastName:    "Otieno",
			IDNumber:    "12345678",
			DateOfBirth: "12/04/1985",
		})
		if err == nil {
			t.Error("Expected error for malformed date of birth")
		}
	})
}

func TestGuarantorService_UpdateGuarantor(t *testing.T) {
	ctx := context.Background()

	t.Run("edits details and deactivates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestGuarantorService(t, db)

		guarantor := testutil.CreateGuarantor(t, db)

		updated, err := gs.UpdateGuarantor(ctx, guarantor.ID, request.UpdateGuarantorRequest{
			FirstName: "Renamed",
			LastName:  guarantor.LastName,
			IDNumber:  guarantor.IDNumber,
			IsActive:  false,
		})
		if err != nil {
			t.Fatalf("UpdateGuarantor failed: %v", err)
		}

		if updated.FirstName != "Renamed" {
			t.Errorf("Expected renamed guarantor, got %s", updated.FirstName)
		}
		if updated.IsActive {
			t.Error("Expected guarantor to be deactivated")
		}
	})

	t.Run("reports not found for an unknown guarantor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestGuarantorService(t, db)

		_, err := gs.UpdateGuarantor(ctx, testutil.MakeID(), request.UpdateGuarantorRequest{
			FirstName: "Ghost",
			LastName:  "Entry",
			IDNumber:  "00000000",
		})
		if !errors.Is(err, apperrors.ErrGuarantorNotFound) {
			t.Errorf("Expected ErrGuarantorNotFound, got %v", err)
		}
	})
}

func TestGuarantorService_DeleteGuarantor(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an unreferenced guarantor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestGuarantorService(t, db)

		guarantor := testutil.CreateGuarantor(t, db)

		if err := gs.DeleteGuarantor(ctx, guarantor.ID); err != nil {
			t.Fatalf("DeleteGuarantor failed: %v", err)
		}

		_, err := gs.GetGuarantor(ctx, guarantor.ID)
		if !errors.Is(err, apperrors.ErrGuarantorNotFound) {
			t.Errorf("Expected ErrGuarantorNotFound after delete, got %v", err)
		}
	})

	t.Run("refuses to remove a guarantor referenced by a loan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestGuarantorService(t, db)

		member := testutil.CreateMember(t, db)
		guarantor := testutil.CreateGuarantor(t, db)
		testutil.NewLoan(member.ID).WithGuarantors(guarantor.ID, "").Build(t, db)

		err := gs.DeleteGuarantor(ctx, guarantor.ID)
		if !errors.Is(err, apperrors.ErrGuarantorInUse) {
			t.Errorf("Expected ErrGuarantorInUse, got %v", err)
		}

		if _, err := gs.GetGuarantor(ctx, guarantor.ID); err != nil {
			t.Errorf("Expected guarantor to remain, got %v", err)
		}
	})
}

func TestGuarantorService_SearchGuarantors(t *testing.T) {
	ctx := context.Background()

	t.Run("matches on partial name and ID number", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestGuarantorService(t, db)

		testutil.NewGuarantor().WithName("Grace", "Wanjiku").WithIDNumber("11223344").Build(t, db)
		testutil.NewGuarantor().WithName("Peter", "Otieno").WithIDNumber("55667788").Build(t, db)

		byName, err := gs.SearchGuarantors(ctx, "Wanj")
		if err != nil {
			t.Fatalf("SearchGuarantors failed: %v", err)
		}
		if len(byName) != 1 || byName[0].LastName != "Wanjiku" {
			t.Errorf("Expected one match for Wanj, got %+v", byName)
		}

		byID, err := gs.SearchGuarantors(ctx, "5566")
		if err != nil {
			t.Fatalf("SearchGuarantors failed: %v", err)
		}
		if len(byID) != 1 || byID[0].LastName != "Otieno" {
			t.Errorf("Expected one match for 5566, got %+v", byID)
		}
	})
}

func TestGuarantorService_GetPotentialGuarantors(t *testing.T) {
	ctx := context.Background()

	t.Run("lists active members holding enough active units", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gs := testutil.NewTestGuarantorService(t, db)

		eligible := testutil.CreateMember(t, db)
		testutil.CreateShare(t, db, eligible.ID, 150)

		small := testutil.CreateMember(t, db)
		testutil.CreateShare(t, db, small.ID, 50)

		inactive := testutil.CreateInactiveMember(t, db)
		testutil.CreateShare(t, db, inactive.ID, 200)

		potentials, err := gs.GetPotentialGuarantors(ctx)
		if err != nil {
			t.Fatalf("GetPotentialGuarantors failed: %v", err)
		}

		if len(potentials) != 1 {
			t.Fatalf("Expected one potential guarantor, got %d", len(potentials))
		}
		if potentials[0].MemberID != eligible.ID {
			t.Errorf("Expected member %s, got %s", eligible.ID, potentials[0].MemberID)
		}
		if potentials[0].ActiveUnits != 150 {
			t.Errorf("Expected 150 active units, got %d", potentials[0].ActiveUnits)
		}
	})
}
