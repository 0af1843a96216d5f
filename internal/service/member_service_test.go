package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/testutil"
)

func TestMemberService_CreateMember(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the bank account encrypted and reads it back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ms := testutil.NewTestMemberService(t, db)

		created, err := ms.CreateMember(ctx, request.CreateMemberRequest{
			MemberNo:          "M000123",
			FirstName:         "Grace",
			LastName:          "Wanjiku",
			Email:             "grace@example.com",
			PhoneNumber:       "+254722000000",
			BankAccountNumber: "0100200300",
			JoinDate:          "2023-04-01",
		})
		if err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}

		if created.Status != model.MemberStatusActive {
			t.Errorf("Expected Active status, got %s", created.Status)
		}
		if created.BankAccountNumber != "0100200300" {
			t.Errorf("Expected plaintext account in response, got %s", created.BankAccountNumber)
		}

		// The stored column must not contain the plaintext.
		var stored string
		if err := db.QueryRow(`SELECT bank_account_number FROM member WHERE id = ?`, created.ID).Scan(&stored); err != nil {
			t.Fatalf("Failed to read stored account: %v", err)
		}
		if stored == "0100200300" {
			t.Error("Bank account stored in plaintext")
		}

		// Reads decrypt transparently.
		fetched, err := ms.GetMember(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if fetched.BankAccountNumber != "0100200300" {
			t.Errorf("Expected decrypted account, got %s", fetched.BankAccountNumber)
		}
	})
}

func TestMemberService_DeactivateMember(t *testing.T) {
	ctx := context.Background()

	t.Run("flips an active member inactive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ms := testutil.NewTestMemberService(t, db)

		member := testutil.CreateMember(t, db)

		if err := ms.DeactivateMember(ctx, member.ID); err != nil {
			t.Fatalf("DeactivateMember failed: %v", err)
		}

		fetched, _ := ms.GetMember(ctx, member.ID)
		if fetched.Status != model.MemberStatusInactive {
			t.Errorf("Expected Inactive, got %s", fetched.Status)
		}
	})

	t.Run("returns not found for a missing member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ms := testutil.NewTestMemberService(t, db)

		err := ms.DeactivateMember(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrMemberNotFound) {
			t.Errorf("Expected ErrMemberNotFound, got %v", err)
		}
	})
}
