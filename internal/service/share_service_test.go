package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/testutil"
)

func TestShareService_AddShare(t *testing.T) {
	ctx := context.Background()

	t.Run("records a purchase as an active lot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestShareService(t, db)

		member := testutil.CreateMember(t, db)

		lot, err := ss.AddShare(ctx, request.AddShareRequest{
			MemberID:     member.ID,
			Units:        50,
			UnitPrice:    decimal.RequireFromString("120"),
			PurchaseDate: "2025-01-10",
		})
		if err != nil {
			t.Fatalf("AddShare failed: %v", err)
		}

		if lot.Status != model.ShareStatusActive {
			t.Errorf("Expected Active lot, got %s", lot.Status)
		}
		if lot.ShareType != model.DefaultShareType {
			t.Errorf("Expected default share type, got %s", lot.ShareType)
		}

		units, err := testutil.NewTestShareService(t, db).GetMemberShares(ctx, member.ID)
		if err != nil {
			t.Fatalf("GetMemberShares failed: %v", err)
		}
		if len(units) != 1 || units[0].Units != 50 {
			t.Errorf("Expected one 50-unit lot, got %+v", units)
		}
	})

	t.Run("rejects purchases for inactive members", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestShareService(t, db)

		member := testutil.CreateInactiveMember(t, db)

		_, err := ss.AddShare(ctx, request.AddShareRequest{
			MemberID:     member.ID,
			Units:        50,
			UnitPrice:    decimal.RequireFromString("120"),
			PurchaseDate: "2025-01-10",
		})
		if !errors.Is(err, apperrors.ErrMemberInactive) {
			t.Errorf("Expected ErrMemberInactive, got %v", err)
		}
	})
}

func TestShareService_TransferShares(t *testing.T) {
	ctx := context.Background()

	activeUnits := func(t *testing.T, shares []model.ShareView) int {
		t.Helper()
		total := 0
		for _, s := range shares {
			if s.Status == model.ShareStatusActive {
				total += s.Units
			}
		}
		return total
	}

	t.Run("consumes lots oldest first across a boundary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestShareService(t, db)

		from := testutil.CreateMember(t, db)
		to := testutil.CreateMember(t, db)

		older := testutil.NewShare(from.ID).
			WithUnits(5).
			WithUnitPrice("100").
			WithPurchaseDate("2024-01-01").
			Build(t, db)
		newer := testutil.NewShare(from.ID).
			WithUnits(3).
			WithUnitPrice("150").
			WithPurchaseDate("2024-06-01").
			Build(t, db)

		created, err := ss.TransferShares(ctx, request.TransferSharesRequest{
			FromMemberID: from.ID,
			ToMemberID:   to.ID,
			Units:        6,
		})
		if err != nil {
			t.Fatalf("TransferShares failed: %v", err)
		}

		// Oldest lot fully consumed, newest partially.
		if len(created) != 2 {
			t.Fatalf("Expected 2 recipient lots, got %d", len(created))
		}
		if created[0].Units != 5 || !created[0].UnitPrice.Equal(decimal.NewFromInt(100)) {
			t.Errorf("First recipient lot should carry 5 units at 100, got %d at %s",
				created[0].Units, created[0].UnitPrice)
		}
		if created[1].Units != 1 || !created[1].UnitPrice.Equal(decimal.NewFromInt(150)) {
			t.Errorf("Second recipient lot should carry 1 unit at 150, got %d at %s",
				created[1].Units, created[1].UnitPrice)
		}
		for _, lot := range created {
			want := fmt.Sprintf("Transferred from member %s", from.MemberNo)
			if lot.Remarks != want {
				t.Errorf("Expected recipient lot remarks %q, got %q", want, lot.Remarks)
			}
		}

		fromShares, _ := ss.GetMemberShares(ctx, from.ID)
		if got := activeUnits(t, fromShares); got != 2 {
			t.Errorf("Expected 2 active units left at source, got %d", got)
		}
		for _, s := range fromShares {
			switch s.ID {
			case older.ID:
				if s.Status != model.ShareStatusTransferred {
					t.Errorf("Expected oldest lot Transferred, got %s", s.Status)
				}
			case newer.ID:
				if s.Status != model.ShareStatusActive || s.Units != 2 {
					t.Errorf("Expected newest lot Active with 2 units, got %s with %d", s.Status, s.Units)
				}
			}
		}

		toShares, _ := ss.GetMemberShares(ctx, to.ID)
		if got := activeUnits(t, toShares); got != 6 {
			t.Errorf("Expected 6 active units at recipient, got %d", got)
		}
	})

	t.Run("partial transfer shrinks a single lot in place", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestShareService(t, db)

		from := testutil.CreateMember(t, db)
		to := testutil.CreateMember(t, db)
		lot := testutil.NewShare(from.ID).WithUnits(10).Build(t, db)

		created, err := ss.TransferShares(ctx, request.TransferSharesRequest{
			FromMemberID: from.ID,
			ToMemberID:   to.ID,
			Units:        4,
		})
		if err != nil {
			t.Fatalf("TransferShares failed: %v", err)
		}
		if len(created) != 1 || created[0].Units != 4 {
			t.Fatalf("Expected one 4-unit recipient lot, got %+v", created)
		}

		remaining, _ := ss.GetShare(ctx, lot.ID)
		if remaining.Status != model.ShareStatusActive || remaining.Units != 6 {
			t.Errorf("Expected source lot Active with 6 units, got %s with %d",
				remaining.Status, remaining.Units)
		}
	})

	t.Run("rejects transfers beyond the active holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestShareService(t, db)

		from := testutil.CreateMember(t, db)
		to := testutil.CreateMember(t, db)
		testutil.NewShare(from.ID).WithUnits(5).Build(t, db)
		testutil.NewShare(from.ID).WithUnits(5).WithStatus(model.ShareStatusCancelled).Build(t, db)

		_, err := ss.TransferShares(ctx, request.TransferSharesRequest{
			FromMemberID: from.ID,
			ToMemberID:   to.ID,
			Units:        6,
		})
		if !errors.Is(err, apperrors.ErrInsufficientShares) {
			t.Errorf("Expected ErrInsufficientShares, got %v", err)
		}

		// Nothing moved.
		fromShares, _ := ss.GetMemberShares(ctx, from.ID)
		if got := activeUnits(t, fromShares); got != 5 {
			t.Errorf("Expected source holding untouched at 5, got %d", got)
		}
		toShares, _ := ss.GetMemberShares(ctx, to.ID)
		if len(toShares) != 0 {
			t.Errorf("Expected no recipient lots, got %d", len(toShares))
		}
	})

	t.Run("carries the source lot share type unless overridden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestShareService(t, db)

		from := testutil.CreateMember(t, db)
		to := testutil.CreateMember(t, db)
		testutil.NewShare(from.ID).WithUnits(5).WithShareType("Preference").Build(t, db)

		created, err := ss.TransferShares(ctx, request.TransferSharesRequest{
			FromMemberID: from.ID,
			ToMemberID:   to.ID,
			Units:        5,
		})
		if err != nil {
			t.Fatalf("TransferShares failed: %v", err)
		}
		if created[0].ShareType != "Preference" {
			t.Errorf("Expected carried share type Preference, got %s", created[0].ShareType)
		}

		// Explicit type wins.
		testutil.NewShare(to.ID).WithUnits(5).WithShareType("Preference").Build(t, db)
		created, err = ss.TransferShares(ctx, request.TransferSharesRequest{
			FromMemberID: to.ID,
			ToMemberID:   from.ID,
			Units:        5,
			ShareType:    "Ordinary",
		})
		if err != nil {
			t.Fatalf("TransferShares failed: %v", err)
		}
		for _, lot := range created {
			if lot.ShareType != "Ordinary" {
				t.Errorf("Expected overridden share type Ordinary, got %s", lot.ShareType)
			}
		}
	})

	t.Run("rejects transfers to inactive members", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestShareService(t, db)

		from := testutil.CreateMember(t, db)
		to := testutil.CreateInactiveMember(t, db)
		testutil.NewShare(from.ID).WithUnits(5).Build(t, db)

		_, err := ss.TransferShares(ctx, request.TransferSharesRequest{
			FromMemberID: from.ID,
			ToMemberID:   to.ID,
			Units:        5,
		})
		if !errors.Is(err, apperrors.ErrMemberInactive) {
			t.Errorf("Expected ErrMemberInactive, got %v", err)
		}
	})
}

func TestShareService_CancelShare(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels an active lot once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestShareService(t, db)

		member := testutil.CreateMember(t, db)
		lot := testutil.NewShare(member.ID).WithUnits(10).Build(t, db)

		if err := ss.CancelShare(ctx, lot.ID, "bought in error"); err != nil {
			t.Fatalf("CancelShare failed: %v", err)
		}

		cancelled, _ := ss.GetShare(ctx, lot.ID)
		if cancelled.Status != model.ShareStatusCancelled {
			t.Errorf("Expected Cancelled, got %s", cancelled.Status)
		}

		// A second cancel finds no active lot.
		err := ss.CancelShare(ctx, lot.ID, "again")
		if !errors.Is(err, apperrors.ErrShareNotFound) {
			t.Errorf("Expected ErrShareNotFound on double cancel, got %v", err)
		}
	})
}

func TestShareService_Summaries(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates only active lots", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestShareService(t, db)

		m1 := testutil.CreateMember(t, db)
		m2 := testutil.CreateMember(t, db)
		testutil.NewShare(m1.ID).WithUnits(100).WithUnitPrice("100").Build(t, db)
		testutil.NewShare(m2.ID).WithUnits(50).WithUnitPrice("100").Build(t, db)
		testutil.NewShare(m2.ID).WithUnits(25).WithUnitPrice("100").WithStatus(model.ShareStatusTransferred).Build(t, db)

		summary, err := ss.GetShareSummary(ctx)
		if err != nil {
			t.Fatalf("GetShareSummary failed: %v", err)
		}

		if summary.TotalShares != 150 {
			t.Errorf("Expected 150 total shares, got %d", summary.TotalShares)
		}
		if summary.ShareholdersCount != 2 {
			t.Errorf("Expected 2 shareholders, got %d", summary.ShareholdersCount)
		}
		if !summary.TotalValue.Equal(decimal.NewFromInt(15000)) {
			t.Errorf("Expected total value 15000, got %s", summary.TotalValue)
		}
	})

	t.Run("materialized register reflects a refresh", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestShareService(t, db)

		member := testutil.CreateMember(t, db)
		testutil.NewShare(member.ID).WithUnits(40).WithUnitPrice("50").Build(t, db)

		if err := ss.RefreshMemberShareSummary(ctx); err != nil {
			t.Fatalf("RefreshMemberShareSummary failed: %v", err)
		}

		summaries, err := ss.GetMemberShareSummaries(ctx)
		if err != nil {
			t.Fatalf("GetMemberShareSummaries failed: %v", err)
		}
		if len(summaries) != 1 {
			t.Fatalf("Expected 1 summary row, got %d", len(summaries))
		}
		if summaries[0].ActiveUnits != 40 {
			t.Errorf("Expected 40 active units, got %d", summaries[0].ActiveUnits)
		}
		if !summaries[0].TotalValue.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("Expected value 2000, got %s", summaries[0].TotalValue)
		}
		if time.Since(summaries[0].RefreshedAt) > time.Minute {
			t.Errorf("Expected a recent refresh timestamp, got %s", summaries[0].RefreshedAt)
		}
	})
}
