package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/testutil"
)

func TestSettingService_UpsertSetting(t *testing.T) {
	ctx := context.Background()

	t.Run("creates then replaces a value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestSettingService(t, db)

		created, err := ss.UpsertSetting(ctx, "share_unit_price", "100")
		if err != nil {
			t.Fatalf("UpsertSetting failed: %v", err)
		}
		if created.Value != "100" {
			t.Errorf("Expected value 100, got %s", created.Value)
		}

		updated, err := ss.UpsertSetting(ctx, "share_unit_price", "120")
		if err != nil {
			t.Fatalf("UpsertSetting failed: %v", err)
		}
		if updated.Value != "120" {
			t.Errorf("Expected value 120, got %s", updated.Value)
		}
		if updated.ID != created.ID {
			t.Errorf("Expected upsert to keep the original row")
		}

		settings, err := ss.GetSettings(ctx)
		if err != nil {
			t.Fatalf("GetSettings failed: %v", err)
		}
		if len(settings) != 1 {
			t.Errorf("Expected 1 setting, got %d", len(settings))
		}
	})

	t.Run("missing key reports not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestSettingService(t, db)

		_, err := ss.GetSetting(ctx, "currency")
		if !errors.Is(err, apperrors.ErrSettingNotFound) {
			t.Errorf("Expected ErrSettingNotFound, got %v", err)
		}
	})
}
