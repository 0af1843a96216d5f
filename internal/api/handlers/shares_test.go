package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/testutil"
)

func TestShareHandler_AddShare(t *testing.T) {
	setupHandler := func(t *testing.T) (*ShareHandler, *sql.DB) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestShareService(t, db)
		return NewShareHandler(ss), db
	}

	t.Run("records a purchase for an active member", func(t *testing.T) {
		handler, db := setupHandler(t)

		member := testutil.CreateMember(t, db)

		body := fmt.Sprintf(`{"memberId":%q,"units":50,"unitPrice":100,"purchaseDate":"2025-01-15"}`, member.ID)
		req := httptest.NewRequest("POST", "/api/shares", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.AddShare(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Message string      `json:"message"`
			Data    model.Share `json:"data"`
		}
		json.NewDecoder(w.Body).Decode(&resp) //nolint:errcheck // test decode
		if resp.Data.Units != 50 {
			t.Errorf("Expected 50 units, got %d", resp.Data.Units)
		}
		if resp.Data.Status != model.ShareStatusActive {
			t.Errorf("Expected Active status, got %s", resp.Data.Status)
		}
	})

	t.Run("unknown member yields 404", func(t *testing.T) {
		handler, _ := setupHandler(t)

		body := fmt.Sprintf(`{"memberId":%q,"units":50,"unitPrice":100,"purchaseDate":"2025-01-15"}`, testutil.MakeID())
		req := httptest.NewRequest("POST", "/api/shares", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.AddShare(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("inactive member yields 400", func(t *testing.T) {
		handler, db := setupHandler(t)

		member := testutil.CreateInactiveMember(t, db)

		body := fmt.Sprintf(`{"memberId":%q,"units":50,"unitPrice":100,"purchaseDate":"2025-01-15"}`, member.ID)
		req := httptest.NewRequest("POST", "/api/shares", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.AddShare(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestShareHandler_TransferShares(t *testing.T) {
	setupHandler := func(t *testing.T) (*ShareHandler, *sql.DB) {
		db := testutil.SetupTestDB(t)
		ss := testutil.NewTestShareService(t, db)
		return NewShareHandler(ss), db
	}

	t.Run("moves units between members", func(t *testing.T) {
		handler, db := setupHandler(t)

		from := testutil.CreateMember(t, db)
		to := testutil.CreateMember(t, db)
		testutil.CreateShare(t, db, from.ID, 100)

		body := fmt.Sprintf(`{"fromMemberId":%q,"toMemberId":%q,"units":40}`, from.ID, to.ID)
		req := httptest.NewRequest("POST", "/api/shares/transfer", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.TransferShares(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Message string        `json:"message"`
			Data    []model.Share `json:"data"`
		}
		json.NewDecoder(w.Body).Decode(&resp) //nolint:errcheck // test decode
		if len(resp.Data) != 1 {
			t.Fatalf("Expected 1 created lot, got %d", len(resp.Data))
		}
		if resp.Data[0].MemberID != to.ID || resp.Data[0].Units != 40 {
			t.Errorf("Unexpected created lot: %+v", resp.Data[0])
		}
	})

	t.Run("insufficient units yield 400", func(t *testing.T) {
		handler, db := setupHandler(t)

		from := testutil.CreateMember(t, db)
		to := testutil.CreateMember(t, db)
		testutil.CreateShare(t, db, from.ID, 10)

		body := fmt.Sprintf(`{"fromMemberId":%q,"toMemberId":%q,"units":25}`, from.ID, to.ID)
		req := httptest.NewRequest("POST", "/api/shares/transfer", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.TransferShares(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}

		var units int
		db.QueryRow("SELECT COALESCE(SUM(units), 0) FROM share WHERE member_id = ? AND status = 'Active'", from.ID).Scan(&units) //nolint:errcheck // test scan
		if units != 10 {
			t.Errorf("Expected source holdings untouched, got %d units", units)
		}
	})

	t.Run("self transfer yields 400", func(t *testing.T) {
		handler, db := setupHandler(t)

		member := testutil.CreateMember(t, db)

		body := fmt.Sprintf(`{"fromMemberId":%q,"toMemberId":%q,"units":5}`, member.ID, member.ID)
		req := httptest.NewRequest("POST", "/api/shares/transfer", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.TransferShares(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}
