package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/testutil"
)

func TestMemberHandler_CreateMember(t *testing.T) {
	setupHandler := func(t *testing.T) (*MemberHandler, *sql.DB) {
		db := testutil.SetupTestDB(t)
		ms := testutil.NewTestMemberService(t, db)
		return NewMemberHandler(ms), db
	}

	t.Run("registers an active member", func(t *testing.T) {
		handler, _ := setupHandler(t)

		body := `{"memberNo":"M000101","firstName":"Grace","lastName":"Wanjiru","email":"grace@example.com","phoneNumber":"+254700111222","bankAccountNumber":"01234567890"}`
		req := httptest.NewRequest("POST", "/api/members", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.CreateMember(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Message string       `json:"message"`
			Data    model.Member `json:"data"`
		}
		json.NewDecoder(w.Body).Decode(&resp) //nolint:errcheck // test decode
		if resp.Data.Status != model.MemberStatusActive {
			t.Errorf("Expected Active status, got %s", resp.Data.Status)
		}
		if resp.Data.BankAccountNumber != "01234567890" {
			t.Errorf("Expected plaintext bank account in response, got %s", resp.Data.BankAccountNumber)
		}
	})

	t.Run("rejects a missing member number with 400", func(t *testing.T) {
		handler, _ := setupHandler(t)

		body := `{"firstName":"Grace","lastName":"Wanjiru","phoneNumber":"+254700111222"}`
		req := httptest.NewRequest("POST", "/api/members", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.CreateMember(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestMemberHandler_GetMember(t *testing.T) {
	setupHandler := func(t *testing.T) (*MemberHandler, *sql.DB) {
		db := testutil.SetupTestDB(t)
		ms := testutil.NewTestMemberService(t, db)
		return NewMemberHandler(ms), db
	}

	t.Run("returns the member", func(t *testing.T) {
		handler, db := setupHandler(t)

		member := testutil.CreateMember(t, db)

		req := testutil.NewRequestWithURLParams("GET", "/api/members/"+member.ID, map[string]string{"uuid": member.ID})
		w := httptest.NewRecorder()

		handler.GetMember(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp struct {
			Message string       `json:"message"`
			Data    model.Member `json:"data"`
		}
		json.NewDecoder(w.Body).Decode(&resp) //nolint:errcheck // test decode
		if resp.Data.ID != member.ID {
			t.Errorf("Expected member %s, got %s", member.ID, resp.Data.ID)
		}
	})

	t.Run("unknown member yields 404", func(t *testing.T) {
		handler, _ := setupHandler(t)

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams("GET", "/api/members/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.GetMember(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}
