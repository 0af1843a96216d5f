package vault

import (
	"errors"
	"testing"
)

func TestVault_RoundTrip(t *testing.T) {
	v, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	token, err := v.Encrypt("0100200300")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if token == "0100200300" {
		t.Error("Encrypt returned the plaintext")
	}

	plain, err := v.Decrypt(token)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if plain != "0100200300" {
		t.Errorf("Expected round trip, got %s", plain)
	}
}

func TestVault_EmptyValuesPassThrough(t *testing.T) {
	v, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	token, err := v.Encrypt("")
	if err != nil || token != "" {
		t.Errorf("Expected empty encrypt passthrough, got %q, %v", token, err)
	}

	plain, err := v.Decrypt("")
	if err != nil || plain != "" {
		t.Errorf("Expected empty decrypt passthrough, got %q, %v", plain, err)
	}
}

func TestVault_WrongKeyFails(t *testing.T) {
	v1, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v2, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	token, err := v1.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	_, err = v2.Decrypt(token)
	if !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("Expected ErrDecryptFailed, got %v", err)
	}
}

func TestVault_RejectsBadKey(t *testing.T) {
	if _, err := New("not-a-key"); err == nil {
		t.Error("Expected an error for a malformed key")
	}
}
