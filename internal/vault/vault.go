// Package vault encrypts member bank account numbers before they reach
// the database and decrypts them when a payment number is resolved.
package vault

import (
	"errors"

	"github.com/fernet/fernet-go"
)

// ErrDecryptFailed indicates the stored token could not be verified,
// usually because the configured key changed.
var ErrDecryptFailed = errors.New("failed to decrypt value")

// Vault wraps a fernet key for symmetric encrypt/decrypt of short strings.
type Vault struct {
	key *fernet.Key
}

// New creates a Vault from a base64-encoded fernet key. An empty keyStr
// generates a fresh key, which makes previously stored values unreadable.
func New(keyStr string) (*Vault, error) {
	if keyStr == "" {
		key := &fernet.Key{}
		if err := key.Generate(); err != nil {
			return nil, err
		}
		return &Vault{key: key}, nil
	}

	key, err := fernet.DecodeKey(keyStr)
	if err != nil {
		return nil, err
	}
	return &Vault{key: key}, nil
}

// Encrypt returns the fernet token for plaintext. Empty input stays empty
// so optional columns remain NULL-like.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	tok, err := fernet.EncryptAndSign([]byte(plaintext), v.key)
	if err != nil {
		return "", err
	}
	return string(tok), nil
}

// Decrypt reverses Encrypt. Tokens never expire; the key is the only
// access control.
func (v *Vault) Decrypt(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{v.key})
	if msg == nil {
		return "", ErrDecryptFailed
	}
	return string(msg), nil
}
