// Package vault seals mail secrets at rest using fernet tokens.
//
// Key material is resolved once at startup: an explicit urlsafe-base64 key
// takes priority, then a passphrase run through PBKDF2, and with neither the
// vault passes plaintext through unchanged so databases created before
// encryption was introduced keep working.
package vault

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/fernet/fernet-go"
	"golang.org/x/crypto/pbkdf2"
)

// Fixed application-wide KDF parameters. The salt is deliberately constant so
// the same passphrase always derives the same key across machines.
var kdfSalt = []byte("wizbank-kdf-salt-v1")

const kdfIterations = 200_000

// Vault encrypts and decrypts stored mail secrets
type Vault struct {
	key *fernet.Key // nil means pass-through mode
}

// New resolves key material and returns a ready vault.
// Priority: explicit key, then passphrase, then pass-through.
// An explicit key that does not decode to exactly 32 bytes is treated as
// absent rather than failing startup.
func New(keyB64, passphrase string) *Vault {
	if keyB64 != "" {
		if key := decodeKey(keyB64); key != nil {
			return &Vault{key: key}
		}
	}
	if passphrase != "" {
		return &Vault{key: deriveKey(passphrase)}
	}
	return &Vault{}
}

// decodeKey accepts an urlsafe base64 encoded 32-byte key, or nil
func decodeKey(keyB64 string) *fernet.Key {
	raw, err := base64.URLEncoding.DecodeString(keyB64)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(keyB64)
	}
	if err != nil || len(raw) != 32 {
		return nil
	}
	var key fernet.Key
	copy(key[:], raw)
	return &key
}

// deriveKey runs PBKDF2-HMAC-SHA256 over the passphrase
func deriveKey(passphrase string) *fernet.Key {
	raw := pbkdf2.Key([]byte(passphrase), kdfSalt, kdfIterations, 32, sha256.New)
	var key fernet.Key
	copy(key[:], raw)
	return &key
}

// Enabled reports whether a key is configured
func (v *Vault) Enabled() bool {
	return v.key != nil
}

// Encrypt seals a secret into an authenticated fernet token.
// In pass-through mode the plaintext bytes are returned unchanged.
func (v *Vault) Encrypt(plaintext string) ([]byte, error) {
	if v.key == nil {
		return []byte(plaintext), nil
	}
	token, err := fernet.EncryptAndSign([]byte(plaintext), v.key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return token, nil
}

// Decrypt opens a fernet token. An authentication failure means the secret
// was stored before encryption was configured, so the raw bytes are returned
// as-is instead of an error.
func (v *Vault) Decrypt(cipher []byte) string {
	if len(cipher) == 0 {
		return ""
	}
	if v.key == nil {
		return string(cipher)
	}
	plain := fernet.VerifyAndDecrypt(cipher, 0, []*fernet.Key{v.key})
	if plain == nil {
		// Legacy plaintext secret
		return string(cipher)
	}
	return string(plain)
}
