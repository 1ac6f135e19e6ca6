// Package license verifies the signed license blob that gates every
// ingestion run. Validation is fail-closed: any defect in the signature,
// machine binding, or expiry refuses the run.
package license

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"runtime"
	"time"
)

// PublicKeyPEM is the embedded signing key. Replace with the key produced by
// `licensegen keygen` when issuing licenses for a new deployment.
const PublicKeyPEM = `-----BEGIN PUBLIC KEY-----
MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEAsB56mH1C51UVh6rgAP9M
MNuYIbUfBIioriwijcOPtoW8dLS2YFhQQHuwJiEzRaDJZ4qyTEybj9Yh8JKk92YR
5npjD8xP0/tjJbirhJuIko+oI6Up66KTe5HU1qmHn/3aQhWs4O8hUkTUAtkiyz4P
OMBYMEht3hCw0vilORKc0MMqyCWGOErjVf2szy10txgwhsWaA5ITZVLO02cqm0+Y
gzRT1aeeNSOY+DmytD5cu14qC8NTAa4l0dfX/k4ijlhAHWnNMOgaezC6+xKPzjx5
enCuyq8dBVLQK9vohPd9sOc/pw1LU4rUau9tq8BfWPoiaMNBXfJIWE2/gUHSA+hU
AQIDAQAB
-----END PUBLIC KEY-----`

// Store provides the persisted license blob
type Store interface {
	GetLicense(ctx context.Context) (string, error)
}

// Gate validates the stored license against this machine
type Gate struct {
	store  Store
	pub    *rsa.PublicKey
	logger *slog.Logger

	// overridable in tests
	now         func() time.Time
	fingerprint func() string
}

// New creates a gate using the embedded public key
func New(store Store, logger *slog.Logger) (*Gate, error) {
	pub, err := ParsePublicKey([]byte(PublicKeyPEM))
	if err != nil {
		return nil, err
	}
	return NewWithKey(store, pub, logger), nil
}

// NewWithKey creates a gate with an explicit verification key
func NewWithKey(store Store, pub *rsa.PublicKey, logger *slog.Logger) *Gate {
	return &Gate{
		store:       store,
		pub:         pub,
		logger:      logger.With("component", "license"),
		now:         time.Now,
		fingerprint: Fingerprint,
	}
}

// ParsePublicKey parses a PEM-encoded RSA public key
func ParsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in public key")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not RSA")
	}
	return rsaKey, nil
}

// Fingerprint identifies this machine as SHA-256 over platform, hostname and
// username. Licenses are bound to this value at issue time.
func Fingerprint() string {
	host, _ := os.Hostname()
	username := ""
	if u, err := user.Current(); err == nil {
		username = u.Username
	} else if v := os.Getenv("USER"); v != "" {
		username = v
	} else {
		username = os.Getenv("USERNAME")
	}
	ident := fmt.Sprintf("%s|%s|%s", runtime.GOOS, host, username)
	sum := sha256.Sum256([]byte(ident))
	return hex.EncodeToString(sum[:])
}

// CanonicalPayload serializes license fields for signing: the signature
// field removed, remaining keys sorted ascending, UTF-8 JSON.
func CanonicalPayload(fields map[string]any) ([]byte, error) {
	clean := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "signature" {
			continue
		}
		clean[k] = v
	}
	return json.Marshal(clean)
}

// Validate checks the stored license end to end. A nil return means the
// license is valid for this machine right now; any other outcome is a
// descriptive error and the caller must refuse to start ingestion.
func (g *Gate) Validate(ctx context.Context) error {
	blob, err := g.store.GetLicense(ctx)
	if err != nil {
		return fmt.Errorf("license not loaded: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(blob), &fields); err != nil {
		return fmt.Errorf("license is not valid JSON: %w", err)
	}

	sigHex, _ := fields["signature"].(string)
	if sigHex == "" {
		return fmt.Errorf("license is missing signature")
	}
	signature, err := hex.DecodeString(sigHex)
	if err != nil {
		return fmt.Errorf("license signature is not valid hex: %w", err)
	}

	payload, err := CanonicalPayload(fields)
	if err != nil {
		return fmt.Errorf("failed to build signature payload: %w", err)
	}
	digest := sha256.Sum256(payload)
	if err := rsa.VerifyPKCS1v15(g.pub, crypto.SHA256, digest[:], signature); err != nil {
		return fmt.Errorf("license signature is not valid: %w", err)
	}

	fingerprint, _ := fields["fingerprint"].(string)
	if fingerprint != g.fingerprint() {
		return fmt.Errorf("license fingerprint does not match this machine")
	}

	expiresAt, _ := fields["expires_at"].(string)
	expiry, err := parseISOTime(expiresAt)
	if err != nil {
		return fmt.Errorf("license expires_at is not a valid timestamp: %w", err)
	}
	if !expiry.After(g.now()) {
		return fmt.Errorf("license expired at %s", expiry.Format(time.RFC3339))
	}

	g.logger.Info("license is valid",
		"holder", fields["holder"],
		"plan", fields["plan"],
		"expires_at", expiresAt,
	)
	return nil
}

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseISOTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
