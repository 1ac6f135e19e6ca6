package models

// License is the signed license blob bound to one machine.
// The signature covers the canonical JSON of all other fields
// with keys sorted ascending.
type License struct {
	Fingerprint string `json:"fingerprint"` // hex SHA-256 machine fingerprint
	Holder      string `json:"holder"`
	Plan        string `json:"plan"`
	IssuedAt    string `json:"issued_at"`  // ISO-8601
	ExpiresAt   string `json:"expires_at"` // ISO-8601
	Signature   string `json:"signature"`  // hex RSA PKCS#1 v1.5 / SHA-256
}
