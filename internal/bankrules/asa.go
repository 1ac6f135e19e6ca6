package bankrules

import "regexp"

// ASA handles statements from ASA Banka
type ASA struct{}

var (
	asaStatement = regexp.MustCompile(`(?i)IZVOD\s*(?:BROJ)?[: ]*(\d+)`)
	asaAccount   = regexp.MustCompile(`(?i)Ra[cč]un[: ]*([0-9\-]+)`)
	asaDigitRun  = regexp.MustCompile(`([0-9]{8,})`)
)

func (ASA) Name() string { return "asa" }

func (ASA) ExtractStatementNumber(text string) string {
	return firstMatch(asaStatement, text)
}

// ExtractAccountNumber prefers the labeled "Račun:" value in the text and
// falls back to a digit run in the filename.
func (ASA) ExtractAccountNumber(text, subject, filename string) string {
	if v := firstMatch(asaAccount, text); v != "" {
		return v
	}
	return firstMatch(asaDigitRun, filename)
}
