package bankrules

import "regexp"

// NLBRS handles statements from NLB Banka. Corporate statements carry an
// English "Customer advice number" header, retail ones the local "Izvod".
type NLBRS struct{}

var (
	nlbAdviceNumber = regexp.MustCompile(`(?i)Customer advice number[: ]+(\d{1,6})`)
	nlbIzvod        = regexp.MustCompile(`(?i)\bIzvod[: ]+(\d{1,6})`)
	nlbIzvodBroj    = regexp.MustCompile(`(?i)IZVOD\s+broj[: ]+(\d{1,6})`)
	nlbPartija      = regexp.MustCompile(`(?i)partiju\s+([0-9\-]+)`)
	nlbAccount16    = regexp.MustCompile(`\b(\d{16})\b`)
)

func (NLBRS) Name() string { return "nlb_rs" }

func (NLBRS) ExtractStatementNumber(text string) string {
	for _, re := range []*regexp.Regexp{nlbAdviceNumber, nlbIzvod, nlbIzvodBroj} {
		if v := matchNoDot(re, text); v != "" {
			return v
		}
	}
	return ""
}

// ExtractAccountNumber first looks for the "za partiju NNN" phrase NLB puts
// in the subject, then falls back to a bare 16-digit account.
func (NLBRS) ExtractAccountNumber(text, subject, filename string) string {
	if v := firstMatch(nlbPartija, subject); v != "" {
		return v
	}
	for _, src := range []string{subject, text, filename} {
		if v := firstMatch(nlbAccount16, src); v != "" {
			return v
		}
	}
	return ""
}
