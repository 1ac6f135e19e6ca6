package bankrules

import "regexp"

// Atos handles statements from Atos Bank.
// Statement headers read "IZVOD BR. 205" or "Izvod br. 12".
type Atos struct{}

var (
	atosStatement = regexp.MustCompile(`(?i)\bIZVOD\s*BR\.?\s*(\d+)`)
	atosDigitRun  = regexp.MustCompile(`(\d{8,})`)
)

func (Atos) Name() string { return "atos" }

func (Atos) ExtractStatementNumber(text string) string {
	return firstMatch(atosStatement, text)
}

// ExtractAccountNumber looks for any long digit run, subject first, then the
// document text, then the attachment filename.
func (Atos) ExtractAccountNumber(text, subject, filename string) string {
	for _, src := range []string{subject, text, filename} {
		if v := firstMatch(atosDigitRun, src); v != "" {
			return v
		}
	}
	return ""
}
