package bankrules

import "regexp"

// Sparkasse handles statements from Sparkasse Bank; documents carry the
// German "Kontoauszug Nr." header.
type Sparkasse struct{}

var (
	sparkasseStatement = regexp.MustCompile(`(?i)Kontoauszug\s+Nr[.: ]+(\d{1,6})`)
	sparkasseKonto     = regexp.MustCompile(`(?i)Konto[: ]+(\d{16})`)
	sparkasseAccount16 = regexp.MustCompile(`\b(\d{16})\b`)
)

func (Sparkasse) Name() string { return "sparkasse" }

func (Sparkasse) ExtractStatementNumber(text string) string {
	return matchNoDot(sparkasseStatement, text)
}

func (Sparkasse) ExtractAccountNumber(text, subject, filename string) string {
	if v := firstMatch(sparkasseKonto, text); v != "" {
		return v
	}
	for _, src := range []string{subject, text, filename} {
		if v := firstMatch(sparkasseAccount16, src); v != "" {
			return v
		}
	}
	return ""
}
