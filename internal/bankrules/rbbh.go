package bankrules

import "regexp"

// RBBH handles statements from Raiffeisen Bank BiH
type RBBH struct{}

var (
	rbbhStatement = regexp.MustCompile(`(?i)Izvod za komitenta broj[: ]+(\d{1,6})`)
	rbbhAccount16 = regexp.MustCompile(`\b(\d{16})\b`)
)

func (RBBH) Name() string { return "rbbh" }

func (RBBH) ExtractStatementNumber(text string) string {
	return matchNoDot(rbbhStatement, text)
}

// ExtractAccountNumber checks the filename first; RBBH names attachments
// after the account they belong to.
func (RBBH) ExtractAccountNumber(text, subject, filename string) string {
	for _, src := range []string{filename, subject, text} {
		if v := firstMatch(rbbhAccount16, src); v != "" {
			return v
		}
	}
	return ""
}
