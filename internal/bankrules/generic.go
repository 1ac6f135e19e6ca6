package bankrules

import "regexp"

// Generic is the fallback strategy used when no bank sender matches
type Generic struct{}

var genericStatementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Izvod\s+broj[: ]+(\d{1,6})`),
	regexp.MustCompile(`IZVOD\s+BROJ[: ]+(\d{1,6})`),
	regexp.MustCompile(`(?i)IZVOD[^0-9]{0,10}(\d{1,6})`),
}

var (
	genericAccount16     = regexp.MustCompile(`\b(\d{16})\b`)
	genericAccountDashed = regexp.MustCompile(`\b(\d{3}-\d{3}-\d{8}-\d{2}|\d{3}-\d{8,})\b`)
)

func (Generic) Name() string { return "generic" }

// ExtractStatementNumber scans the document header only; statement numbers
// sit near the top and deeper digits are mostly transaction data.
func (Generic) ExtractStatementNumber(text string) string {
	head := headLines(text, 60)
	for _, re := range genericStatementPatterns {
		if v := matchNoDot(re, head); v != "" {
			return v
		}
	}
	return ""
}

func (Generic) ExtractAccountNumber(text, subject, filename string) string {
	for _, src := range []string{subject, text, filename} {
		if src == "" {
			continue
		}
		if v := firstMatch(genericAccount16, src); v != "" {
			return v
		}
		if v := firstMatch(genericAccountDashed, src); v != "" {
			return v
		}
	}
	return ""
}
