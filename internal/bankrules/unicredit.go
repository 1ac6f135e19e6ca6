package bankrules

import "regexp"

// UniCredit handles statements from UniCredit Bank.
// Headers read "IZVADAK / IZVOD br: 17" or just "IZVOD br 17".
type UniCredit struct{}

var (
	unicreditStatement = regexp.MustCompile(`(?i)(?:IZVADAK\s*/\s*)?IZVOD\s*br[: ]+(\d{1,6})`)
	unicreditAccount16 = regexp.MustCompile(`\b(\d{16})\b`)
)

func (UniCredit) Name() string { return "unicredit" }

func (UniCredit) ExtractStatementNumber(text string) string {
	return matchNoDot(unicreditStatement, text)
}

func (UniCredit) ExtractAccountNumber(text, subject, filename string) string {
	for _, src := range []string{subject, text, filename} {
		if v := firstMatch(unicreditAccount16, src); v != "" {
			return v
		}
	}
	return ""
}
