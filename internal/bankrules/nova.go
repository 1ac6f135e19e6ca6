package bankrules

import "regexp"

// Nova handles statements from Nova Banka
type Nova struct{}

var (
	novaStatement  = regexp.MustCompile(`(?i)Izvod\s*br\.?\s*(\d+)`)
	novaRacunInSub = regexp.MustCompile(`(?i)racun[: ]*([0-9]{8,})`)
	novaDigitRun   = regexp.MustCompile(`([0-9]{8,})`)
)

func (Nova) Name() string { return "nova" }

func (Nova) ExtractStatementNumber(text string) string {
	return firstMatch(novaStatement, text)
}

func (Nova) ExtractAccountNumber(text, subject, filename string) string {
	if v := firstMatch(novaRacunInSub, subject); v != "" {
		return v
	}
	return firstMatch(novaDigitRun, filename)
}
