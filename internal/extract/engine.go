// Package extract pulls identifying metadata out of unstructured statement
// text. Every pass is a best-effort heuristic over an ordered fallback chain;
// a miss yields "no value", never an error.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aaleksandraa/wizBank/internal/bankrules"
)

// Result holds everything the engine could extract. Empty strings and a nil
// balance mean the corresponding pass found nothing.
type Result struct {
	AccountNumber   string
	StatementNumber string
	Date            string // YYYY-MM-DD
	Balance         *float64
	Currency        string
}

// Engine runs bank-specific extraction with generic fallbacks
type Engine struct {
	registry *bankrules.Registry
}

// NewEngine creates an engine over the given strategy registry
func NewEngine(registry *bankrules.Registry) *Engine {
	return &Engine{registry: registry}
}

var spaceRuns = regexp.MustCompile(`[ \t]+`)

// NormalizeText collapses runs of spaces and tabs to single spaces,
// preserving line structure. PDF extraction pads columns with whitespace
// that would otherwise break the label patterns.
func NormalizeText(s string) string {
	return spaceRuns.ReplaceAllString(s, " ")
}

// Extract runs all passes. Each pass is independent; a failure in one never
// affects the others.
func (e *Engine) Extract(sender, subject, filename, text string) Result {
	strategy := e.registry.Resolve(sender)

	res := Result{
		StatementNumber: e.statementNumber(strategy, text),
		AccountNumber:   e.accountNumber(strategy, text, subject, filename),
		Date:            ExtractDate(text),
		Balance:         ExtractBalance(text),
		Currency:        ExtractCurrency(text),
	}
	return res
}

// generic statement-number fallback, applied to the document header only
var fallbackStatementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Izvod\s+broj[:\s]+(\d+)`),
	regexp.MustCompile(`(?i)IZVOD\s+(?:BROJ|BR)[.:\s]+(\d+)`),
	regexp.MustCompile(`(?i)Statement\s+(?:No|Number)[.:\s]+(\d+)`),
	regexp.MustCompile(`(?i)Kontoauszug\s+Nr[.:\s]+(\d+)`),
	regexp.MustCompile(`(?i)IZVOD[^0-9]{0,10}(\d+)`),
}

// statementNumber tries the bank-specific pattern on the full text, then the
// generic patterns on the first 60 lines.
func (e *Engine) statementNumber(strategy bankrules.Strategy, text string) string {
	if v := strategy.ExtractStatementNumber(text); v != "" {
		return v
	}
	if text == "" {
		return ""
	}

	head := headLines(text, 60)
	for _, re := range fallbackStatementPatterns {
		m := re.FindStringSubmatch(head)
		if len(m) < 2 {
			continue
		}
		if v := m[1]; plausibleStatementNumber(v) {
			return v
		}
	}
	return ""
}

// plausibleStatementNumber filters out year-like candidates. Statement
// numbers observed in the wild are short counters; anything starting with
// "20" or longer than six digits is far more likely a date fragment.
// Known to misfire on a genuine statement number like "2024" — tuned to
// observed documents, not a correctness guarantee.
func plausibleStatementNumber(v string) bool {
	return len(v) <= 6 && !strings.HasPrefix(v, "20")
}

var (
	fallbackAccount16     = regexp.MustCompile(`\b(\d{16})\b`)
	fallbackAccountDashed = regexp.MustCompile(`\b(\d{3}-\d{3}-\d{8}-\d{2})\b`)
	fallbackAccountLoose  = regexp.MustCompile(`\b(\d{3}-\d{8,})\b`)

	// labeled header patterns, checked against the first 100 lines only
	fallbackAccountLabeled = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Ra[čc]un[:\s]+(\d{16})`),
		regexp.MustCompile(`(?i)Ra[čc]un[:\s]+(\d{3}-\d{3}-\d{8}-\d{2})`),
		regexp.MustCompile(`(?i)Account[:\s]+(\d{16})`),
		regexp.MustCompile(`(?i)Konto[:\s]+(\d{16})`),
		regexp.MustCompile(`(?i)IBAN[:\s]*BA\d+\s*(\d{16})`),
	}
)

// accountNumber tries the bank-specific strategy, then generic digit formats
// across text, subject and filename, then labeled header patterns.
func (e *Engine) accountNumber(strategy bankrules.Strategy, text, subject, filename string) string {
	if v := strategy.ExtractAccountNumber(text, subject, filename); v != "" {
		return v
	}

	for _, src := range []string{text, subject, filename} {
		if src == "" {
			continue
		}
		for _, re := range []*regexp.Regexp{fallbackAccount16, fallbackAccountDashed, fallbackAccountLoose} {
			if m := re.FindStringSubmatch(src); len(m) > 1 {
				return m[1]
			}
		}
	}

	if text != "" {
		head := headLines(text, 100)
		for _, re := range fallbackAccountLabeled {
			if m := re.FindStringSubmatch(head); len(m) > 1 {
				return m[1]
			}
		}
	}
	return ""
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Datum[:\s]+(\d{1,2})[.\-/](\d{1,2})[.\-/](\d{4})`),
	regexp.MustCompile(`(?i)Date[:\s]+(\d{1,2})[.\-/](\d{1,2})[.\-/](\d{4})`),
	regexp.MustCompile(`(\d{1,2})[.\-/](\d{1,2})[.\-/](\d{4})`),
}

// ExtractDate scans the first 40 lines for a statement date and returns it
// normalized to YYYY-MM-DD. Labeled dates win over bare ones.
func ExtractDate(text string) string {
	if text == "" {
		return ""
	}
	head := headLines(text, 40)

	for _, re := range datePatterns {
		m := re.FindStringSubmatch(head)
		if len(m) < 4 {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if day >= 1 && day <= 31 && month >= 1 && month <= 12 && year >= 2000 && year <= 2100 {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		}
	}
	return ""
}

var balancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Saldo[:\s]+([0-9.,]+)`),
	regexp.MustCompile(`(?i)Balance[:\s]+([0-9.,]+)`),
	regexp.MustCompile(`(?i)Stanje[:\s]+([0-9.,]+)`),
	regexp.MustCompile(`(?i)Novo stanje[:\s]+([0-9.,]+)`),
	regexp.MustCompile(`(?i)Ending Balance[:\s]+([0-9.,]+)`),
}

// ExtractBalance scans the last 50 lines for a labeled closing balance.
// Amounts use continental notation: "." separates thousands, "," decimals.
func ExtractBalance(text string) *float64 {
	if text == "" {
		return nil
	}
	tail := tailLines(text, 50)

	for _, re := range balancePatterns {
		m := re.FindStringSubmatch(tail)
		if len(m) < 2 {
			continue
		}
		normalized := strings.ReplaceAll(m[1], ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
		if amount, err := strconv.ParseFloat(normalized, 64); err == nil {
			return &amount
		}
	}
	return nil
}

// DefaultCurrency is assumed when no currency code appears in the header
const DefaultCurrency = "BAM"

var currencyCodes = []string{"BAM", "EUR", "USD", "CHF", "GBP", "RSD"}

var currencyPatterns = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(currencyCodes))
	for _, code := range currencyCodes {
		out[code] = regexp.MustCompile(`(?i)\b` + code + `\b`)
	}
	return out
}()

// ExtractCurrency scans the first 50 lines for a known currency code
func ExtractCurrency(text string) string {
	if text == "" {
		return DefaultCurrency
	}
	head := headLines(text, 50)
	for _, code := range currencyCodes {
		if currencyPatterns[code].MatchString(head) {
			return code
		}
	}
	return DefaultCurrency
}

func headLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func tailLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
