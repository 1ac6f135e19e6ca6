package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaleksandraa/wizBank/internal/bankrules"
)

func newTestEngine() *Engine {
	return NewEngine(bankrules.NewRegistry())
}

func TestNormalizeText(t *testing.T) {
	in := "IZVOD   BR.\t\t205\nSaldo:    1.234,56"
	assert.Equal(t, "IZVOD BR. 205\nSaldo: 1.234,56", NormalizeText(in))
}

func TestExtractBankSpecificStatementNumber(t *testing.T) {
	e := newTestEngine()
	res := e.Extract("back.office@atosbank.ba", "", "", "IZVOD BR. 205")
	assert.Equal(t, "205", res.StatementNumber)
}

func TestExtractGenericStatementNumber(t *testing.T) {
	e := newTestEngine()
	res := e.Extract("nobody@example.com", "", "", "Izvod broj: 42")
	assert.Equal(t, "42", res.StatementNumber)
}

func TestBankSpecificWinsOverGeneric(t *testing.T) {
	e := newTestEngine()
	text := "IZVOD BR. 7\nIzvod broj: 99"
	res := e.Extract("back.office@atosbank.ba", "", "", text)
	assert.Equal(t, "7", res.StatementNumber)
}

func TestFallbackStatementNumberRejectsYearLike(t *testing.T) {
	e := newTestEngine()

	// The Atos pattern misses, engine fallback matches "Statement No" but
	// a "20"-prefixed candidate is treated as a year fragment.
	res := e.Extract("back.office@atosbank.ba", "", "", "Statement No: 2024")
	assert.Equal(t, "", res.StatementNumber)

	res = e.Extract("back.office@atosbank.ba", "", "", "Statement No: 123")
	assert.Equal(t, "123", res.StatementNumber)

	// Seven and more digits are rejected too.
	res = e.Extract("back.office@atosbank.ba", "", "", "Statement No: 1234567")
	assert.Equal(t, "", res.StatementNumber)
}

func TestExtractAccountNumberFromSubject(t *testing.T) {
	e := newTestEngine()
	res := e.Extract("nobody@example.com", "Izvod 5676510000114506 za maj", "izvod.pdf", "no digits in text")
	assert.Equal(t, "5676510000114506", res.AccountNumber)
}

func TestFallbackAccountLabeledHeader(t *testing.T) {
	e := newTestEngine()

	// No word boundary around the digits, so the plain formats miss and the
	// labeled IBAN pattern in the header window resolves it.
	text := "IBAN:BA395676510000114506"
	res := e.Extract("nobody@example.com", "", "", text)
	assert.Equal(t, "5676510000114506", res.AccountNumber)
}

func TestExtractDate(t *testing.T) {
	assert.Equal(t, "2024-12-31", ExtractDate("Datum: 31.12.2024"))
	assert.Equal(t, "2024-01-05", ExtractDate("stanje na dan 5/1/2024"))
	assert.Equal(t, "", ExtractDate("Datum: 45.13.2024"), "invalid day and month rejected")
	assert.Equal(t, "", ExtractDate(""))

	// Only the first 40 lines are scanned.
	deep := strings.Repeat("x\n", 45) + "Datum: 31.12.2024"
	assert.Equal(t, "", ExtractDate(deep))
}

func TestExtractBalance(t *testing.T) {
	b := ExtractBalance("Novo stanje: 12.345,67")
	require.NotNil(t, b)
	assert.InDelta(t, 12345.67, *b, 0.001)

	b = ExtractBalance("Saldo: 500,00")
	require.NotNil(t, b)
	assert.InDelta(t, 500.0, *b, 0.001)

	assert.Nil(t, ExtractBalance("no amounts here"))
	assert.Nil(t, ExtractBalance(""))
}

func TestExtractCurrency(t *testing.T) {
	assert.Equal(t, "EUR", ExtractCurrency("Valuta: EUR"))
	assert.Equal(t, "BAM", ExtractCurrency("Valuta: BAM i EUR")) // fixed scan order, BAM first
	assert.Equal(t, "BAM", ExtractCurrency("nothing"), "regional default")
	assert.Equal(t, "BAM", ExtractCurrency(""))
	assert.Equal(t, "BAM", ExtractCurrency("EUROPA doo Sarajevo"), "whole-word match only")
}

func TestExtractToleratesEmptyInput(t *testing.T) {
	e := newTestEngine()
	res := e.Extract("", "", "", "")
	assert.Empty(t, res.StatementNumber)
	assert.Empty(t, res.AccountNumber)
	assert.Empty(t, res.Date)
	assert.Nil(t, res.Balance)
	assert.Equal(t, DefaultCurrency, res.Currency)
}
