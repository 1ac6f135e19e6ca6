package bankrules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveKnownSenders(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		sender string
		want   string
	}{
		{"back.office@atosbank.ba", "atos"},
		{"BACK.OFFICE@ATOSBANK.BA", "atos"},
		{"Izvodi <back.office@atosbank.ba>", "atos"},
		{"homebank@nlb-rs.ba", "nlb_rs"},
		{"info.rbbh@rbbh.ba", "rbbh"},
		{"izvodi.pravne@unicreditgroup.ba", "unicredit"},
		{"izvodi@asabanka.ba", "asa"},
		{"izvodi@sparkasse.ba", "sparkasse"},
		{"novabanka-eizvodi@novabanka.com", "nova"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Resolve(tt.sender).Name(), "sender %q", tt.sender)
	}
}

func TestResolveFallsBackToGeneric(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, "generic", r.Resolve("").Name())
	assert.Equal(t, "generic", r.Resolve("  ").Name())
	assert.Equal(t, "generic", r.Resolve("someone@example.com").Name())
}

func TestResolveFirstMatchWins(t *testing.T) {
	r := NewRegistry()

	// Both keys present: registration order decides.
	sender := "homebank@nlb-rs.ba forwarded-for izvodi@asabanka.ba"
	assert.Equal(t, "nlb_rs", r.Resolve(sender).Name())
}

func TestAtosStatementNumber(t *testing.T) {
	assert.Equal(t, "205", Atos{}.ExtractStatementNumber("IZVOD BR. 205"))
	assert.Equal(t, "12", Atos{}.ExtractStatementNumber("Izvod br. 12"))
	assert.Equal(t, "", Atos{}.ExtractStatementNumber("nothing here"))
	assert.Equal(t, "", Atos{}.ExtractStatementNumber(""))
}

func TestAtosAccountNumberSourceOrder(t *testing.T) {
	got := Atos{}.ExtractAccountNumber("99999999", "5675431100009685", "11111111.pdf")
	assert.Equal(t, "5675431100009685", got, "subject wins over text and filename")

	got = Atos{}.ExtractAccountNumber("99999999", "no digits", "11111111.pdf")
	assert.Equal(t, "99999999", got, "text wins over filename")
}

func TestASAExtraction(t *testing.T) {
	assert.Equal(t, "7", ASA{}.ExtractStatementNumber("IZVOD BROJ: 7"))
	assert.Equal(t, "567-651-00001145-06", ASA{}.ExtractAccountNumber("Račun: 567-651-00001145-06", "", ""))
	assert.Equal(t, "12345678", ASA{}.ExtractAccountNumber("", "", "izvod_12345678.pdf"))
}

func TestNLBRSStatementNumber(t *testing.T) {
	s := NLBRS{}
	assert.Equal(t, "17", s.ExtractStatementNumber("Customer advice number: 17"))
	assert.Equal(t, "3", s.ExtractStatementNumber("Izvod: 3 za period"))

	// Digits followed by a dot belong to a date, not a statement number.
	assert.Equal(t, "", s.ExtractStatementNumber("Izvod: 12.05.2024"))
}

func TestNLBRSAccountFromSubject(t *testing.T) {
	got := NLBRS{}.ExtractAccountNumber("", "Izvod za partiju 562-099-00001234-77", "")
	assert.Equal(t, "562-099-00001234-77", got)
}

func TestRBBHChecksFilenameFirst(t *testing.T) {
	got := RBBH{}.ExtractAccountNumber("1111222233334444", "", "5555666677778888.pdf")
	assert.Equal(t, "5555666677778888", got)
}

func TestUniCreditStatementNumber(t *testing.T) {
	assert.Equal(t, "44", UniCredit{}.ExtractStatementNumber("IZVADAK / IZVOD br: 44"))
	assert.Equal(t, "44", UniCredit{}.ExtractStatementNumber("izvod br 44"))
}

func TestSparkasseStatementNumber(t *testing.T) {
	assert.Equal(t, "9", Sparkasse{}.ExtractStatementNumber("Kontoauszug Nr. 9"))
}

func TestNovaExtraction(t *testing.T) {
	assert.Equal(t, "31", Nova{}.ExtractStatementNumber("Izvod br. 31"))
	assert.Equal(t, "55501234", Nova{}.ExtractAccountNumber("", "izvod za racun: 55501234", ""))
}

func TestGenericStatementNumberHeaderOnly(t *testing.T) {
	g := Generic{}
	assert.Equal(t, "42", g.ExtractStatementNumber("Izvod broj: 42"))

	// Statement identifier past the 60-line header window is ignored.
	deep := ""
	for i := 0; i < 70; i++ {
		deep += "filler line\n"
	}
	deep += "Izvod broj: 42"
	assert.Equal(t, "", g.ExtractStatementNumber(deep))
}

func TestGenericAccountNumber(t *testing.T) {
	g := Generic{}
	assert.Equal(t, "5676510000114506", g.ExtractAccountNumber("", "uplata 5676510000114506 za maj", ""))
	assert.Equal(t, "567-651-00001145-06", g.ExtractAccountNumber("racun 567-651-00001145-06", "", ""))
	assert.Equal(t, "", g.ExtractAccountNumber("", "", ""))
}
