package pdftext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextRejectsGarbage(t *testing.T) {
	c := NewConverter()

	_, err := c.Text([]byte("not a pdf at all"))
	assert.Error(t, err)

	_, err = c.Text(nil)
	assert.Error(t, err)
}

func TestTextRejectsTruncatedHeader(t *testing.T) {
	c := NewConverter()
	_, err := c.Text([]byte("%PDF-1.4\n"))
	assert.Error(t, err)
}

func TestIsReadable(t *testing.T) {
	assert.False(t, isReadable(""), "empty")
	assert.False(t, isReadable("IZVOD BR. 205"), "too short")

	statement := strings.Repeat("Stanje racuna: 1.234,56 BAM na dan 31.12.2024\n", 3)
	assert.True(t, isReadable(statement))

	local := "Izvod sa računa broj 5675431100009685, novčana sredstva uplaćena " +
		"po osnovu uplata i isplata u toku obračunskog perioda"
	assert.True(t, isReadable(local), "regional diacritics count as readable")

	garbage := strings.Repeat("", 30)
	assert.False(t, isReadable(garbage), "identity-encoded font output rejected")
}
