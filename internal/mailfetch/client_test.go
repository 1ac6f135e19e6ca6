package mailfetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF("izvod.pdf", ""))
	assert.True(t, isPDF("IZVOD_205.PDF", "application/octet-stream"))
	assert.True(t, isPDF("", "application/pdf"))
	assert.True(t, isPDF("noext", "Application/PDF"))

	assert.False(t, isPDF("izvod.zip", ""))
	assert.False(t, isPDF("izvod.pdf.exe", "application/x-dosexec"))
	assert.False(t, isPDF("", ""))
}
