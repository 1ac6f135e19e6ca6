// Package pdftext converts PDF attachment bytes to plain text.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Converter extracts text from PDF statements. Row-based extraction is tried
// first for layout fidelity, then whole-document plain text; output that is
// mostly undecodable glyphs is rejected so scanned or custom-font documents
// fail into the caller's error path instead of producing garbage matches.
type Converter struct{}

// NewConverter returns a ready converter
func NewConverter() *Converter {
	return &Converter{}
}

// Text extracts the text of every page, joined with newlines
func (c *Converter) Text(data []byte) (text string, err error) {
	// The pdf library panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parsing crashed: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	if reader.NumPage() == 0 {
		return "", fmt.Errorf("pdf has no pages")
	}

	if text := extractByRow(reader); isReadable(text) {
		return text, nil
	}
	if text := extractPlainText(reader); isReadable(text) {
		return text, nil
	}

	return "", fmt.Errorf("no readable text could be extracted; the document may be scanned or use custom font encodings")
}

func extractByRow(r *pdf.Reader) string {
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return strings.Join(pages, "\n")
}

func extractPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// isReadable requires a minimum amount of text and a majority of plainly
// decodable characters. Identity-encoded fonts decode into letter-dense
// garbage, so the check counts ASCII and common punctuation only.
func isReadable(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= 50 {
		return false
	}

	total, readable := 0, 0
	for _, r := range trimmed {
		total++
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			readable++
		case unicode.IsSpace(r):
			readable++
		case strings.ContainsRune(`.,-/:;()'"%&@#!?+=*`, r):
			readable++
		case r == 'č' || r == 'ć' || r == 'š' || r == 'ž' || r == 'đ' ||
			r == 'Č' || r == 'Ć' || r == 'Š' || r == 'Ž' || r == 'Đ':
			// local statements are full of these
			readable++
		}
	}
	return total > 0 && float64(readable)/float64(total) > 0.6
}
