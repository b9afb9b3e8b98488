package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFText extracts whitespace-normalized text from PDF bytes. maxPages
// bounds the work for large documents; <= 0 means all pages. Pages that
// fail to decode are skipped, matching the forgiving behavior needed for
// the uneven PDFs that mirrors serve.
func PDFText(data []byte, maxPages int) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	if maxPages <= 0 || maxPages > reader.NumPage() {
		maxPages = reader.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return NormalizeWhitespace(builder.String()), nil
}

// LooksLikePDF reports whether a payload starts with the PDF magic bytes.
// Mirror tiers use this to reject HTML error pages served with a .pdf URL.
func LooksLikePDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
