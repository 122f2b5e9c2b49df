// ABOUTME: Tests for the Kind tagged variant and token parsing.
// ABOUTME: Covers token round-trips, extension acceptance, and target extensions.

package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		token string
		want  Kind
	}{
		{"word_to_pdf", KindWordToPDF},
		{"pdf_to_word", KindPDFToWord},
		{"", KindUnset},
		{"word_to_pdf ", KindUnset},
		{"WORD_TO_PDF", KindUnset},
		{"docx_to_pdf", KindUnset},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseKind(tt.token), "token %q", tt.token)
	}
}

func TestKind_TokenRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindWordToPDF, KindPDFToWord} {
		assert.Equal(t, k, ParseKind(k.Token()))
	}
	assert.Equal(t, "", KindUnset.Token())
	assert.Equal(t, "unset", KindUnset.String())
}

func TestKind_AcceptsExt(t *testing.T) {
	tests := []struct {
		kind     Kind
		filename string
		want     bool
	}{
		{KindWordToPDF, "report.docx", true},
		{KindWordToPDF, "report.doc", true},
		{KindWordToPDF, "REPORT.DOCX", true},
		{KindWordToPDF, "report.pdf", false},
		{KindWordToPDF, "report", false},
		{KindPDFToWord, "report.pdf", true},
		{KindPDFToWord, "Report.PDF", true},
		{KindPDFToWord, "report.docx", false},
		{KindPDFToWord, "", false},
		{KindUnset, "report.docx", false},
		{KindUnset, "report.pdf", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.AcceptsExt(tt.filename),
			"%s accepts %q", tt.kind, tt.filename)
	}
}

func TestKind_TargetExt(t *testing.T) {
	assert.Equal(t, ".pdf", KindWordToPDF.TargetExt())
	assert.Equal(t, ".docx", KindPDFToWord.TargetExt())
	assert.Equal(t, "", KindUnset.TargetExt())
}
