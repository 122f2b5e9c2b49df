// ABOUTME: Conversion direction as a closed tagged variant.
// ABOUTME: Selection tokens from the chat surface parse into a Kind exactly once.

package convert

import (
	"path/filepath"
	"strings"
)

// Kind identifies a conversion direction. The zero value means no direction
// has been selected yet.
type Kind int

const (
	KindUnset Kind = iota
	KindWordToPDF
	KindPDFToWord
)

// Selection tokens as they appear on the wire (menu replies, stored state).
const (
	TokenWordToPDF = "word_to_pdf"
	TokenPDFToWord = "pdf_to_word"
)

// ParseKind maps a selection token to its Kind. Unknown tokens (including
// the empty string) map to KindUnset.
func ParseKind(token string) Kind {
	switch token {
	case TokenWordToPDF:
		return KindWordToPDF
	case TokenPDFToWord:
		return KindPDFToWord
	default:
		return KindUnset
	}
}

// Token returns the wire token for the kind, or "" for KindUnset.
func (k Kind) Token() string {
	switch k {
	case KindWordToPDF:
		return TokenWordToPDF
	case KindPDFToWord:
		return TokenPDFToWord
	default:
		return ""
	}
}

// String returns the wire token, or "unset" for the zero value. Used in logs.
func (k Kind) String() string {
	if k == KindUnset {
		return "unset"
	}
	return k.Token()
}

// AcceptsExt reports whether the filename's extension is a valid source for
// this direction. The comparison is case-insensitive.
func (k Kind) AcceptsExt(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	switch k {
	case KindWordToPDF:
		return ext == ".doc" || ext == ".docx"
	case KindPDFToWord:
		return ext == ".pdf"
	default:
		return false
	}
}

// TargetExt returns the extension of the file this direction produces.
func (k Kind) TargetExt() string {
	switch k {
	case KindWordToPDF:
		return ".pdf"
	case KindPDFToWord:
		return ".docx"
	default:
		return ""
	}
}
