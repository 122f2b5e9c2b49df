// ABOUTME: Tests for the conversion service using real format libraries.
// ABOUTME: Covers validation errors, paragraph ordering, ASCII stripping, and cleanup.

package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	docx "github.com/fumiama/go-docx"
	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(filepath.Join(t.TempDir(), "temp"), nil)
	require.NoError(t, err)
	return svc
}

// writeSampleDocx creates a Word document with the given paragraphs in the
// service's scratch directory and returns its path.
func writeSampleDocx(t *testing.T, svc *Service, name string, paragraphs []string) string {
	t.Helper()

	doc := docx.New().WithDefaultTheme()
	for _, p := range paragraphs {
		doc.AddParagraph().AddText(p)
	}

	path := filepath.Join(svc.ScratchDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = doc.WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

// writeSamplePDF creates a PDF with one text block per line in the service's
// scratch directory and returns its path.
func writeSamplePDF(t *testing.T, svc *Service, name string, lines []string) string {
	t.Helper()

	out := fpdf.New("P", "mm", "A4", "")
	out.AddPage()
	out.SetFont("Helvetica", "", 12)
	for _, line := range lines {
		out.MultiCell(0, 10, line, "", "", false)
	}

	path := filepath.Join(svc.ScratchDir(), name)
	require.NoError(t, out.OutputFileAndClose(path))
	return path
}

// extractPDFText returns all text of a PDF concatenated in document order.
func extractPDFText(t *testing.T, path string) string {
	t.Helper()

	f, reader, err := pdf.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var b strings.Builder
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		require.NoError(t, err)
		b.WriteString(text)
	}
	return b.String()
}

func TestService_New_CreatesScratchDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "temp")
	svc, err := New(dir, nil)
	require.NoError(t, err)

	info, err := os.Stat(svc.ScratchDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestService_WordToPDF_ParagraphOrder(t *testing.T) {
	svc := newTestService(t)

	paragraphs := []string{
		"This is a test document.",
		"It contains multiple paragraphs.",
		"Used for testing file conversion.",
	}
	src := writeSampleDocx(t, svc, "test_document.docx", paragraphs)

	outPath, err := svc.WordToPDF(src)
	require.NoError(t, err)
	assert.Equal(t, "test_document.pdf", filepath.Base(outPath))

	text := extractPDFText(t, outPath)
	prev := -1
	for _, p := range paragraphs {
		idx := strings.Index(text, p)
		require.GreaterOrEqual(t, idx, 0, "missing paragraph %q", p)
		assert.Greater(t, idx, prev, "paragraph %q out of order", p)
		prev = idx
	}
}

func TestService_WordToPDF_SkipsEmptyParagraphs(t *testing.T) {
	svc := newTestService(t)

	src := writeSampleDocx(t, svc, "gaps.docx", []string{
		"First.",
		"",
		"   ",
		"Last.",
	})

	outPath, err := svc.WordToPDF(src)
	require.NoError(t, err)

	text := extractPDFText(t, outPath)
	assert.Contains(t, text, "First.")
	assert.Contains(t, text, "Last.")
}

func TestService_WordToPDF_StripsNonASCII(t *testing.T) {
	svc := newTestService(t)

	src := writeSampleDocx(t, svc, "resume.docx", []string{
		"my résumé from the café",
	})

	outPath, err := svc.WordToPDF(src)
	require.NoError(t, err)

	text := extractPDFText(t, outPath)
	assert.Contains(t, text, "my rsum from the caf")
	assert.NotContains(t, text, "é")
}

func TestService_WordToPDF_BadExtension(t *testing.T) {
	svc := newTestService(t)

	path := filepath.Join(svc.ScratchDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := svc.WordToPDF(path)
	assert.ErrorIs(t, err, ErrBadExtension)
}

func TestService_WordToPDF_Missing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.WordToPDF(filepath.Join(svc.ScratchDir(), "ghost.docx"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_PDFToWord_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	src := writeSamplePDF(t, svc, "test_document.pdf", []string{
		"This is a test PDF document.",
		"Created for testing file conversion.",
	})

	outPath, err := svc.PDFToWord(src)
	require.NoError(t, err)
	assert.Equal(t, "test_document.docx", filepath.Base(outPath))

	// The output must be a parseable Word document carrying the source text.
	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	info, err := f.Stat()
	require.NoError(t, err)

	doc, err := docx.Parse(f, info.Size())
	require.NoError(t, err)

	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		if para, ok := item.(*docx.Paragraph); ok {
			b.WriteString(para.String())
		}
	}
	assert.Contains(t, b.String(), "This is a test PDF document.")
}

func TestService_PDFToWord_BadExtension(t *testing.T) {
	svc := newTestService(t)

	path := filepath.Join(svc.ScratchDir(), "report.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := svc.PDFToWord(path)
	assert.ErrorIs(t, err, ErrBadExtension)
}

func TestService_PDFToWord_Missing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.PDFToWord(filepath.Join(svc.ScratchDir(), "ghost.pdf"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Convert_Unset(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Convert(KindUnset, "anything.docx")
	assert.Error(t, err)
}

func TestService_Cleanup(t *testing.T) {
	svc := newTestService(t)

	path := filepath.Join(svc.ScratchDir(), "leftover.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	svc.Cleanup(path)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// A second cleanup of the same path must be a no-op.
	svc.Cleanup(path)
	svc.Cleanup("")
}

func TestService_OutputNameKeepsInputStem(t *testing.T) {
	svc := newTestService(t)

	// Same-named inputs map to the same output path; the stem-derived name is
	// the delivered filename and is deliberately not namespaced per job.
	a := svc.outputPath("/downloads/report.docx", KindWordToPDF)
	b := svc.outputPath("/elsewhere/report.docx", KindWordToPDF)
	assert.Equal(t, a, b)
	assert.Equal(t, "report.pdf", filepath.Base(a))
}
