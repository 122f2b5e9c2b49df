// ABOUTME: Conversion service orchestrating the Word/PDF format libraries.
// ABOUTME: Owns the scratch directory; output names keep the input stem.

package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	docx "github.com/fumiama/go-docx"
	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
)

// Conversion errors.
var (
	// ErrBadExtension means the source filename does not match the selected
	// direction. Always user-correctable.
	ErrBadExtension = errors.New("unsupported file extension")

	// ErrNotFound means the source file vanished between validation and
	// conversion.
	ErrNotFound = errors.New("source file not found")
)

// Service converts documents between Word and PDF formats. All inputs and
// outputs live in a scratch directory created at construction time.
type Service struct {
	scratchDir string
	logger     *slog.Logger
}

// New creates a Service writing into scratchDir, creating the directory
// (mode 0755) if it does not exist.
func New(scratchDir string, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(scratchDir)
	if err != nil {
		return nil, fmt.Errorf("resolving scratch directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}

	logger = logger.With("component", "convert")
	logger.Debug("scratch directory ready", "path", abs)

	return &Service{scratchDir: abs, logger: logger}, nil
}

// ScratchDir returns the directory downloads and outputs are written to.
func (s *Service) ScratchDir() string {
	return s.scratchDir
}

// Convert dispatches to the direction-specific conversion.
func (s *Service) Convert(kind Kind, path string) (string, error) {
	switch kind {
	case KindWordToPDF:
		return s.WordToPDF(path)
	case KindPDFToWord:
		return s.PDFToWord(path)
	default:
		return "", fmt.Errorf("no conversion direction selected")
	}
}

// WordToPDF converts a .doc/.docx file into a PDF in the scratch directory.
// Every non-empty paragraph of the source becomes one text block in the
// output, in document order. Runes outside the 7-bit ASCII range are dropped:
// the bundled PDF core fonts are Latin-only, so non-ASCII text is silently
// lost. This is a known limitation, not a bug.
func (s *Service) WordToPDF(path string) (string, error) {
	if !KindWordToPDF.AcceptsExt(path) {
		return "", fmt.Errorf("%w: %s (want .doc or .docx)", ErrBadExtension, filepath.Ext(path))
	}

	src, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("opening source: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("stat source: %w", err)
	}

	doc, err := docx.Parse(src, info.Size())
	if err != nil {
		return "", fmt.Errorf("reading word document: %w", err)
	}

	out := fpdf.New("P", "mm", "A4", "")
	out.SetAutoPageBreak(true, 15)
	out.AddPage()
	out.SetFont("Helvetica", "", 12)

	blocks := 0
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := para.String()
		if strings.TrimSpace(text) == "" {
			continue
		}
		out.MultiCell(0, 10, asciiOnly(text), "", "", false)
		blocks++
	}

	outPath := s.outputPath(path, KindWordToPDF)
	if err := out.OutputFileAndClose(outPath); err != nil {
		return "", fmt.Errorf("writing pdf: %w", err)
	}

	s.logger.Info("converted word document to pdf",
		"source", filepath.Base(path),
		"output", filepath.Base(outPath),
		"blocks", blocks,
	)
	return outPath, nil
}

// PDFToWord converts a .pdf file into a Word document in the scratch
// directory. Text is extracted across the full page range; layout, images,
// and tables are not carried over.
func (s *Service) PDFToWord(path string) (string, error) {
	if !KindPDFToWord.AcceptsExt(path) {
		return "", fmt.Errorf("%w: %s (want .pdf)", ErrBadExtension, filepath.Ext(path))
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("stat source: %w", err)
	}

	src, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}
	defer src.Close()

	out := docx.New().WithDefaultTheme()

	paragraphs := 0
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extracting text from page %d: %w", n, err)
		}
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			out.AddParagraph().AddText(line)
			paragraphs++
		}
	}

	outPath := s.outputPath(path, KindPDFToWord)
	dst, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating output: %w", err)
	}
	if _, err := out.WriteTo(dst); err != nil {
		dst.Close()
		return "", fmt.Errorf("writing word document: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("closing output: %w", err)
	}

	s.logger.Info("converted pdf to word document",
		"source", filepath.Base(path),
		"output", filepath.Base(outPath),
		"paragraphs", paragraphs,
	)
	return outPath, nil
}

// Cleanup removes a scratch file, logging instead of failing when it cannot.
// A missing file is not an error; cleanup runs on every job exit path.
func (s *Service) Cleanup(path string) {
	if path == "" {
		return
	}
	err := os.Remove(path)
	switch {
	case err == nil:
		s.logger.Debug("removed scratch file", "path", path)
	case errors.Is(err, fs.ErrNotExist):
		// already gone
	default:
		s.logger.Error("failed to remove scratch file", "path", path, "error", err)
	}
}

// outputPath derives the output location from the input stem and the target
// extension. Two concurrent jobs converting same-named files will therefore
// collide in the scratch directory; the delivered filename is part of the
// bot's observable contract, so the stem is kept as-is.
func (s *Service) outputPath(srcPath string, kind Kind) string {
	base := filepath.Base(srcPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(s.scratchDir, stem+kind.TargetExt())
}

// asciiOnly drops every rune at or above 0x80.
func asciiOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	return b.String()
}
