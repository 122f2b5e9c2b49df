// ABOUTME: Shared test fixtures for the bot package.
// ABOUTME: Provides a recording Messenger fake and a Bot wired to in-memory collaborators.

package bot

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	docx "github.com/fumiama/go-docx"
	"github.com/stretchr/testify/require"
	"maunium.net/go/mautrix/id"

	"github.com/2389/folio/internal/config"
	"github.com/2389/folio/internal/convert"
	"github.com/2389/folio/internal/dedupe"
	"github.com/2389/folio/internal/store"
)

const testRoom = id.RoomID("!room:example.org")
const testSender = id.UserID("@alice:example.org")

type sentFile struct {
	filename string
	caption  string
	data     []byte
	mimeType string
}

// mockMessenger records outbound traffic and serves canned downloads.
type mockMessenger struct {
	texts         []string
	files         []sentFile
	downloadData  []byte
	downloadErr   error
	downloadCalls int
	sendFileErr   error
}

func (m *mockMessenger) SendText(_ context.Context, _ id.RoomID, text string) error {
	m.texts = append(m.texts, text)
	return nil
}

func (m *mockMessenger) SendFile(_ context.Context, _ id.RoomID, filename, caption string, data []byte, mimeType string) error {
	if m.sendFileErr != nil {
		return m.sendFileErr
	}
	m.files = append(m.files, sentFile{filename: filename, caption: caption, data: data, mimeType: mimeType})
	return nil
}

func (m *mockMessenger) DownloadBytes(_ context.Context, _ id.ContentURI) ([]byte, error) {
	m.downloadCalls++
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	return m.downloadData, nil
}

func (m *mockMessenger) SetTyping(_ context.Context, _ id.RoomID, _ bool, _ time.Duration) error {
	return nil
}

// lastText returns the most recent text reply, or "" if none was sent.
func (m *mockMessenger) lastText() string {
	if len(m.texts) == 0 {
		return ""
	}
	return m.texts[len(m.texts)-1]
}

// newTestBot builds a Bot with in-memory collaborators and a real conversion
// service writing into a per-test scratch directory.
func newTestBot(t *testing.T) (*Bot, *mockMessenger, *store.MemoryStore) {
	t.Helper()

	converter, err := convert.New(filepath.Join(t.TempDir(), "temp"), nil)
	require.NoError(t, err)

	messenger := &mockMessenger{}
	st := store.NewMemoryStore()

	b := &Bot{
		config: &config.Config{
			Matrix: config.MatrixConfig{
				Homeserver: "https://matrix.example.org",
				UserID:     "@folio:example.org",
			},
		},
		messenger: messenger,
		store:     st,
		converter: converter,
		recent:    dedupe.New(time.Minute, 64),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return b, messenger, st
}

// docxBytes builds an in-memory Word document with the given paragraphs.
func docxBytes(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	doc := docx.New().WithDefaultTheme()
	for _, p := range paragraphs {
		doc.AddParagraph().AddText(p)
	}

	var buf bytes.Buffer
	_, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}
