// ABOUTME: Narrow Matrix surface the handlers depend on.
// ABOUTME: Wraps the mautrix client so the dispatcher is testable without a homeserver.

package bot

import (
	"context"
	"fmt"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

// Messenger is the slice of the Matrix client the handlers use.
type Messenger interface {
	// SendText sends a plain text message to a room.
	SendText(ctx context.Context, roomID id.RoomID, text string) error

	// SendFile uploads data and sends it to a room as a file attachment with
	// the given filename and caption.
	SendFile(ctx context.Context, roomID id.RoomID, filename, caption string, data []byte, mimeType string) error

	// DownloadBytes fetches the content behind an mxc:// URI.
	DownloadBytes(ctx context.Context, uri id.ContentURI) ([]byte, error)

	// SetTyping toggles the typing indicator in a room.
	SetTyping(ctx context.Context, roomID id.RoomID, typing bool, timeout time.Duration) error
}

// matrixMessenger implements Messenger on a live mautrix client.
type matrixMessenger struct {
	client *mautrix.Client
}

func (m *matrixMessenger) SendText(ctx context.Context, roomID id.RoomID, text string) error {
	_, err := m.client.SendText(ctx, roomID, text)
	return err
}

func (m *matrixMessenger) SendFile(ctx context.Context, roomID id.RoomID, filename, caption string, data []byte, mimeType string) error {
	upload, err := m.client.UploadBytes(ctx, data, mimeType)
	if err != nil {
		return fmt.Errorf("uploading media: %w", err)
	}

	// Body carries the caption; FileName carries the real name.
	content := &event.MessageEventContent{
		MsgType:  event.MsgFile,
		Body:     caption,
		FileName: filename,
		URL:      upload.ContentURI.CUString(),
		Info: &event.FileInfo{
			MimeType: mimeType,
			Size:     len(data),
		},
	}

	_, err = m.client.SendMessageEvent(ctx, roomID, event.EventMessage, content)
	if err != nil {
		return fmt.Errorf("sending file event: %w", err)
	}
	return nil
}

func (m *matrixMessenger) DownloadBytes(ctx context.Context, uri id.ContentURI) ([]byte, error) {
	return m.client.DownloadBytes(ctx, uri)
}

func (m *matrixMessenger) SetTyping(ctx context.Context, roomID id.RoomID, typing bool, timeout time.Duration) error {
	_, err := m.client.UserTyping(ctx, roomID, typing, timeout)
	return err
}
