// ABOUTME: Transfer pipeline for uploaded documents: validate, download, convert, reply.
// ABOUTME: Scratch files are removed on every exit path once a transfer starts.

package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/2389/folio/internal/convert"
	"github.com/2389/folio/internal/store"
)

// maxFileBytes is the upload size cap (20 MiB). Larger files are rejected
// before any download happens.
const maxFileBytes = 20 * 1024 * 1024

// Validation replies. These are user-correctable, so they name the problem.
const (
	selectFirstMessage = "❌ Please use /start first to select a conversion type."

	missingNameMessage = "❌ The file must have a valid name with the correct extension (.doc, .docx, or .pdf)."

	wrongExtWordMessage = "❌ For Word to PDF conversion, please send a valid Word document.\n" +
		"Supported formats: .doc or .docx"

	wrongExtPDFMessage = "❌ For PDF to Word conversion, please send a valid PDF file.\n" +
		"Supported format: .pdf"

	tooLargeMessage = "❌ File is too large. Maximum file size is 20 MiB."

	convertingMessage = "⚙️ Converting your file... Please wait."

	// Failures past validation are not user-correctable; details go to the
	// log only.
	retryMessage = "❌ Error: the file could not be processed. Please try uploading again."

	wrongContentMessage = "❌ Error: the file content does not match the selected conversion.\n" +
		"Please make sure you're sending the correct file type."

	genericFailureMessage = "❌ Sorry, there was an error processing your file. Please try again."
)

// handleDocument runs the validation state machine and, when the upload
// passes, the transfer itself. Validation failures leave the room's
// selection untouched so the user can immediately retry with a fixed file.
func (b *Bot) handleDocument(ctx context.Context, roomID id.RoomID, sender id.UserID, content *event.MessageEventContent) {
	room := roomID.String()

	kind, err := b.store.Selection(ctx, room)
	if err != nil {
		b.logger.Error("failed to read selection", "room", room, "error", err)
		b.reply(ctx, roomID, genericFailureMessage)
		return
	}
	if kind == convert.KindUnset {
		b.reply(ctx, roomID, selectFirstMessage)
		return
	}

	filename := content.FileName
	if filename == "" {
		filename = content.Body
	}
	var size int
	if content.Info != nil {
		size = content.Info.Size
	}

	b.logger.Info("received document",
		"room", room,
		"sender", sender.String(),
		"file", filename,
		"size", size,
		"kind", kind.String(),
	)

	// Validation, in order: name, extension, size. All before any download.
	if filename == "" {
		b.reply(ctx, roomID, missingNameMessage)
		return
	}
	if !kind.AcceptsExt(filename) {
		switch kind {
		case convert.KindWordToPDF:
			b.reply(ctx, roomID, wrongExtWordMessage)
		case convert.KindPDFToWord:
			b.reply(ctx, roomID, wrongExtPDFMessage)
		}
		return
	}
	if size > maxFileBytes {
		b.reply(ctx, roomID, tooLargeMessage)
		return
	}

	uri, err := content.URL.Parse()
	if err != nil {
		b.logger.Error("document event carries invalid content URI",
			"room", room, "url", string(content.URL), "error", err)
		b.reply(ctx, roomID, genericFailureMessage)
		return
	}

	job := &store.Job{
		ID:        uuid.New().String(),
		RoomID:    room,
		Filename:  filename,
		Kind:      kind,
		Status:    store.JobStatusConverting,
		CreatedAt: time.Now().UTC(),
	}
	// The ledger is an audit trail; a write failure must not block the transfer.
	if err := b.store.RecordJob(ctx, job); err != nil {
		b.logger.Warn("failed to record job", "job", job.ID, "error", err)
	}

	if b.config.Bot.TypingIndicator {
		b.setTyping(roomID, true)
		defer b.setTyping(roomID, false)
	}

	b.reply(ctx, roomID, convertingMessage)

	if err := b.runTransfer(ctx, roomID, job, uri); err != nil {
		b.logger.Error("transfer failed",
			"job", job.ID, "room", room, "file", filename, "error", err)
		b.finishJob(ctx, job.ID, store.JobStatusFailed, err.Error())
		b.reply(ctx, roomID, failureMessage(err))
		return
	}

	b.logger.Info("transfer complete", "job", job.ID, "room", room, "file", filename)
	b.finishJob(ctx, job.ID, store.JobStatusDone, "")
	// The selection is deliberately not cleared: a second upload in the same
	// room repeats the last conversion.
}

// runTransfer downloads the document, converts it, and sends the result
// back. Both scratch files are removed before it returns, whichever branch
// ran.
func (b *Bot) runTransfer(ctx context.Context, roomID id.RoomID, job *store.Job, uri id.ContentURI) error {
	data, err := b.messenger.DownloadBytes(ctx, uri)
	if err != nil {
		return fmt.Errorf("downloading document: %w", err)
	}

	srcPath := filepath.Join(b.converter.ScratchDir(), filepath.Base(job.Filename))
	if err := os.WriteFile(srcPath, data, 0o644); err != nil {
		return fmt.Errorf("writing download: %w", err)
	}
	defer b.converter.Cleanup(srcPath)

	outPath, err := b.converter.Convert(job.Kind, srcPath)
	if err != nil {
		return fmt.Errorf("converting %s: %w", job.Filename, err)
	}
	defer b.converter.Cleanup(outPath)

	result, err := os.ReadFile(outPath)
	if err != nil {
		return fmt.Errorf("reading output: %w", err)
	}

	if err := b.messenger.SendFile(ctx, roomID, filepath.Base(outPath), successCaption(job.Kind), result, mimeFor(job.Kind)); err != nil {
		return fmt.Errorf("sending result: %w", err)
	}
	return nil
}

// setTyping toggles the typing indicator, best effort.
func (b *Bot) setTyping(roomID id.RoomID, typing bool) {
	var timeout time.Duration
	if typing {
		timeout = typingTimeout
	}
	// Use a fresh timeout context so the indicator clears even during shutdown.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.messenger.SetTyping(ctx, roomID, typing, timeout); err != nil {
		b.logger.Debug("failed to set typing indicator", "room", roomID.String(), "error", err)
	}
}

// finishJob updates the job ledger, best effort.
func (b *Bot) finishJob(ctx context.Context, id string, status store.JobStatus, detail string) {
	if err := b.store.FinishJob(ctx, id, status, detail); err != nil {
		b.logger.Warn("failed to finish job", "job", id, "error", err)
	}
}

// failureMessage maps a transfer error to its user-facing reply. The source
// vanishing mid-job prompts a retry; a content/format rejection names the
// mismatch; everything else stays generic.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, convert.ErrNotFound):
		return retryMessage
	case errors.Is(err, convert.ErrBadExtension):
		return wrongContentMessage
	default:
		return genericFailureMessage
	}
}

// successCaption returns the caption attached to the converted file.
func successCaption(kind convert.Kind) string {
	if kind == convert.KindPDFToWord {
		return "✅ Here's your converted Word document!"
	}
	return "✅ Here's your converted PDF file!"
}

// mimeFor returns the MIME type of the file a conversion produces.
func mimeFor(kind convert.Kind) string {
	if kind == convert.KindPDFToWord {
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/pdf"
}
