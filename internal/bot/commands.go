// ABOUTME: Text handlers: /start menu, /help, selection tokens, usage hint.
// ABOUTME: Reply copy lives here so handlers and tests share one source of truth.

package bot

import (
	"context"

	"maunium.net/go/mautrix/id"

	"github.com/2389/folio/internal/convert"
)

const startMessage = `👋 Welcome to the folio file converter!

I can convert documents between Word and PDF formats.
Reply with one of the options below:

  word_to_pdf - convert a Word document (.doc or .docx) to PDF
  pdf_to_word - convert a PDF file to a Word document`

const helpMessage = `🔍 Help

Available commands:
/start - show the conversion options
/help - show this help message

To convert a file:
1. Send /start
2. Reply with a conversion option
3. Send your file when prompted

Supported formats:
• Word (.doc, .docx)
• PDF (.pdf)
Maximum file size: 20 MiB`

const usageHint = "Please use /start to see the available file conversion options, " +
	"or /help for more information about how to use this bot."

const promptWordFile = "📤 Please send me the Word document (.doc or .docx) you want to convert to PDF."
const promptPDFFile = "📤 Please send me the PDF file you want to convert to Word format."

// handleText dispatches a trimmed text message body.
func (b *Bot) handleText(ctx context.Context, roomID id.RoomID, sender id.UserID, body string) {
	switch body {
	case "/start":
		b.logger.Info("user started the bot", "room", roomID.String(), "sender", sender.String())
		b.reply(ctx, roomID, startMessage)
	case "/help":
		b.logger.Info("user requested help", "room", roomID.String(), "sender", sender.String())
		b.reply(ctx, roomID, helpMessage)
	case convert.TokenWordToPDF, convert.TokenPDFToWord:
		b.handleSelection(ctx, roomID, sender, convert.ParseKind(body))
	case "":
		// nothing to do
	default:
		b.reply(ctx, roomID, usageHint)
	}
}

// handleSelection records the room's conversion selection and prompts for a
// file. A new selection overwrites any previous one.
func (b *Bot) handleSelection(ctx context.Context, roomID id.RoomID, sender id.UserID, kind convert.Kind) {
	if err := b.store.SetSelection(ctx, roomID.String(), kind); err != nil {
		b.logger.Error("failed to record selection",
			"room", roomID.String(), "kind", kind.String(), "error", err)
		b.reply(ctx, roomID, genericFailureMessage)
		return
	}

	b.logger.Info("conversion selected",
		"room", roomID.String(), "sender", sender.String(), "kind", kind.String())

	switch kind {
	case convert.KindWordToPDF:
		b.reply(ctx, roomID, promptWordFile)
	case convert.KindPDFToWord:
		b.reply(ctx, roomID, promptPDFFile)
	}
}

// reply sends text to a room, logging delivery failures instead of surfacing
// them; there is nobody further up to report to.
func (b *Bot) reply(ctx context.Context, roomID id.RoomID, text string) {
	if err := b.messenger.SendText(ctx, roomID, text); err != nil {
		b.logger.Error("failed to send message", "room", roomID.String(), "error", err)
	}
}
