// Package bot runs the Matrix front end of folio.
//
// # Event Routing
//
// The bot syncs against a Matrix homeserver and routes message events:
//
//   - /start: menu listing the two conversions and their selection tokens
//   - /help: static usage text
//   - word_to_pdf / pdf_to_word: records the room's conversion selection
//     and prompts for a file
//   - any other text: usage hint
//   - m.file: the document transfer pipeline
//
// Matrix has no inline buttons, so selections arrive as plain message bodies
// carrying the same opaque tokens a button UI would send.
//
// # Transfer Pipeline
//
// A document is accepted only while the room has a pending selection. The
// pipeline validates in order (filename present, extension matches the
// selection, size at most 20 MiB), then downloads into the scratch
// directory, converts, and replies with the result as a file attachment.
// Validation failures get specific replies and leave the selection intact;
// later failures get a generic reply with details only logged. Scratch files
// are removed on every exit path once a job has started.
//
// A successful conversion does not clear the room's selection: sending a
// second file repeats the last conversion.
//
// # Testing
//
// Handlers depend on the narrow Messenger interface rather than the mautrix
// client, so they are tested with an in-memory fake and store.MemoryStore.
package bot
