// ABOUTME: Matrix bot core: sync loop, invite handling, and event routing.
// ABOUTME: Text commands and selection tokens route to handlers; documents enter the transfer pipeline.

package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/2389/folio/internal/config"
	"github.com/2389/folio/internal/convert"
	"github.com/2389/folio/internal/dedupe"
	"github.com/2389/folio/internal/store"
)

// Sync can redeliver events after reconnects; remember IDs for a while.
const (
	dedupeTTL     = 10 * time.Minute
	dedupeMaxSize = 4096
)

// typingTimeout is the duration the typing indicator shows (30 seconds).
const typingTimeout = 30 * time.Second

// Bot connects a Matrix homeserver to the conversion service.
type Bot struct {
	config    *config.Config
	client    *mautrix.Client
	messenger Messenger
	store     store.Store
	converter *convert.Service
	recent    *dedupe.Cache
	logger    *slog.Logger

	// ctx is the parent context for event processing goroutines
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a bot from config and already-constructed collaborators.
func New(cfg *config.Config, st store.Store, converter *convert.Service, logger *slog.Logger) (*Bot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := mautrix.NewClient(cfg.Matrix.Homeserver, id.UserID(cfg.Matrix.UserID), cfg.Matrix.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("creating matrix client: %w", err)
	}

	return &Bot{
		config:    cfg,
		client:    client,
		messenger: &matrixMessenger{client: client},
		store:     st,
		converter: converter,
		recent:    dedupe.New(dedupeTTL, dedupeMaxSize),
		logger:    logger.With("component", "bot"),
	}, nil
}

// Run starts the sync loop and blocks until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("starting folio bot",
		"homeserver", b.config.Matrix.Homeserver,
		"user_id", b.config.Matrix.UserID,
	)

	// Store context for event processing goroutines
	b.ctx, b.cancel = context.WithCancel(ctx)
	defer b.cancel()

	syncer, ok := b.client.Syncer.(*mautrix.DefaultSyncer)
	if !ok {
		return fmt.Errorf("unexpected syncer type: %T", b.client.Syncer)
	}
	syncer.OnEventType(event.EventMessage, b.handleMessageEvent)
	syncer.OnEventType(event.StateMember, b.handleMemberEvent)

	b.logger.Info("connecting to matrix homeserver")

	syncErr := make(chan error, 1)
	go func() {
		syncErr <- b.client.SyncWithContext(b.ctx)
	}()

	b.logger.Info("folio bot running")

	select {
	case <-ctx.Done():
		b.logger.Info("shutting down folio bot")
		b.cancel()
		return nil
	case err := <-syncErr:
		return fmt.Errorf("matrix sync failed: %w", err)
	}
}

// handleMemberEvent accepts room invites addressed to the bot.
func (b *Bot) handleMemberEvent(ctx context.Context, evt *event.Event) {
	if evt.GetStateKey() != b.config.Matrix.UserID {
		return
	}
	content := evt.Content.AsMember()
	if content == nil || content.Membership != event.MembershipInvite {
		return
	}
	if !b.roomAllowed(evt.RoomID.String()) {
		b.logger.Debug("ignoring invite to non-allowed room", "room", evt.RoomID.String())
		return
	}

	if _, err := b.client.JoinRoomByID(ctx, evt.RoomID); err != nil {
		b.logger.Error("failed to join room", "room", evt.RoomID.String(), "error", err)
		return
	}
	b.logger.Info("joined room", "room", evt.RoomID.String(), "inviter", evt.Sender.String())
}

// handleMessageEvent routes incoming Matrix messages.
func (b *Bot) handleMessageEvent(ctx context.Context, evt *event.Event) {
	// Ignore our own messages
	if evt.Sender == id.UserID(b.config.Matrix.UserID) {
		return
	}

	content, ok := evt.Content.Parsed.(*event.MessageEventContent)
	if !ok {
		return
	}

	if !b.roomAllowed(evt.RoomID.String()) {
		b.logger.Debug("ignoring message from non-allowed room", "room", evt.RoomID.String())
		return
	}

	if b.recent.Seen(evt.ID.String()) {
		b.logger.Debug("duplicate event ignored", "event_id", evt.ID.String())
		return
	}

	// Process in a goroutine to not block sync. Use the bot context so
	// in-flight work is cancelled on shutdown.
	switch content.MsgType {
	case event.MsgText:
		go b.handleText(b.ctx, evt.RoomID, evt.Sender, strings.TrimSpace(content.Body))
	case event.MsgFile:
		go b.handleDocument(b.ctx, evt.RoomID, evt.Sender, content)
	}
}

// roomAllowed checks the room against the allowed list.
func (b *Bot) roomAllowed(roomID string) bool {
	if len(b.config.Bot.AllowedRooms) == 0 {
		return true // Allow all if no filter
	}
	for _, allowed := range b.config.Bot.AllowedRooms {
		if allowed == roomID {
			return true
		}
	}
	return false
}
