// Telegram webhook HTTP handler.
//
// This file exposes the single inbound endpoint Telegram delivers updates
// to:
//   - POST /telegram/webhook
//
// The handler is transport-thin: it authenticates the delivery via the
// X-Telegram-Bot-Api-Secret-Token header, parses the Update payload,
// dispatches the recognized bot commands to the application services, and
// replies to the chat through the Bot API client. Once an update is parsed
// the handler always answers 200 "OK" so Telegram does not re-deliver;
// command failures surface to the user as chat replies, never as HTTP
// errors.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-streak-bot/internal/http/middleware"
	"github.com/tbourn/go-streak-bot/internal/services"
	"github.com/tbourn/go-streak-bot/internal/telegram"
)

// secretTokenHeader carries the webhook secret Telegram echoes back on
// every delivery. Its value must never be logged.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Fixed reply strings sent back to chats. Kept as constants so tests can
// assert exact texts.
const (
	replyHelp = "Hi! I post the LeetCode daily challenge and track who solved it.\n\n" +
		"/subscribe — receive the daily report in this chat\n" +
		"/unsubscribe — stop receiving reports\n" +
		"/daily — show today's problem\n" +
		"/add_leetcode <username> — track a LeetCode account\n" +
		"/remove_leetcode <username> — stop tracking an account"
	replySubscribed     = "Subscribed! This chat will receive daily LeetCode reports."
	replyUnsubscribed   = "Unsubscribed. This chat will no longer receive daily reports."
	replyNotSubscribed  = "This chat is not subscribed. Use /subscribe first."
	replyBadUsername    = "That doesn't look like a valid LeetCode username."
	replyUsageAdd       = "Usage: /add_leetcode <username>"
	replyUsageRemove    = "Usage: /remove_leetcode <username>"
	replyStorageFailure = "Something went wrong, please try again later."
)

//
// Service contracts (context-aware)
//

// CommandService defines the chat command operations consumed by the
// webhook handler. Implementations must be safe for concurrent use and
// honor the provided context.
type CommandService interface {
	Subscribe(ctx context.Context, chatID int64) error
	Unsubscribe(ctx context.Context, chatID int64) error
	AddUsername(ctx context.Context, chatID int64, username string) error
	RemoveUsername(ctx context.Context, chatID int64, username string) error
	DailyAnnouncement(ctx context.Context, now time.Time) (string, error)
}

// Reconciler runs the daily completion-and-report workflow.
type Reconciler interface {
	Run(ctx context.Context, now time.Time) error
}

// Replier sends plain-text replies back to a chat.
type Replier interface {
	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the service. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	cmdSvc     CommandService
	reconciler Reconciler
	replier    Replier
	secret     string

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// New constructs a Handlers instance bound to the given services. secret is
// the expected value of the Telegram secret-token header.
func New(cmdSvc CommandService, reconciler Reconciler, replier Replier, secret string) *Handlers {
	return &Handlers{
		cmdSvc:     cmdSvc,
		reconciler: reconciler,
		replier:    replier,
		secret:     secret,
		now:        time.Now,
	}
}

// authorized checks the webhook secret header against the configured value.
func (h *Handlers) authorized(c *gin.Context) bool {
	return h.secret != "" && c.GetHeader(secretTokenHeader) == h.secret
}

// Webhook handles POST /telegram/webhook.
//
// Deliveries with a wrong or missing secret token are rejected with 401.
// Malformed JSON is rejected with 400. Everything else — including updates
// that carry no recognizable command — is acknowledged with 200 "OK".
func (h *Handlers) Webhook(c *gin.Context) {
	if !h.authorized(c) {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid webhook secret")
		return
	}

	var upd telegram.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "malformed update payload")
		return
	}

	if upd.Message != nil && upd.Message.Text != "" {
		h.dispatch(c, upd.Message)
	}

	c.String(http.StatusOK, "OK")
}

// dispatch routes a message to its command implementation and sends the
// reply. Send failures are logged and swallowed: Telegram gets its 200
// regardless, and the user simply misses one reply.
func (h *Handlers) dispatch(c *gin.Context, msg *telegram.Message) {
	ctx := c.Request.Context()
	chatID := msg.Chat.ID
	cmd, arg := parseCommand(msg.Text)

	var reply string
	switch cmd {
	case "/start", "/help":
		reply = replyHelp
	case "/subscribe":
		reply = h.replyFor(h.cmdSvc.Subscribe(ctx, chatID), replySubscribed)
	case "/unsubscribe":
		reply = h.replyFor(h.cmdSvc.Unsubscribe(ctx, chatID), replyUnsubscribed)
	case "/add_leetcode":
		if arg == "" {
			reply = replyUsageAdd
			break
		}
		reply = h.replyFor(h.cmdSvc.AddUsername(ctx, chatID, arg), "Now tracking "+arg+".")
	case "/remove_leetcode":
		if arg == "" {
			reply = replyUsageRemove
			break
		}
		reply = h.replyFor(h.cmdSvc.RemoveUsername(ctx, chatID, arg), "Stopped tracking "+arg+".")
	case "/daily":
		text, err := h.cmdSvc.DailyAnnouncement(ctx, h.now())
		if err != nil {
			middleware.LoggerFrom(c).Error().Err(err).Int64("chat_id", chatID).Msg("daily announcement failed")
			reply = replyStorageFailure
			break
		}
		reply = text
	default:
		// Not a command we know; acknowledge silently.
		return
	}

	if _, err := h.replier.SendMessage(ctx, chatID, reply); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Int64("chat_id", chatID).Str("command", cmd).Msg("reply send failed")
	}
}

// replyFor maps a command error to the user-facing reply string, falling
// back to okReply on success.
func (h *Handlers) replyFor(err error, okReply string) string {
	switch {
	case err == nil:
		return okReply
	case errors.Is(err, services.ErrNotSubscribed):
		return replyNotSubscribed
	case errors.Is(err, services.ErrInvalidUsername):
		return replyBadUsername
	default:
		return replyStorageFailure
	}
}

// parseCommand splits a message text into the leading command and its first
// argument. Bot mentions ("/daily@StreakBot") are stripped from the command
// so group-chat invocations route the same as private ones.
func parseCommand(text string) (cmd, arg string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", ""
	}
	cmd = strings.ToLower(fields[0])
	if at := strings.IndexByte(cmd, '@'); at > 0 {
		cmd = cmd[:at]
	}
	if len(fields) > 1 {
		arg = fields[1]
	}
	return cmd, arg
}
