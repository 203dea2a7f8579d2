package relay

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/rv-sl/upbot/internal/policy"
	"github.com/rv-sl/upbot/internal/ratelimit"
)

const (
	startText = "Hi! Send me a direct download URL and I'll upload it to Telegram for you.\n" +
		"Supported URLs: http/https direct links to files\n" +
		"Max file size: 2GB"

	helpText = "How to use this bot:\n" +
		"1. Send me a direct download URL (http/https)\n" +
		"2. I'll download the file and upload it to Telegram\n" +
		"\n" +
		"Commands:\n" +
		"/start - Show welcome message\n" +
		"/help - Show this help message\n" +
		"\n" +
		"Note: The bot supports files up to 2GB in size."

	invalidURLText   = "Please send a valid http/https URL."
	unauthorizedText = "Sorry, you're not authorized to use this bot."
	rateLimitedText  = "You're doing too many downloads too fast. Please wait a minute."
	busyText         = "The bot is busy right now. Please try again in a minute."
	startingText     = "Starting download..."
)

// Handler is the command surface. It validates and gates inbound messages,
// posts the initial status message, and hands the work to the pool so the
// update loop never blocks on network I/O.
type Handler struct {
	log     *slog.Logger
	m       Messenger
	policy  *policy.List
	limiter *ratelimit.Limiter
	pool    Submitter
}

func NewHandler(log *slog.Logger, m Messenger, pol *policy.List, limiter *ratelimit.Limiter, pool Submitter) *Handler {
	return &Handler{log: log, m: m, policy: pol, limiter: limiter, pool: pool}
}

// HandleCommand answers the static /start and /help commands. Unknown
// commands are ignored.
func (h *Handler) HandleCommand(chatID int64, command string) {
	switch command {
	case "start":
		h.reply(chatID, startText)
	case "help":
		h.reply(chatID, helpText)
	}
}

// HandleText processes a free-text message as a relay request. Validation
// order: URL syntax, then access policy, then rate limit; a message that is
// not a URL touches neither policy nor limiter state.
func (h *Handler) HandleText(chatID, userID int64, text string) {
	rawURL := strings.TrimSpace(text)
	if !validURL(rawURL) {
		h.reply(chatID, invalidURLText)
		return
	}
	if !h.policy.Allowed(userID) {
		h.log.Warn("request_unauthorized", "user_id", userID, "chat_id", chatID)
		h.reply(chatID, unauthorizedText)
		return
	}
	if !h.limiter.Acquire(userID) {
		h.log.Info("request_rate_limited", "user_id", userID, "chat_id", chatID)
		h.reply(chatID, rateLimitedText)
		return
	}

	statusID, err := h.m.SendText(chatID, startingText)
	if err != nil {
		h.log.Error("status_send_error", "chat_id", chatID, "error", err.Error())
		return
	}

	job := Job{
		ID:          uuid.NewString(),
		ChatID:      chatID,
		UserID:      userID,
		URL:         rawURL,
		StatusMsgID: statusID,
	}
	if !h.pool.TrySubmit(job) {
		h.log.Warn("queue_full", "user_id", userID, "chat_id", chatID)
		if err := h.m.EditText(chatID, statusID, busyText); err != nil {
			h.log.Error("status_edit_error", "chat_id", chatID, "error", err.Error())
		}
		return
	}
	h.log.Info("job_accepted", "job_id", job.ID, "user_id", userID, "chat_id", chatID, "url", rawURL)
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.m.SendText(chatID, text); err != nil {
		h.log.Error("reply_error", "chat_id", chatID, "error", err.Error())
	}
}

// validURL accepts syntactically well-formed http/https URLs only. No DNS
// or address validation happens here, so a deployment reachable from an
// internal network should front this with its own egress policy.
func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
