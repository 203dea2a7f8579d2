package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/rv-sl/upbot/internal/fetch"
	"github.com/rv-sl/upbot/internal/logutil"
	"github.com/rv-sl/upbot/internal/policy"
	"github.com/rv-sl/upbot/internal/ratelimit"
	"github.com/rv-sl/upbot/internal/relay"
	"github.com/rv-sl/upbot/internal/telegram"
)

func newBotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram relay bot (long polling)",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := strings.TrimSpace(flagOrViperString(cmd, "bot-token", "telegram.bot_token"))
			if token == "" {
				return fmt.Errorf("missing telegram.bot_token (set via --bot-token or TELEGRAM_BOT_TOKEN)")
			}

			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			allowed := flagOrViperStringArray(cmd, "allowed-user", "telegram.allowed_users")
			pol := policy.NewList(allowed)

			rateLimit := flagOrViperInt(cmd, "rate-limit", "limits.per_minute")
			if rateLimit <= 0 {
				rateLimit = 3
			}
			maxSize := flagOrViperInt64(cmd, "max-file-size", "limits.max_file_size_bytes")
			if maxSize <= 0 {
				maxSize = 2000 * 1024 * 1024
			}
			pollTimeout := flagOrViperDuration(cmd, "poll-timeout", "telegram.poll_timeout")
			if pollTimeout <= 0 {
				pollTimeout = 30 * time.Second
			}
			uploadTimeout := flagOrViperDuration(cmd, "upload-timeout", "telegram.upload_timeout")
			if uploadTimeout <= 0 {
				uploadTimeout = 300 * time.Second
			}
			downloadTimeout := flagOrViperDuration(cmd, "download-timeout", "fetch.timeout")
			if downloadTimeout <= 0 {
				downloadTimeout = 30 * time.Second
			}
			workers := flagOrViperInt(cmd, "workers", "pipeline.workers")
			if workers <= 0 {
				workers = 4
			}
			queueSize := flagOrViperInt(cmd, "queue-size", "pipeline.queue_size")
			if queueSize < 0 {
				queueSize = 16
			}

			api, err := tgbotapi.NewBotAPI(token)
			if err != nil {
				return fmt.Errorf("telegram auth failed: %w", err)
			}
			// One client for everything; the upload timeout also covers the
			// long-poll requests, which it comfortably exceeds.
			api.Client = &http.Client{Timeout: uploadTimeout}

			msgr := telegram.New(api)
			fetcher := fetch.New(downloadTimeout, maxSize)
			limiter := ratelimit.New(rateLimit)
			pipeline := relay.NewPipeline(logger, msgr, fetcher)
			pool := relay.NewPool(workers, queueSize, pipeline.Run)
			defer pool.Close()
			handler := relay.NewHandler(logger, msgr, pol, limiter, pool)

			logger.Info("bot_start",
				"bot_username", api.Self.UserName,
				"allowed_users", pol.Size(),
				"rate_limit_per_minute", rateLimit,
				"max_file_size_bytes", maxSize,
				"workers", workers,
				"queue_size", queueSize,
				"poll_timeout", pollTimeout.String(),
			)

			u := tgbotapi.NewUpdate(0)
			u.Timeout = int(pollTimeout.Seconds())
			for update := range api.GetUpdatesChan(u) {
				msg := update.Message
				if msg == nil || msg.From == nil {
					continue
				}
				if msg.IsCommand() {
					handler.HandleCommand(msg.Chat.ID, msg.Command())
					continue
				}
				if strings.TrimSpace(msg.Text) == "" {
					continue
				}
				handler.HandleText(msg.Chat.ID, msg.From.ID, msg.Text)
			}
			return nil
		},
	}

	cmd.Flags().String("bot-token", "", "Telegram bot token (required).")
	cmd.Flags().StringArray("allowed-user", nil, "User ID allowed to use the bot (repeatable; empty = everyone).")
	cmd.Flags().Int("rate-limit", 3, "Max downloads per user per minute.")
	cmd.Flags().Int64("max-file-size", 2000*1024*1024, "Max download size in bytes.")
	cmd.Flags().Duration("poll-timeout", 30*time.Second, "Telegram long-poll timeout.")
	cmd.Flags().Duration("upload-timeout", 300*time.Second, "Timeout for Telegram upload calls.")
	cmd.Flags().Duration("download-timeout", 30*time.Second, "Timeout for the HTTP download.")
	cmd.Flags().Int("workers", 4, "Concurrent relay pipeline workers.")
	cmd.Flags().Int("queue-size", 16, "Pending job queue size; excess requests get a busy reply.")

	return cmd
}
