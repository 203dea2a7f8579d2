// Package telegram adapts the Bot API client to the relay.Messenger surface.
package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rv-sl/upbot/internal/relay"
)

// Client implements relay.Messenger over tgbotapi. Upload timeouts are
// governed by the HTTP client configured on the BotAPI at startup.
type Client struct {
	api *tgbotapi.BotAPI
}

func New(api *tgbotapi.BotAPI) *Client {
	return &Client{api: api}
}

func (c *Client) SendText(chatID int64, text string) (int, error) {
	sent, err := c.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (c *Client) EditText(chatID int64, messageID int, text string) error {
	_, err := c.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}

func (c *Client) DeleteMessage(chatID int64, messageID int) error {
	_, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

func (c *Client) SendPhoto(chatID int64, m relay.Media) error {
	// sendPhoto takes no thumbnail parameter; Telegram renders the photo
	// itself as the preview.
	cfg := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(m.Path))
	cfg.Caption = m.Caption
	_, err := c.api.Send(cfg)
	return err
}

func (c *Client) SendVideo(chatID int64, m relay.Media) error {
	cfg := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(m.Path))
	cfg.Caption = m.Caption
	cfg.SupportsStreaming = true
	cfg.Thumb = thumbFile(m.Thumb)
	_, err := c.api.Send(cfg)
	return err
}

func (c *Client) SendAudio(chatID int64, m relay.Media) error {
	cfg := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(m.Path))
	cfg.Caption = m.Caption
	cfg.Thumb = thumbFile(m.Thumb)
	_, err := c.api.Send(cfg)
	return err
}

func (c *Client) SendDocument(chatID int64, m relay.Media) error {
	cfg := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(m.Path))
	cfg.Caption = m.Caption
	cfg.Thumb = thumbFile(m.Thumb)
	_, err := c.api.Send(cfg)
	return err
}

func thumbFile(b []byte) tgbotapi.RequestFileData {
	if len(b) == 0 {
		return nil
	}
	return tgbotapi.FileBytes{Name: "thumb.jpg", Bytes: b}
}
