package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// TelegramTransport delivers messages to a fixed chat instead of a mailbox.
// Useful as the alert channel when no mail API is configured.
type TelegramTransport struct {
	bot    *bot.Bot
	chatID int64
}

// NewTelegramTransport creates the transport. An empty token or zero chat
// ID yields an unconfigured transport, not an error, so the dispatcher can
// fall back to simulated sends.
func NewTelegramTransport(token string, chatID int64) (*TelegramTransport, error) {
	if token == "" || chatID == 0 {
		return &TelegramTransport{}, nil
	}

	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramTransport{bot: b, chatID: chatID}, nil
}

func (t *TelegramTransport) Configured() bool {
	return t.bot != nil && t.chatID != 0
}

// Send posts the subject and body as one message
func (t *TelegramTransport) Send(ctx context.Context, msg Message) error {
	if !t.Configured() {
		return fmt.Errorf("telegram transport not configured")
	}

	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   msg.Subject + "\n\n" + msg.Body,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}
