package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier reports recorded quiz attempts to the administrators' chat.
type Notifier struct {
	bot    sender
	chatID int64
	logger *zap.Logger
}

// requestTimeout bounds every call to the Bot API.
const requestTimeout = 10 * time.Second

// NewBot authorizes the bot token.
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	client := &http.Client{Timeout: requestTimeout}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("authorize telegram bot: %w", err)
	}
	return bot, nil
}

func NewNotifier(bot *tgbotapi.BotAPI, chatID int64, logger *zap.Logger) *Notifier {
	return newNotifier(bot, chatID, logger)
}

func newNotifier(bot sender, chatID int64, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, chatID: chatID, logger: logger}
}

// AttemptRecorded sends a short report of the attempt. It gives up when ctx
// is done; the send itself may still finish in the background.
func (n *Notifier) AttemptRecorded(ctx context.Context, summary *entities.AttemptSummary) error {
	msg := newMessage(n.chatID, attemptText(summary))

	done := make(chan error, 1)
	go func() {
		_, err := n.bot.Send(msg)
		done <- err
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		n.logger.Error("failed to send telegram message",
			zap.Int64("chat_id", n.chatID),
			zap.Error(err),
		)
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}
