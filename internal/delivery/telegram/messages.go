package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

func attemptText(s *entities.AttemptSummary) string {
	chapters := "none"
	if len(s.ChapterNames) > 0 {
		chapters = strings.Join(s.ChapterNames, ", ")
	}

	return fmt.Sprintf(
		"%s\n\n%s\n%s\n%s\n%s\n%s",
		bold("📝 Quiz completed"),
		md("👤 User: "+s.Username),
		md("📚 Subject: "+s.SubjectName),
		md("📖 Chapters: "+chapters),
		md(fmt.Sprintf("✅ Score: %d / %d", s.CorrectAnswers, s.TotalQuestions)),
		md(fmt.Sprintf("🎯 Accuracy: %.1f%%", s.Accuracy)),
	)
}
