// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/quizbox/quizbox-bot/internal/domain/entities"
	"github.com/quizbox/quizbox-bot/internal/review"
	"github.com/quizbox/quizbox-bot/internal/storage"
)

const (
	msgWelcome = "Welcome to QuizBox! 📦\n\n" +
		"Answer questions, and I will bring each one back right before you would forget it.\n\n" +
		"/quiz — start today's review\n/stats — your progress\n/help — all commands"
	msgHelp = "/quiz — start today's review session\n" +
		"/shuffle — reshuffle today's session\n" +
		"/stats — progress, accuracy and streak\n" +
		"/target N — set the daily review target\n" +
		"/reset — erase all progress\n" +
		"/stop — stop daily reminders"
	msgUnknownCommand   = "Unknown command. Try /help."
	msgInternalError    = "Something went wrong. Please try again later."
	msgQuizUnavailable  = "Could not build a review session. Please try again later."
	msgStatsUnavailable = "Could not load your stats. Please try again later."
	msgNothingDue       = "Nothing to review right now — come back tomorrow! 🎉"
	msgNoActiveQuiz     = "No active quiz. Start one with /quiz."
	msgQuizFinished     = "Session finished: %d of %d correct. 🏁\n\nCome back tomorrow, or /shuffle for another mix."
	msgUnsubscribed     = "Daily reminders are off. /start to re-enable them."
	msgTargetUsage      = "Usage: /target N, e.g. /target 30."
	msgTargetOutOfRange = "The daily target must be between %d and %d."
	msgTargetUpdated    = "Daily target set to %d reviews. 🎯"
	msgResetPrompt      = "This erases <b>all</b> review progress and settings. Are you sure?"
	msgResetDone        = "All progress cleared. A fresh start! 🌱"
	msgResetCancelled   = "Reset cancelled — your progress is safe."
)

var boxTags = map[int]string{
	1: "🌱 learning",
	2: "🌿 improving",
	3: "🌳 mastered",
}

// questionMessage renders one quiz question with an answer button per option.
func (h *Handler) questionMessage(chatID int64, session *storage.QuizSession, item entities.OrderedItem) tgbotapi.MessageConfig {
	header := fmt.Sprintf("<b>Question %d/%d</b> · %s\n\n", session.Pos+1, len(session.Queue), item.Topic)

	msg := newHTMLMessage(chatID, header+item.Question)

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(item.Options))
	for i, option := range item.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option, buildAnswerCallback(i)),
		))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)

	return msg
}

func renderAnswerFeedback(item entities.OrderedItem, selected int, correct bool, result review.AnswerResult) string {
	var b strings.Builder

	b.WriteString(item.Question)
	b.WriteString("\n\n")

	if correct {
		b.WriteString(fmt.Sprintf("✅ <b>%s</b>", item.Options[selected]))
	} else {
		b.WriteString(fmt.Sprintf("❌ <b>%s</b>\nCorrect answer: <b>%s</b>",
			item.Options[selected], item.Options[item.AnswerIndex]))
	}

	b.WriteString(fmt.Sprintf("\n\n%s → %s · next review %s",
		boxTags[result.FromBox], boxTags[result.ToBox],
		result.NextReview.Format("Mon, Jan 2"),
	))

	return b.String()
}

func renderStats(stats entities.StatsSummary, progress entities.TargetProgress) string {
	var b strings.Builder

	b.WriteString("<b>Your progress</b>\n\n")
	b.WriteString(fmt.Sprintf("Items started: %d of %d\n", stats.StartedCount, stats.TotalCount))
	b.WriteString(fmt.Sprintf("%s: %d\n", boxTags[1], stats.BoxDistribution[1]))
	b.WriteString(fmt.Sprintf("%s: %d\n", boxTags[2], stats.BoxDistribution[2]))
	b.WriteString(fmt.Sprintf("%s: %d\n\n", boxTags[3], stats.BoxDistribution[3]))
	b.WriteString(fmt.Sprintf("Accuracy: %.0f%%\n", stats.AccuracyRate*100))
	b.WriteString(fmt.Sprintf("Streak: %d day(s) 🔥\n\n", stats.StreakDays))
	b.WriteString(renderTarget(progress))

	return b.String()
}

func renderTarget(progress entities.TargetProgress) string {
	return fmt.Sprintf(
		"Today: %d of %d reviews done (%d%%), %d to go.",
		progress.Completed, progress.Target, progress.Percentage, progress.Remaining,
	)
}

func resetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes, erase everything", actionReset+":"+resetConfirm),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", actionReset+":"+resetCancel),
		),
	)
}
