package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Callback action prefixes.
const (
	actionAnswer = "ans"
	actionReset  = "reset"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

func buildAnswerCallback(optionIndex int) string {
	return actionAnswer + ":" + strconv.Itoa(optionIndex)
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	parts := strings.Split(cb.Data, ":")

	switch parts[0] {
	case actionAnswer:
		h.handleAnswerCallback(cb, parts[1:])
	case actionReset:
		h.handleResetCallback(ctx, cb, parts[1:])
	default:
		return
	}

	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, "")
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Error("callback answer error", zap.Error(err))
	}
}

func (h *Handler) handleAnswerCallback(cb *tgbotapi.CallbackQuery, params []string) {
	chatID := cb.Message.Chat.ID

	session, ok := h.sessions.Get(chatID)
	if !ok {
		h.send(newHTMLMessage(chatID, msgNoActiveQuiz))
		return
	}

	item, ok := session.Current()
	if !ok {
		h.sessions.Delete(chatID)
		h.send(newHTMLMessage(chatID, msgNoActiveQuiz))
		return
	}

	if len(params) != 1 {
		h.logger.Error("invalid answer callback data", zap.String("data", cb.Data))
		return
	}
	selected, err := strconv.Atoi(params[0])
	if err != nil || selected < 0 || selected >= len(item.Options) {
		h.logger.Error("answer index out of range", zap.String("data", cb.Data))
		return
	}

	correct := selected == item.AnswerIndex
	result, err := h.engine.ProcessAnswer(item.ID, correct)
	if err != nil {
		h.logger.Error("failed to process answer",
			zap.String("item_id", item.ID),
			zap.Error(err),
		)
		h.send(newHTMLMessage(chatID, msgInternalError))
		return
	}
	if correct {
		session.Correct++
	}

	feedback := renderAnswerFeedback(item, selected, correct, result)
	edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, feedback)
	edit.ParseMode = tgbotapi.ModeHTML
	h.send(edit)

	if !session.Advance() {
		h.sessions.Delete(chatID)
		h.send(newHTMLMessage(chatID, fmt.Sprintf(
			msgQuizFinished, session.Correct, len(session.Queue),
		)))
		return
	}

	next, _ := session.Current()
	h.send(h.questionMessage(chatID, session, next))
}

func (h *Handler) handleResetCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, params []string) {
	chatID := cb.Message.Chat.ID

	if len(params) != 1 {
		return
	}

	switch params[0] {
	case resetConfirm:
		if err := h.engine.Reset(ctx); err != nil {
			h.logger.Error("failed to reset progress", zap.Error(err))
			h.send(newHTMLMessage(chatID, msgInternalError))
			return
		}
		h.sessions.Delete(chatID)

		edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, msgResetDone)
		edit.ParseMode = tgbotapi.ModeHTML
		h.send(edit)

	case resetCancel:
		edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, msgResetCancelled)
		edit.ParseMode = tgbotapi.ModeHTML
		h.send(edit)
	}
}
