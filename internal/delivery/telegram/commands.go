package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/quizbox/quizbox-bot/internal/domain/entities"
	"github.com/quizbox/quizbox-bot/internal/storage"
)

func (h *Handler) handleStart(ctx context.Context, chatID int64) {
	if err := h.subscribers.Add(ctx, chatID); err != nil {
		h.logger.Error("failed to subscribe chat",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
	h.send(newHTMLMessage(chatID, msgWelcome))
}

func (h *Handler) handleStop(ctx context.Context, chatID int64) {
	if err := h.subscribers.Remove(ctx, chatID); err != nil {
		h.logger.Error("failed to unsubscribe chat",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.send(newHTMLMessage(chatID, msgInternalError))
		return
	}
	h.send(newHTMLMessage(chatID, msgUnsubscribed))
}

func (h *Handler) handleQuiz(chatID int64) {
	due, err := h.engine.DueItems(h.catalog.All())
	if err != nil {
		h.logger.Error("failed to build due set", zap.Error(err))
		h.send(newHTMLMessage(chatID, msgQuizUnavailable))
		return
	}
	if len(due) == 0 {
		h.send(newHTMLMessage(chatID, msgNothingDue))
		return
	}

	session := &storage.QuizSession{ChatID: chatID, Queue: due}
	h.sessions.Store(chatID, session)

	item, _ := session.Current()
	h.send(h.questionMessage(chatID, session, item))
}

func (h *Handler) handleShuffle(chatID int64) {
	h.engine.RefreshSeed()
	h.sessions.Delete(chatID)
	h.handleQuiz(chatID)
}

func (h *Handler) handleStats(chatID int64) {
	stats, err := h.engine.Stats(h.catalog.All())
	if err != nil {
		h.logger.Error("failed to compute stats", zap.Error(err))
		h.send(newHTMLMessage(chatID, msgStatsUnavailable))
		return
	}

	progress, err := h.engine.TargetProgress()
	if err != nil {
		h.logger.Error("failed to compute target progress", zap.Error(err))
		h.send(newHTMLMessage(chatID, msgStatsUnavailable))
		return
	}

	h.send(newHTMLMessage(chatID, renderStats(stats, progress)))
}

func (h *Handler) handleTarget(chatID int64, args string) {
	args = strings.TrimSpace(args)
	if args == "" {
		progress, err := h.engine.TargetProgress()
		if err != nil {
			h.send(newHTMLMessage(chatID, msgStatsUnavailable))
			return
		}
		h.send(newHTMLMessage(chatID, renderTarget(progress)))
		return
	}

	n, err := strconv.Atoi(args)
	if err != nil {
		h.send(newHTMLMessage(chatID, msgTargetUsage))
		return
	}

	if err := h.engine.SetDailyTarget(n); err != nil {
		if errors.Is(err, entities.ErrInvalidDailyTarget) {
			h.send(newHTMLMessage(chatID, fmt.Sprintf(
				msgTargetOutOfRange, entities.MinDailyTarget, entities.MaxDailyTarget,
			)))
			return
		}
		h.logger.Error("failed to set daily target", zap.Error(err))
		h.send(newHTMLMessage(chatID, msgInternalError))
		return
	}

	h.send(newHTMLMessage(chatID, fmt.Sprintf(msgTargetUpdated, n)))
}

func (h *Handler) handleResetPrompt(chatID int64) {
	msg := newHTMLMessage(chatID, msgResetPrompt)
	msg.ReplyMarkup = resetKeyboard()
	h.send(msg)
}
