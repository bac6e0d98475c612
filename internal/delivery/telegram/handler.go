package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/quizbox/quizbox-bot/internal/domain/entities"
	"github.com/quizbox/quizbox-bot/internal/review"
	"github.com/quizbox/quizbox-bot/internal/storage"
)

// ReviewEngine is the scheduler surface the bot consumes.
type ReviewEngine interface {
	ProcessAnswer(itemID string, correct bool) (review.AnswerResult, error)
	DueItems(candidates []entities.Item) ([]entities.OrderedItem, error)
	Stats(items []entities.Item) (entities.StatsSummary, error)
	TargetProgress() (entities.TargetProgress, error)
	SetDailyTarget(n int) error
	Reset(ctx context.Context) error
	RefreshSeed()
}

// Catalog provides the candidate items for a session.
type Catalog interface {
	All() []entities.Item
}

// Subscribers records which chats get the daily reminder.
type Subscribers interface {
	Add(ctx context.Context, chatID int64) error
	Remove(ctx context.Context, chatID int64) error
}

type Handler struct {
	bot         *tgbotapi.BotAPI
	logger      *zap.Logger
	engine      ReviewEngine
	catalog     Catalog
	sessions    *storage.SessionStorage
	subscribers Subscribers
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	engine ReviewEngine,
	catalog Catalog,
	sessions *storage.SessionStorage,
	subscribers Subscribers,
) *Handler {
	return &Handler{
		bot:         bot,
		logger:      logger,
		engine:      engine,
		catalog:     catalog,
		sessions:    sessions,
		subscribers: subscribers,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if !update.Message.IsCommand() {
		h.send(newHTMLMessage(chatID, msgUnknownCommand))
		return
	}

	switch update.Message.Command() {
	case "start":
		h.handleStart(ctx, chatID)

	case "quiz":
		h.handleQuiz(chatID)

	case "shuffle":
		h.handleShuffle(chatID)

	case "stats":
		h.handleStats(chatID)

	case "target":
		h.handleTarget(chatID, update.Message.CommandArguments())

	case "reset":
		h.handleResetPrompt(chatID)

	case "stop":
		h.handleStop(ctx, chatID)

	case "help":
		h.send(newHTMLMessage(chatID, msgHelp))

	default:
		h.send(newHTMLMessage(chatID, msgUnknownCommand))
	}
}

// Notify implements the reminder notifier.
func (h *Handler) Notify(chatID int64, text string) error {
	msg := newHTMLMessage(chatID, text)
	_, err := h.bot.Send(msg)
	return err
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}
