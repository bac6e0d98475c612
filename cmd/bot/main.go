package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/quizbox/quizbox-bot/internal/config"
	"github.com/quizbox/quizbox-bot/internal/dates"
	"github.com/quizbox/quizbox-bot/internal/delivery/telegram"
	"github.com/quizbox/quizbox-bot/internal/kvstore"
	"github.com/quizbox/quizbox-bot/internal/logger"
	"github.com/quizbox/quizbox-bot/internal/repository"
	"github.com/quizbox/quizbox-bot/internal/review"
	"github.com/quizbox/quizbox-bot/internal/service"
	"github.com/quizbox/quizbox-bot/internal/storage"
	"github.com/quizbox/quizbox-bot/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		zl.Fatal("invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}
	clock := dates.New(loc, zl)

	kv, closeKV, err := newKVStore(ctx, cfg)
	if err != nil {
		zl.Fatal("failed to open storage backend", zap.Error(err))
	}
	defer closeKV()

	reviewStore := store.New(kv, clock, zl, store.Options{
		SaveDebounce: cfg.Review.SaveDebounce,
		EvictAfter:   time.Duration(cfg.Review.EvictAfterDays) * 24 * time.Hour,
	})
	if err := reviewStore.Load(ctx); err != nil {
		zl.Fatal("failed to load review state", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := reviewStore.Close(flushCtx); err != nil {
			zl.Warn("final flush failed", zap.Error(err))
		}
	}()

	catalog, err := repository.NewCatalogRepository(cfg.CatalogPath)
	if err != nil {
		zl.Fatal("failed to load item catalog", zap.Error(err))
	}

	engine := review.New(reviewStore, clock, zl, review.Config{
		MasteredSampleRate: cfg.Review.MasteredSampleRate,
		MinDueItems:        cfg.Review.MinDueItems,
	})

	subscribers, err := storage.NewSubscriberStore(ctx, kv)
	if err != nil {
		zl.Fatal("failed to load reminder subscribers", zap.Error(err))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zl.Fatal("failed to create telegram bot", zap.Error(err))
	}

	commands := []tgbotapi.BotCommand{
		{Command: "quiz", Description: "Start today's review session"},
		{Command: "shuffle", Description: "Reshuffle today's session"},
		{Command: "stats", Description: "Progress, accuracy and streak"},
		{Command: "target", Description: "Set the daily review target"},
		{Command: "reset", Description: "Erase all progress"},
		{Command: "stop", Description: "Stop daily reminders"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zl.Warn("failed to set bot commands", zap.Error(err))
	}

	zl.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	handler := telegram.NewHandler(
		bot,
		zl,
		engine,
		catalog,
		storage.NewSessionStorage(),
		subscribers,
	)

	if cfg.Reminder.Enabled {
		reminders := service.NewReminderService(engine, subscribers, cfg.Reminder.Cron, loc, zl)
		reminders.SetNotifier(handler)
		go reminders.Start(ctx)
	}

	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zl.Error("telegram handler exited", zap.Error(err))
	}

	zl.Info("shutdown signal received")
}

func newKVStore(ctx context.Context, cfg *config.Config) (kvstore.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return kvstore.NewMemory(), func() {}, nil

	case config.BackendFile:
		f, err := kvstore.NewFile(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return f, func() {}, nil

	case config.BackendPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}
		pg, err := kvstore.NewPostgres(ctx, dsn, kvstore.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
