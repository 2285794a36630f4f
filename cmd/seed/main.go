package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"zajil/internal/config"
	"zajil/internal/infra/db"
	infraRepo "zajil/internal/infra/repository"
	"zajil/internal/seed"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	demoOrder := flag.Bool("demo-order", false, "デモ顧客と pending の注文も入れる")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Error("db connect", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("db migrate", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	authors := infraRepo.NewAuthorGormRepository(gormDB)
	books := infraRepo.NewBookGormRepository(gormDB)

	res, err := seed.Run(ctx, authors, books, time.Now(), logger)
	if err != nil {
		logger.Error("seed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("seed done",
		slog.Int("authors_created", res.AuthorsCreated),
		slog.Int("books_created", res.BooksCreated))

	if !*demoOrder {
		return
	}
	demo, err := seed.DemoOrder(ctx, seed.DemoOrderDeps{
		Users:   infraRepo.NewUserGormRepository(gormDB),
		Authors: authors,
		Books:   books,
		Orders:  infraRepo.NewOrderGormRepository(gormDB),
		Tx:      infraRepo.NewTxManagerGorm(gormDB),
		NewID:   uuid.NewString,
	}, time.Now(), logger)
	if err != nil {
		logger.Error("seed demo order", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("demo order done",
		slog.Bool("user_created", demo.UserCreated),
		slog.Bool("order_created", demo.OrderCreated),
		slog.String("order_id", demo.OrderID))
}
