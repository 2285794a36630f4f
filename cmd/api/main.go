package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"zajil/internal/config"
	"zajil/internal/handler"
	"zajil/internal/infra/db"
	"zajil/internal/infra/notifier"
	infraRepo "zajil/internal/infra/repository"
	"zajil/internal/middleware"
	"zajil/internal/server"
	"zajil/internal/usecase"
	auth "zajil/internal/usecase/auth_usecase"
	"zajil/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	// .env は無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Error("db connect", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("db migrate", slog.Any("error", err))
		os.Exit(1)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	tokenRepo := infraRepo.NewAuthTokenGormRepository(gormDB)
	authorRepo := infraRepo.NewAuthorGormRepository(gormDB)
	bookRepo := infraRepo.NewBookGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	sessions := infraRepo.NewSessionGormStore(gormDB, cfg.SessionTTL)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	validate := validator.New()

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//通知（メール・Kafka・管理画面WebSocket）
	ctx := context.Background()
	var mailer notifier.Mailer = notifier.NewLogMailer(logger)
	if cfg.SESEnabled() {
		ses, err := notifier.NewSESMailer(ctx, cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.DefaultFromEmail)
		if err != nil {
			logger.Error("ses", slog.Any("error", err))
			os.Exit(1)
		}
		mailer = ses
	}

	feed := notifier.NewFeed(cfg.FEURL, logger)
	publishers := []notifier.EventPublisher{feed}
	var kafka *notifier.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err = notifier.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		if err != nil {
			logger.Error("kafka", slog.Any("error", err))
			os.Exit(1)
		}
		publishers = append(publishers, kafka)
	}
	dispatcher := notifier.NewOrderDispatcher(mailer, cfg.AdminEmail, publishers...)

	//Usecase生成
	tokens := auth.NewTokenService(tokenRepo, userRepo, auth.RandomKeyGenerator{}, clock)
	registerUC := auth.NewRegisterUserUsecase(userRepo, tokens, hasher, validate, clock)
	loginUC := auth.NewLoginUsecase(userRepo, tokens, verifier, validate, clock)
	accountUC := auth.NewAccountUsecase(userRepo, tokens, hasher, verifier, validate, clock)

	catalogUC := usecase.NewCatalogUsecase(bookRepo, authorRepo, txm, validate, clock)
	cartUC := usecase.NewCartUsecase(sessions, bookRepo)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, sessions, validate, dispatcher, idGen, clock, logger)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, orderRepo, auditRepo, clock)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(registerUC, loginUC, accountUC),
		Books:        handler.NewBookHandler(catalogUC),
		Cart:         handler.NewCartHandler(cartUC),
		Orders:       handler.NewOrderHandler(orderUC),
		AdminOrders:  handler.NewAdminOrderHandler(adminOrderUC, feed),
		AdminCatalog: handler.NewAdminCatalogHandler(catalogUC),
	}

	e := server.New(cfg, logger)
	session := middleware.Session(middleware.SessionConfig{
		Secret: []byte(cfg.SecretKey),
		TTL:    cfg.SessionTTL,
		Secure: cfg.IsProd(),
	})
	server.RegisterRoutes(e, handlers, session, tokens)

	//期限切れセッションの掃除
	stopSweep := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := sessions.DeleteExpired(ctx)
				if err != nil {
					logger.Warn("session sweep", slog.Any("error", err))
					continue
				}
				logger.Debug("session sweep", slog.Int64("deleted", n))
			case <-stopSweep:
				return
			}
		}
	}()

	//Server起動
	addr := ":" + cfg.Port
	logger.Info("listening", slog.String("addr", addr), slog.String("env", cfg.GoEnv))
	err = server.Start(e, addr, func() {
		close(stopSweep)
		orderUC.WaitNotifications()
		feed.Close()
		if kafka != nil {
			kafka.Close()
		}
	})
	if err != nil {
		logger.Error("server", slog.Any("error", err))
		os.Exit(1)
	}
}
