package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/brewerybook/internal/accounts"
	"github.com/hongminglow/brewerybook/internal/auth"
	"github.com/hongminglow/brewerybook/internal/config"
	"github.com/hongminglow/brewerybook/internal/directory"
	"github.com/hongminglow/brewerybook/internal/logging"
	"github.com/hongminglow/brewerybook/internal/server"
	"github.com/hongminglow/brewerybook/internal/storage"
	"github.com/hongminglow/brewerybook/internal/storage/memory"
	"github.com/hongminglow/brewerybook/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	ctx := context.Background()
	userStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}
	defer closeStore()

	hasher, err := auth.NewPasswordHasher(cfg.PasswordScheme, auth.WithBcryptCost(cfg.BcryptCost))
	if err != nil {
		log.Fatalf("init password hasher: %v", err)
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTIssuer)
	if err != nil {
		log.Fatalf("init token manager: %v", err)
	}
	dir, err := directory.NewClient(cfg.DirectoryBaseURL, cfg.DirectoryTimeout)
	if err != nil {
		log.Fatalf("init directory client: %v", err)
	}

	srv := server.New(cfg, server.Deps{
		Accounts:  accounts.NewService(userStore, hasher, tokens, auth.DefaultTTL),
		Gate:      auth.NewGate(tokens, userStore),
		Directory: dir,
		Logger:    logger,
	})

	go func() {
		logger.Info(ctx, "brewerybook listening", "addr", cfg.HTTPAddress(), "store", cfg.StoreDriver)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error(ctx, "graceful shutdown error", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.UserStore, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		return memory.NewUserStore(), func() {}, nil
	}
	store, err := postgres.NewUserStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
