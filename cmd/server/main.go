package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pantrypal-backend/internal/config"
	"pantrypal-backend/internal/email"
	httproutes "pantrypal-backend/internal/http"
	"pantrypal-backend/internal/http/handlers"
	"pantrypal-backend/internal/services"
	"pantrypal-backend/internal/store"
	"pantrypal-backend/pkg/security"
)

func main() {
	if err := run(http.ListenAndServe); err != nil {
		log.Fatal(err)
	}
}

func run(listen func(string, http.Handler) error) error {
	_ = godotenv.Load(".env")

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := config.Load(os.Getenv)

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	addr, handler, authSvc := buildServer(cfg, db, logger)

	stop := make(chan struct{})
	defer close(stop)
	go purgeLoop(authSvc, cfg.PurgeInterval, stop)

	logger.Info("server listening", zap.String("addr", addr))
	return listen(addr, handler)
}

func buildServer(cfg *config.Config, db *gorm.DB, logger *zap.Logger) (string, http.Handler, *services.AuthService) {
	codec := security.NewTokenCodec(cfg.JWTSecret)
	hasher := security.NewPasswordHasher(cfg.BcryptCost)

	mailer := email.NewSMTPDispatcher(email.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword,
		From:        cfg.EmailFrom,
		FrontendURL: cfg.FrontendURL,
		Mock:        cfg.MockEmail,
	}, logger)

	users := store.NewUserStore(db)
	sessions := store.NewSessionStore(db, cfg.RefreshTokenTTL)
	resets := store.NewResetStore(db, cfg.ResetTokenTTL)

	authSvc := services.NewAuthService(users, sessions, resets, codec, hasher, mailer, cfg.AccessTokenTTL, logger)
	inventorySvc := services.NewInventoryService(db, logger)
	statsSvc := services.NewStatsService(db, logger)

	mux := http.NewServeMux()
	httproutes.Routes(mux, httproutes.Deps{
		Auth:      handlers.NewAuthHandler(authSvc, logger),
		Inventory: handlers.NewInventoryHandler(inventorySvc, logger),
		Stats:     handlers.NewStatsHandler(statsSvc, logger),
		Codec:     codec,
	})

	return ":" + cfg.Port, mux, authSvc
}

// purgeLoop periodically drops refresh and reset tokens that are already
// logically dead. It has no ordering dependency on the request path.
func purgeLoop(svc *services.AuthService, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			svc.PurgeExpiredTokens()
		case <-stop:
			return
		}
	}
}
