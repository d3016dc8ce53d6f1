package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"restaurant-api/internal/config"
	"restaurant-api/internal/infra/db"
	"restaurant-api/internal/infra/gateway"
	"restaurant-api/internal/infra/logger"
	"restaurant-api/internal/server"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}

	//決済ゲートウェイ
	gw := gateway.NewWompiClient(gateway.WompiOptions{
		Env:         cfg.WompiEnv,
		PrivateKey:  cfg.WompiPrivateKey,
		RedirectURL: cfg.PaymentRedirectURL,
		Timeout:     cfg.UpstreamTimeout,
	}, log.Named("wompi"))
	if cfg.WompiPrivateKey == "" {
		log.Warn("WOMPI_PRIVATE_KEY not set, payment links are simulated")
	}
	verifier := gateway.NewSignatureVerifier(cfg.WompiSignatureSecret)
	if !verifier.Enabled() {
		log.Warn("WOMPI_SIGNATURE_SECRET not set, webhook signatures are not verified")
	}

	e := server.New(cfg, server.Deps{
		DB:       gormDB,
		Gateway:  gw,
		Verifier: verifier,
		Logger:   log,
	})

	//Server起動
	addr := ":" + strings.TrimPrefix(cfg.Port, ":")
	if err := server.Start(ctx, e, addr, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
