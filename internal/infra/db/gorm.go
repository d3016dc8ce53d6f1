package db

import (
	"context"
	"fmt"
	"time"

	"restaurant-api/internal/config"
	"restaurant-api/internal/domain/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
// 一意制約違反は gorm.ErrDuplicatedKey に変換される。
func Connect(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	pgCfg, err := pgx.ParseConfig(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	// 接続確立だけのタイムアウト（クエリはcontextで切る）
	pgCfg.ConnectTimeout = cfg.UpstreamTimeout

	sqlDB := stdlib.OpenDB(*pgCfg)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), Options())
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.UpstreamTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// Options はテスト（sqlite）でも同じ設定を使うため公開
func Options() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

// Migrate はテーブルを作成・更新する
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Table{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.AuditLog{},
		&model.LoginAttempt{},
	)
}
