package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	JWTSecret string // JWT署名シークレット

	GoEnv    string // dev/prod
	FEURL    string // フロントURL（CORS）
	LogLevel string

	// 外部呼び出し（DB・決済）のタイムアウト
	UpstreamTimeout time.Duration

	// 決済ゲートウェイ（Wompi）
	WompiEnv             string // sandbox/production
	WompiPrivateKey      string // 空ならシミュレーション
	WompiSignatureSecret string // 空なら署名検証しない（開発用）
	PaymentCurrency      string
	PaymentRedirectURL   string

	// ログイン試行制限
	LoginMaxAttempts int
	LoginWindow      time.Duration
}

// Loadは環境変数から設定を読む
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	upstreamTimeout, err := durationDefault("UPSTREAM_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	maxAttempts, err := atoiDefault("LOGIN_MAX_ATTEMPTS", 5)
	if err != nil {
		return Config{}, err
	}
	loginWindow, err := durationDefault("LOGIN_WINDOW", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "restaurant"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:    getenv("GO_ENV", "dev"),
		FEURL:    getenv("FE_URL", "http://localhost:5173"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		UpstreamTimeout: upstreamTimeout,

		WompiEnv:             getenv("WOMPI_ENV", "sandbox"),
		WompiPrivateKey:      os.Getenv("WOMPI_PRIVATE_KEY"),
		WompiSignatureSecret: os.Getenv("WOMPI_SIGNATURE_SECRET"),
		PaymentCurrency:      strings.ToUpper(getenv("PAYMENT_CURRENCY", "COP")),
		PaymentRedirectURL:   os.Getenv("PAYMENT_REDIRECT_URL"),

		LoginMaxAttempts: maxAttempts,
		LoginWindow:      loginWindow,
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.UpstreamTimeout <= 0 {
		return Config{}, fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if cfg.LoginMaxAttempts <= 0 {
		return Config{}, fmt.Errorf("LOGIN_MAX_ATTEMPTS must be positive")
	}
	if cfg.LoginWindow <= 0 {
		return Config{}, fmt.Errorf("LOGIN_WINDOW must be positive")
	}
	switch cfg.WompiEnv {
	case "sandbox", "production":
	default:
		return Config{}, fmt.Errorf("WOMPI_ENV must be sandbox or production")
	}

	return cfg, nil
}

// PostgresDSN はDATABASE_URLが無いときの接続文字列
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func (c Config) IsProduction() bool {
	return c.GoEnv == "prod" || c.GoEnv == "production"
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
