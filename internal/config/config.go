package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あればPOSTGRES_*より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	SecretKey  string        // セッションCookieの署名キー
	SessionTTL time.Duration // セッションの有効期限（2週間）

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSで使う）

	AdminEmail       string // 注文通知の宛先
	DefaultFromEmail string // 送信元

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	KafkaBrokers    []string // 空ならKafkaに流さない
	KafkaOrderTopic string

	LogLevel slog.Level
}

// 本番か（CookieのSecureに使う）
func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// SESで送れる設定がそろっているか
func (c Config) SESEnabled() bool {
	return c.AWSRegion != "" && c.DefaultFromEmail != ""
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}

	ttl, err := durationDefault("SESSION_TTL", 14*24*time.Hour)
	if err != nil {
		return Config{}, err
	}

	level, err := parseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "zajil"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		SecretKey:  os.Getenv("SECRET_KEY"),
		SessionTTL: ttl,

		GoEnv: getenv("GO_ENV", "dev"),
		FEURL: getenv("FE_URL", "http://localhost:3000"),

		AdminEmail:       getenv("ADMIN_EMAIL", "admin@zajil.dz"),
		DefaultFromEmail: os.Getenv("DEFAULT_FROM_EMAIL"),

		AWSRegion:          os.Getenv("AWS_REGION"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),

		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic: getenv("KAFKA_ORDER_TOPIC", "zajil.orders.placed"),

		LogLevel: level,
	}

	//必須チェック
	if cfg.SecretKey == "" {
		return Config{}, fmt.Errorf("SECRET_KEY is required")
	}
	if cfg.GoEnv != "dev" && cfg.GoEnv != "prod" {
		return Config{}, fmt.Errorf("GO_ENV must be dev or prod")
	}

	return cfg, nil
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
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func parseLevel(v string) (slog.Level, error) {
	if v == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}

// カンマ区切り。空要素は捨てる
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
