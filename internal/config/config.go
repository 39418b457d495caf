package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config はアプリケーション全体の設定
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Directions DirectionsConfig `mapstructure:"directions"`
	Session    SessionConfig    `mapstructure:"session"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"` // debug, release, test
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// DirectionsConfig は経路検索APIの設定
type DirectionsConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	Language      string        `mapstructure:"language"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
}

// SessionConfig は地図セッションの設定
type SessionConfig struct {
	KeepDestinationPin bool `mapstructure:"keep_destination_pin"`
	QueueSize          int  `mapstructure:"queue_size"`
	AutoAuthorize      bool `mapstructure:"auto_authorize"`
}

// Load は .env、設定ファイル、環境変数の順に読み込む。
// 環境変数は MAPDEMO_DIRECTIONS_API_KEY → directions.api_key のように対応する
func Load(configPath string) (*Config, error) {
	// .envが無い環境（Cloud Run等）もあるため失敗は無視する
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("directions.base_url", "https://maps.googleapis.com/maps/api/directions/json")
	v.SetDefault("directions.api_key", "")
	v.SetDefault("directions.language", "en")
	v.SetDefault("directions.timeout", 10*time.Second)
	v.SetDefault("directions.rate_per_second", 5.0)
	v.SetDefault("session.keep_destination_pin", false)
	v.SetDefault("session.queue_size", 64)
	v.SetDefault("session.auto_authorize", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
	}

	v.SetEnvPrefix("MAPDEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定の変換に失敗: %w", err)
	}

	// Google Maps のキーは従来の環境変数名でも受け付ける
	if cfg.Directions.APIKey == "" {
		cfg.Directions.APIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は設定値の妥当性をまとめて検証する
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Sprintf("server.gin_mode must be debug, release or test, got %q", c.Server.GinMode))
	}
	if c.Directions.BaseURL == "" {
		errs = append(errs, "directions.base_url is required")
	}
	if c.Directions.Timeout <= 0 {
		errs = append(errs, "directions.timeout must be positive")
	}
	if c.Directions.RatePerSecond < 0 {
		errs = append(errs, "directions.rate_per_second must not be negative")
	}
	if c.Session.QueueSize <= 0 {
		errs = append(errs, "session.queue_size must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// GetServerAddr はサーバーのアドレスを ":port" 形式で返す
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger は設定に従って slog.Logger を作成する
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
