package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rhnptl79/Map-Demo/internal/config"
	"github.com/rhnptl79/Map-Demo/internal/domain/service"
	"github.com/rhnptl79/Map-Demo/internal/infrastructure/maps"
	"github.com/rhnptl79/Map-Demo/internal/usecase"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "mapdemo",
	Short: "Map demo session service",
	Long: `地図デモのセッションサービス。
ホストから届く位置情報とジェスチャーを受け取り、地図の状態と車ルートを管理する。`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "設定ファイルのパス（省略時は ./config.yaml）")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app はコマンド間で共有する依存関係
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	useCase usecase.MapSessionUseCase
}

// newApp は設定を読み込み、依存関係を組み立てる
func newApp(logOutput io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger(logOutput)
	slog.SetDefault(logger)

	if cfg.Directions.APIKey == "" {
		logger.Warn("⚠️ directions.api_key が設定されていません。ルート計算は失敗します")
	}

	directions := maps.NewGoogleDirectionsProvider(cfg.Directions.APIKey,
		maps.WithBaseURL(cfg.Directions.BaseURL),
		maps.WithTimeout(cfg.Directions.Timeout),
		maps.WithRateLimit(cfg.Directions.RatePerSecond),
		maps.WithLanguage(cfg.Directions.Language),
	)

	useCase := usecase.NewMapSessionUseCase(directions, usecase.SessionOptions{
		QueueSize:     cfg.Session.QueueSize,
		AutoAuthorize: cfg.Session.AutoAuthorize,
		Controller: service.ControllerOptions{
			KeepDestinationPin: cfg.Session.KeepDestinationPin,
		},
	}, logger)

	return &app{cfg: cfg, logger: logger, useCase: useCase}, nil
}
