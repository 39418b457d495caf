package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rhnptl79/Map-Demo/internal/handler"
)

var shutdownTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the map session HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "グレースフルシャットダウンの待ち時間")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(os.Stdout)
	if err != nil {
		return err
	}
	defer a.useCase.Shutdown()

	gin.SetMode(a.cfg.Server.GinMode)
	router := handler.NewRouter(handler.NewMapSessionHandler(a.useCase))

	srv := &http.Server{
		Addr:              a.cfg.GetServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("🚀 サーバーを起動", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("🛑 サーバーを停止中")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.logger.Info("✅ サーバーを停止しました")
	return nil
}
