package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
	"github.com/rhnptl79/Map-Demo/internal/infrastructure/location"
)

var (
	simDestLat   float64
	simDestLng   float64
	simInterval  time.Duration
	simGeoJSON   bool
	simFavorites bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a location track, drop a pin and draw the driving route",
	Long: `カタログの場所をたどる位置情報を再生し、目的地にピンを置いて車ルートを要求する。
最終的な地図の状態を標準出力に書き出す。ルート計算には directions.api_key が必要。`,
	RunE: runSimulate,
}

func init() {
	casaLoma := model.Places()[2].Coordinate
	simulateCmd.Flags().Float64Var(&simDestLat, "dest-lat", casaLoma.Latitude, "目的地の緯度")
	simulateCmd.Flags().Float64Var(&simDestLng, "dest-lng", casaLoma.Longitude, "目的地の経度")
	simulateCmd.Flags().DurationVar(&simInterval, "interval", 200*time.Millisecond, "位置情報の再生間隔")
	simulateCmd.Flags().BoolVar(&simGeoJSON, "geojson", false, "GeoJSONで出力する")
	simulateCmd.Flags().BoolVar(&simFavorites, "favorites", false, "再生した各地点を長押しでお気に入りに追加する")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	if simInterval <= 0 {
		return fmt.Errorf("--interval は正の値を指定してください: %s", simInterval)
	}
	destination := model.NewCoordinate(simDestLat, simDestLng)
	if err := destination.Validate(); err != nil {
		return err
	}

	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.useCase.Shutdown()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	info, err := a.useCase.CreateSession(ctx)
	if err != nil {
		return err
	}
	id := info.SessionID

	// ホストの位置情報サービスの代わりに軌跡を再生する
	tracker := location.NewReplayTracker(model.PlaceCoordinates(), simInterval)
	if _, err := tracker.RequestPermission(ctx); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	if err := tracker.StartUpdates(func(coord model.Coordinate) {
		if err := a.useCase.UpdateLocation(ctx, id, coord); err != nil {
			select {
			case errCh <- err:
			default:
			}
		}
	}); err != nil {
		return err
	}

	select {
	case <-tracker.Done():
	case <-ctx.Done():
		tracker.StopUpdates()
		return ctx.Err()
	}
	tracker.StopUpdates()

	select {
	case err := <-errCh:
		return fmt.Errorf("位置情報の送信に失敗: %w", err)
	default:
	}

	if err := a.useCase.DoubleTap(ctx, id, destination); err != nil {
		return err
	}
	if simFavorites {
		for _, p := range model.Places() {
			if err := a.useCase.LongPress(ctx, id, p.Coordinate); err != nil {
				return err
			}
		}
	}
	if _, err := a.useCase.RequestRoute(ctx, id); err != nil {
		return err
	}
	if err := a.useCase.WaitRoutes(ctx, id); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if simGeoJSON {
		fc, err := a.useCase.GetMapGeoJSON(ctx, id)
		if err != nil {
			return err
		}
		return enc.Encode(fc)
	}
	state, err := a.useCase.GetMap(ctx, id)
	if err != nil {
		return err
	}
	return enc.Encode(state)
}
