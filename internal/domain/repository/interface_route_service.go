package repository

import (
	"context"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
)

// RouteService は2地点間の経路を計算する外部サービス
type RouteService interface {
	// ComputeRoute は候補ルートを返す。呼び出し側は先頭のルートのみを使う
	ComputeRoute(ctx context.Context, from, to model.Coordinate, mode model.TransportMode) ([]model.Route, error)
}
