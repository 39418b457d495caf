package model

import (
	"errors"
	"time"
)

// ErrNoRoutes は経路検索の結果が0件だったことを表す
var ErrNoRoutes = errors.New("有効なルートが返されませんでした")

// TransportMode は経路検索の移動手段
type TransportMode string

const (
	TransportDriving   TransportMode = "driving"
	TransportWalking   TransportMode = "walking"
	TransportBicycling TransportMode = "bicycling"
	TransportTransit   TransportMode = "transit"
)

// Valid は対応している移動手段かどうかを返す
func (m TransportMode) Valid() bool {
	switch m {
	case TransportDriving, TransportWalking, TransportBicycling, TransportTransit:
		return true
	}
	return false
}

// Route は経路検索で得られた一つのルート候補。永続化はしない
type Route struct {
	Summary        string        `json:"summary,omitempty"`
	Path           []Coordinate  `json:"path"`
	Bounds         Bounds        `json:"bounds"`
	DistanceMeters int           `json:"distance_meters"`
	Duration       time.Duration `json:"duration"`
}

// Polyline はルートの経路を折れ線オーバーレイに変換する
func (r Route) Polyline() Overlay {
	return NewPolyline(r.Path)
}

// VisibleBounds はビューポートを合わせるべき矩形。Boundsが空なら経路から計算する
func (r Route) VisibleBounds() Bounds {
	if r.Bounds.IsZero() {
		return BoundsOf(r.Path)
	}
	return r.Bounds
}
