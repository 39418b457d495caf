package model

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// OverlayKind はオーバーレイの種類
type OverlayKind string

const (
	OverlayCircle   OverlayKind = "circle"
	OverlayPolyline OverlayKind = "polyline"
	OverlayPolygon  OverlayKind = "polygon"
)

// Overlay は地図上に描画される図形（円・線・多角形）
type Overlay struct {
	ID           string       `json:"id"`
	Kind         OverlayKind  `json:"kind"`
	Center       *Coordinate  `json:"center,omitempty"`        // circleのみ
	RadiusMeters float64      `json:"radius_meters,omitempty"` // circleのみ
	Path         []Coordinate `json:"path,omitempty"`          // polyline, polygon
}

// NewCircle は中心と半径（メートル）から円オーバーレイを生成する
func NewCircle(center Coordinate, radiusMeters float64) Overlay {
	return Overlay{
		ID:           uuid.NewString(),
		Kind:         OverlayCircle,
		Center:       &center,
		RadiusMeters: radiusMeters,
	}
}

// NewPolyline は座標列から折れ線オーバーレイを生成する
func NewPolyline(path []Coordinate) Overlay {
	return Overlay{
		ID:   uuid.NewString(),
		Kind: OverlayPolyline,
		Path: append([]Coordinate(nil), path...),
	}
}

// NewPolygon は座標列から多角形オーバーレイを生成する
func NewPolygon(path []Coordinate) Overlay {
	return Overlay{
		ID:   uuid.NewString(),
		Kind: OverlayPolygon,
		Path: append([]Coordinate(nil), path...),
	}
}

// Geometry は orb のジオメトリに変換する
func (o Overlay) Geometry() orb.Geometry {
	switch o.Kind {
	case OverlayCircle:
		if o.Center == nil {
			return orb.Point{}
		}
		return o.Center.Point()
	case OverlayPolygon:
		ring := orb.Ring(LineString(o.Path))
		if len(ring) > 0 && !ring.Closed() {
			ring = append(ring, ring[0])
		}
		return orb.Polygon{ring}
	default:
		return LineString(o.Path)
	}
}

// Bound はオーバーレイ全体を包む矩形を返す
func (o Overlay) Bound() orb.Bound {
	if o.Kind == OverlayCircle && o.Center != nil {
		return geo.NewBoundAroundPoint(o.Center.Point(), o.RadiusMeters)
	}
	return o.Geometry().Bound()
}
