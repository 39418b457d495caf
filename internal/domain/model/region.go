package model

import "github.com/paulmach/orb"

// Span は表示領域の大きさ（ズームレベルに相当）
type Span struct {
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}

// Region は中心座標とSpanで定義される表示領域
type Region struct {
	Center Coordinate `json:"center"`
	Span   Span       `json:"span"`
}

// Bound は Region が覆う範囲を orb.Bound で返す
func (r Region) Bound() orb.Bound {
	halfLat := r.Span.LatitudeDelta / 2
	halfLng := r.Span.LongitudeDelta / 2
	return orb.Bound{
		Min: orb.Point{r.Center.Longitude - halfLng, r.Center.Latitude - halfLat},
		Max: orb.Point{r.Center.Longitude + halfLng, r.Center.Latitude + halfLat},
	}
}

// Bounds は南西端と北東端で表す矩形領域
type Bounds struct {
	SouthWest Coordinate `json:"south_west"`
	NorthEast Coordinate `json:"north_east"`
}

// BoundsFromOrb は orb.Bound を Bounds に変換する
func BoundsFromOrb(b orb.Bound) Bounds {
	return Bounds{
		SouthWest: CoordinateFromPoint(b.Min),
		NorthEast: CoordinateFromPoint(b.Max),
	}
}

// BoundsOf は座標列を包む最小の矩形を返す
func BoundsOf(path []Coordinate) Bounds {
	if len(path) == 0 {
		return Bounds{}
	}
	return BoundsFromOrb(LineString(path).Bound())
}

// Orb は orb.Bound に変換する
func (b Bounds) Orb() orb.Bound {
	return orb.Bound{Min: b.SouthWest.Point(), Max: b.NorthEast.Point()}
}

// IsZero は未設定の Bounds かどうかを返す
func (b Bounds) IsZero() bool {
	return b == Bounds{}
}

// Center は矩形の中心座標
func (b Bounds) Center() Coordinate {
	return CoordinateFromPoint(b.Orb().Center())
}

// EdgePadding は表示矩形の各辺に加える余白（画面単位）
type EdgePadding struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
}

// UniformPadding は四辺とも同じ値の余白を返す
func UniformPadding(v float64) EdgePadding {
	return EdgePadding{Top: v, Left: v, Bottom: v, Right: v}
}

// Camera は地図の表示状態。最後に設定された Region か Bounds+Padding のどちらか一方を持つ
type Camera struct {
	Region  *Region      `json:"region,omitempty"`
	Bounds  *Bounds      `json:"bounds,omitempty"`
	Padding *EdgePadding `json:"padding,omitempty"`
}
