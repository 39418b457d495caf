package model

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// ErrInvalidCoordinate は緯度経度が有効範囲外であることを表す
var ErrInvalidCoordinate = errors.New("座標が有効範囲外です")

// Coordinate は緯度経度（度）を表す不変の値型
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate は新しいCoordinateを生成する
func NewCoordinate(latitude, longitude float64) Coordinate {
	return Coordinate{Latitude: latitude, Longitude: longitude}
}

// Validate は緯度が-90〜90、経度が-180〜180の範囲にあるか検証する
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude=%f", ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude=%f", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// Point は orb.Point（経度, 緯度の順）に変換する
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

// CoordinateFromPoint は orb.Point から Coordinate を生成する
func CoordinateFromPoint(p orb.Point) Coordinate {
	return Coordinate{Latitude: p.Lat(), Longitude: p.Lon()}
}

// String は "lat,lng" 形式の文字列を返す（Directions APIのパラメータ形式）
func (c Coordinate) String() string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}

// LineString は座標列を orb.LineString に変換する
func LineString(path []Coordinate) orb.LineString {
	ls := make(orb.LineString, len(path))
	for i, c := range path {
		ls[i] = c.Point()
	}
	return ls
}
