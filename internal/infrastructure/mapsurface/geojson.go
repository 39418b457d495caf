package mapsurface

import (
	"github.com/paulmach/orb/geojson"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
)

// GeoJSON は地図の状態を FeatureCollection として出力する。
// マーカーは Point、オーバーレイはその形状、表示領域は "viewport" の Polygon になる
func (s *Surface) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, a := range s.annotations {
		f := geojson.NewFeature(a.Coordinate.Point())
		f.ID = a.ID
		f.Properties["kind"] = "annotation"
		f.Properties["role"] = string(a.Role)
		f.Properties["title"] = a.Title
		if a.Subtitle != "" {
			f.Properties["subtitle"] = a.Subtitle
		}
		fc.Append(f)
	}

	for _, o := range s.overlays {
		style := s.styleFor(o)
		f := geojson.NewFeature(o.Geometry())
		f.ID = o.ID
		f.Properties["kind"] = string(o.Kind)
		f.Properties["stroke"] = style.Stroke
		f.Properties["line_width"] = style.LineWidth
		if style.Fill != nil {
			f.Properties["fill"] = *style.Fill
		}
		if o.Kind == model.OverlayCircle {
			f.Properties["radius_meters"] = o.RadiusMeters
		}
		fc.Append(f)
	}

	if viewport, ok := s.viewport(); ok {
		f := geojson.NewFeature(viewport.Orb().ToPolygon())
		f.Properties["kind"] = "viewport"
		if s.camera.Padding != nil {
			f.Properties["padding"] = *s.camera.Padding
		}
		fc.Append(f)
	}

	return fc
}

func (s *Surface) viewport() (model.Bounds, bool) {
	switch {
	case s.camera.Bounds != nil:
		return *s.camera.Bounds, true
	case s.camera.Region != nil:
		return model.BoundsFromOrb(s.camera.Region.Bound()), true
	}
	return model.Bounds{}, false
}
