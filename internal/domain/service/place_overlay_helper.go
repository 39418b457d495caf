package service

import "github.com/rhnptl79/Map-Demo/internal/domain/model"

// PlaceDisplayMode はカタログの場所をどう地図に表示するか
type PlaceDisplayMode string

const (
	PlaceDisplayAnnotate PlaceDisplayMode = "annotate"
	PlaceDisplayPolyline PlaceDisplayMode = "polyline"
	PlaceDisplayPolygon  PlaceDisplayMode = "polygon"
)

// Valid は対応している表示モードかどうかを返す
func (m PlaceDisplayMode) Valid() bool {
	switch m {
	case PlaceDisplayAnnotate, PlaceDisplayPolyline, PlaceDisplayPolygon:
		return true
	}
	return false
}

// ShowPlaces はカタログの各場所にマーカーと半径2kmの円を追加する
func (c *InteractionController) ShowPlaces() {
	for _, p := range model.Places() {
		c.surface.AddAnnotation(p.Annotation())
		c.surface.AddOverlay(model.NewCircle(p.Coordinate, model.PlaceCircleRadiusMeters))
	}
}

// TracePlaces はカタログの場所を順に結ぶ折れ線を追加する
func (c *InteractionController) TracePlaces() {
	c.surface.AddOverlay(model.NewPolyline(model.PlaceCoordinates()))
}

// OutlinePlaces はカタログの場所を頂点とする多角形を追加する
func (c *InteractionController) OutlinePlaces() {
	c.surface.AddOverlay(model.NewPolygon(model.PlaceCoordinates()))
}

// DisplayPlaces はモードに応じてカタログの場所を表示する
func (c *InteractionController) DisplayPlaces(mode PlaceDisplayMode) {
	switch mode {
	case PlaceDisplayPolyline:
		c.TracePlaces()
	case PlaceDisplayPolygon:
		c.OutlinePlaces()
	default:
		c.ShowPlaces()
	}
}
