package repository

import "github.com/rhnptl79/Map-Demo/internal/domain/model"

// MapSurface は地図描画ウィジェットのラッパーが満たす操作
type MapSurface interface {
	AddAnnotation(a model.Annotation)
	RemoveAllAnnotations()
	AddOverlay(o model.Overlay)
	RemoveAllOverlays()
	SetVisibleRegion(center model.Coordinate, span model.Span)
	SetVisibleBounds(bounds model.Bounds, padding model.EdgePadding)
}

// MapDelegate は地図とホストからのイベントを受け取るオブザーバ
type MapDelegate interface {
	OnLocationUpdate(coord model.Coordinate)
	OnDoubleTap(coord model.Coordinate)
	OnLongPress(coord model.Coordinate)
	OnAnnotationViewRequested(a model.Annotation) model.AnnotationView
	OnOverlayRenderRequested(o model.Overlay) model.OverlayStyle
	OnCalloutTapped(a model.Annotation) model.Dialog
}
