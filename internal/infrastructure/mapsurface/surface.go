package mapsurface

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
	"github.com/rhnptl79/Map-Demo/internal/domain/repository"
)

// ErrAnnotationNotFound は指定IDのマーカーが地図上に存在しないことを表す
var ErrAnnotationNotFound = errors.New("マーカーが見つかりません")

// Surface はホスト側で描画される地図の状態を保持する。
// メインループ上からのみ操作する前提でロックは持たない
type Surface struct {
	delegate    repository.MapDelegate
	logger      *slog.Logger
	annotations []model.Annotation
	overlays    []model.Overlay
	camera      model.Camera
}

// New は空の地図を作成する
func New(logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{logger: logger}
}

// SetDelegate はジェスチャーや描画要求の通知先を設定する
func (s *Surface) SetDelegate(d repository.MapDelegate) {
	s.delegate = d
}

func (s *Surface) AddAnnotation(a model.Annotation) {
	s.annotations = append(s.annotations, a)
}

func (s *Surface) RemoveAllAnnotations() {
	s.annotations = nil
}

func (s *Surface) AddOverlay(o model.Overlay) {
	s.overlays = append(s.overlays, o)
}

func (s *Surface) RemoveAllOverlays() {
	s.overlays = nil
}

func (s *Surface) SetVisibleRegion(center model.Coordinate, span model.Span) {
	s.camera = model.Camera{Region: &model.Region{Center: center, Span: span}}
}

func (s *Surface) SetVisibleBounds(bounds model.Bounds, padding model.EdgePadding) {
	s.camera = model.Camera{Bounds: &bounds, Padding: &padding}
}

// DoubleTap はホストで発生したダブルタップを通知する
func (s *Surface) DoubleTap(coord model.Coordinate) error {
	if err := coord.Validate(); err != nil {
		return err
	}
	if s.delegate != nil {
		s.delegate.OnDoubleTap(coord)
	}
	return nil
}

// LongPress はホストで発生した長押しを通知する
func (s *Surface) LongPress(coord model.Coordinate) error {
	if err := coord.Validate(); err != nil {
		return err
	}
	if s.delegate != nil {
		s.delegate.OnLongPress(coord)
	}
	return nil
}

// TapCallout はマーカーのコールアウトの詳細ボタンがタップされたことを通知し、表示するダイアログを返す
func (s *Surface) TapCallout(annotationID string) (model.Dialog, error) {
	a, ok := s.annotation(annotationID)
	if !ok {
		return model.Dialog{}, fmt.Errorf("%w: %s", ErrAnnotationNotFound, annotationID)
	}
	if s.delegate == nil {
		return model.Dialog{}, nil
	}
	return s.delegate.OnCalloutTapped(a), nil
}

// Annotations は表示中のマーカーのコピーを返す
func (s *Surface) Annotations() []model.Annotation {
	return append([]model.Annotation(nil), s.annotations...)
}

// Overlays は表示中のオーバーレイのコピーを返す
func (s *Surface) Overlays() []model.Overlay {
	return append([]model.Overlay(nil), s.overlays...)
}

// Camera は現在の表示領域を返す
func (s *Surface) Camera() model.Camera {
	return s.camera
}

func (s *Surface) annotation(id string) (model.Annotation, bool) {
	for _, a := range s.annotations {
		if a.ID == id {
			return a, true
		}
	}
	return model.Annotation{}, false
}

var _ repository.MapSurface = (*Surface)(nil)
