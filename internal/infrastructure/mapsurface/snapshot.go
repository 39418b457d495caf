package mapsurface

import "github.com/rhnptl79/Map-Demo/internal/domain/model"

// AnnotationSnapshot はマーカーとその表示設定
type AnnotationSnapshot struct {
	model.Annotation
	View model.AnnotationView `json:"view"`
}

// OverlaySnapshot はオーバーレイとその描画スタイル
type OverlaySnapshot struct {
	model.Overlay
	Style model.OverlayStyle `json:"style"`
}

// Snapshot はホストが地図を描画するために必要な状態一式
type Snapshot struct {
	Annotations []AnnotationSnapshot `json:"annotations"`
	Overlays    []OverlaySnapshot    `json:"overlays"`
	Camera      model.Camera         `json:"camera"`
}

// Snapshot は現在の地図の状態を、デリゲートに問い合わせた表示設定付きで返す
func (s *Surface) Snapshot() Snapshot {
	snap := Snapshot{
		Annotations: make([]AnnotationSnapshot, 0, len(s.annotations)),
		Overlays:    make([]OverlaySnapshot, 0, len(s.overlays)),
		Camera:      s.camera,
	}
	for _, a := range s.annotations {
		snap.Annotations = append(snap.Annotations, AnnotationSnapshot{Annotation: a, View: s.viewFor(a)})
	}
	for _, o := range s.overlays {
		snap.Overlays = append(snap.Overlays, OverlaySnapshot{Overlay: o, Style: s.styleFor(o)})
	}
	return snap
}

func (s *Surface) viewFor(a model.Annotation) model.AnnotationView {
	if s.delegate == nil {
		return model.AnnotationView{}
	}
	return s.delegate.OnAnnotationViewRequested(a)
}

func (s *Surface) styleFor(o model.Overlay) model.OverlayStyle {
	if s.delegate == nil {
		return model.StyleFor(o.Kind)
	}
	return s.delegate.OnOverlayRenderRequested(o)
}
