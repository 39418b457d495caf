package model

import "github.com/google/uuid"

// AnnotationRole はマーカーの役割
type AnnotationRole string

const (
	RoleCurrentLocation AnnotationRole = "current_location"
	RoleDestination     AnnotationRole = "destination"
	RoleFavorite        AnnotationRole = "favorite"
	RolePlace           AnnotationRole = "place"
)

// Annotation は地図上に表示されるマーカー
type Annotation struct {
	ID         string         `json:"id"`
	Role       AnnotationRole `json:"role"`
	Title      string         `json:"title"`
	Subtitle   string         `json:"subtitle,omitempty"`
	Coordinate Coordinate     `json:"coordinate"`
}

// NewAnnotation は新しいIDを採番してAnnotationを生成する
func NewAnnotation(role AnnotationRole, coord Coordinate, title, subtitle string) Annotation {
	return Annotation{
		ID:         uuid.NewString(),
		Role:       role,
		Title:      title,
		Subtitle:   subtitle,
		Coordinate: coord,
	}
}

// AnnotationView はホストがマーカーを描画するための表示設定
type AnnotationView struct {
	Image            string `json:"image"`
	CanShowCallout   bool   `json:"can_show_callout"`
	CalloutAccessory string `json:"callout_accessory,omitempty"`
}

// DialogAction はダイアログのボタン
type DialogAction struct {
	Title string `json:"title"`
	Style string `json:"style"` // "cancel" など
}

// Dialog はコールアウトのアクセサリをタップした際に表示する情報ダイアログ
type Dialog struct {
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Actions []DialogAction `json:"actions"`
}
