package repository

import (
	"context"
	"errors"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
)

// ErrPermissionDenied は位置情報の利用が許可されていないことを表す
var ErrPermissionDenied = errors.New("位置情報の利用が許可されていません")

// Authorization は位置情報の許可状態
type Authorization string

const (
	AuthorizationNotDetermined Authorization = "not_determined"
	AuthorizationWhenInUse     Authorization = "when_in_use"
	AuthorizationDenied        Authorization = "denied"
)

// LocationTracker はプラットフォームの位置情報サービスのラッパー
type LocationTracker interface {
	RequestPermission(ctx context.Context) (Authorization, error)
	StartUpdates(callback func(model.Coordinate)) error
	StopUpdates()
}
