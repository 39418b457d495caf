package location

import (
	"context"
	"errors"
	"sync"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
	"github.com/rhnptl79/Map-Demo/internal/domain/repository"
)

// ErrUpdatesNotStarted は StartUpdates 前に位置が届いたことを表す
var ErrUpdatesNotStarted = errors.New("位置情報の更新が開始されていません")

// PushTracker はホストから送られてくる位置情報を受け取る LocationTracker。
// 許可と更新開始が済むまで、届いた位置は捨てる
type PushTracker struct {
	mu            sync.Mutex
	authorization repository.Authorization
	autoAuthorize bool
	callback      func(model.Coordinate)
	last          *model.Coordinate
}

// NewPushTracker は新しいPushTrackerを作成する。
// autoAuthorize がfalseの場合、許可はホストが SetAuthorization で伝える
func NewPushTracker(autoAuthorize bool) *PushTracker {
	return &PushTracker{
		authorization: repository.AuthorizationNotDetermined,
		autoAuthorize: autoAuthorize,
	}
}

// RequestPermission は利用許可を要求する。判定済みならその結果を返す
func (t *PushTracker) RequestPermission(_ context.Context) (repository.Authorization, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.authorization == repository.AuthorizationNotDetermined && t.autoAuthorize {
		t.authorization = repository.AuthorizationWhenInUse
	}
	if t.authorization == repository.AuthorizationDenied {
		return t.authorization, repository.ErrPermissionDenied
	}
	return t.authorization, nil
}

// SetAuthorization はホストのプロンプト結果を反映する
func (t *PushTracker) SetAuthorization(a repository.Authorization) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.authorization = a
}

// Authorization は現在の許可状態を返す
func (t *PushTracker) Authorization() repository.Authorization {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.authorization
}

// StartUpdates は位置を受け取るコールバックを登録する
func (t *PushTracker) StartUpdates(callback func(model.Coordinate)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.authorization == repository.AuthorizationDenied {
		return repository.ErrPermissionDenied
	}
	t.callback = callback
	return nil
}

// StopUpdates はコールバックの登録を解除する
func (t *PushTracker) StopUpdates() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callback = nil
}

// Push はホストから届いた位置をコールバックへ渡す
func (t *PushTracker) Push(coord model.Coordinate) error {
	if err := coord.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	if t.authorization != repository.AuthorizationWhenInUse {
		t.mu.Unlock()
		return repository.ErrPermissionDenied
	}
	cb := t.callback
	if cb == nil {
		t.mu.Unlock()
		return ErrUpdatesNotStarted
	}
	t.last = &coord
	t.mu.Unlock()

	cb(coord)
	return nil
}

// LastLocation は最後に受け取った位置を返す
func (t *PushTracker) LastLocation() (model.Coordinate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return model.Coordinate{}, false
	}
	return *t.last, true
}

var _ repository.LocationTracker = (*PushTracker)(nil)
