package location

import (
	"context"
	"sync"
	"time"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
	"github.com/rhnptl79/Map-Demo/internal/domain/repository"
)

// ReplayTracker は固定の軌跡を一定間隔で再生する LocationTracker（シミュレーション用）
type ReplayTracker struct {
	track    []model.Coordinate
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReplayTracker は新しいReplayTrackerを作成する
func NewReplayTracker(track []model.Coordinate, interval time.Duration) *ReplayTracker {
	if interval <= 0 {
		interval = time.Second
	}
	return &ReplayTracker{
		track:    append([]model.Coordinate(nil), track...),
		interval: interval,
	}
}

// RequestPermission は常に許可済みを返す
func (r *ReplayTracker) RequestPermission(_ context.Context) (repository.Authorization, error) {
	return repository.AuthorizationWhenInUse, nil
}

// StartUpdates は軌跡の再生を開始する。最初の位置はすぐに通知される
func (r *ReplayTracker) StartUpdates(callback func(model.Coordinate)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		<-r.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel, r.done = cancel, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for i, coord := range r.track {
			if i > 0 {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			callback(coord)
		}
	}()
	return nil
}

// StopUpdates は再生を止め、再生goroutineの終了を待つ
func (r *ReplayTracker) StopUpdates() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel, r.done = nil, nil
}

// Done は再生が終わると閉じられるチャネルを返す。未開始ならnil
func (r *ReplayTracker) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

var _ repository.LocationTracker = (*ReplayTracker)(nil)
