package eventloop

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopStopped はループ停止後に処理を投入したことを表す
var ErrLoopStopped = errors.New("イベントループは停止しています")

// Loop は投入された関数を1つのgoroutineで順番に実行する（UIのメインスレッドに相当）
type Loop struct {
	queue    chan func()
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New は新しいLoopを作成する。size はキューのバッファ長
func New(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		queue: make(chan func(), size),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Run は ctx がキャンセルされるか Stop が呼ばれるまでキューを処理する
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.quit:
			l.drain()
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// drain は停止時にキューに残っている処理を実行する
func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.queue:
			fn()
		default:
			return
		}
	}
}

// Post は fn を非同期に投入する。停止済みならfalse
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.quit:
		return false
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.quit:
		return false
	case <-l.done:
		return false
	}
}

// Call は fn をループ上で実行し、完了まで待つ
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop は新規投入を止め、キューに残った処理を実行し終えるまで待つ。Run 実行中に呼ぶこと
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.quit) })
	<-l.done
}

// Done はループが終了すると閉じられるチャネルを返す
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
