package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
	"github.com/rhnptl79/Map-Demo/internal/domain/repository"
	"github.com/rhnptl79/Map-Demo/internal/domain/service"
	"github.com/rhnptl79/Map-Demo/internal/infrastructure/eventloop"
	"github.com/rhnptl79/Map-Demo/internal/infrastructure/location"
	"github.com/rhnptl79/Map-Demo/internal/infrastructure/mapsurface"
	"github.com/rhnptl79/Map-Demo/internal/metrics"
)

// ErrSessionNotFound は指定IDのセッションが存在しないことを表す
var ErrSessionNotFound = errors.New("セッションが見つかりません")

type MapSessionUseCase interface {
	// CreateSession は新しい地図セッションを開始し、位置情報の許可を要求する
	CreateSession(ctx context.Context) (*SessionInfo, error)
	CloseSession(ctx context.Context, sessionID string) error

	SetAuthorization(ctx context.Context, sessionID string, auth repository.Authorization) error
	UpdateLocation(ctx context.Context, sessionID string, coord model.Coordinate) error
	DoubleTap(ctx context.Context, sessionID string, coord model.Coordinate) error
	LongPress(ctx context.Context, sessionID string, coord model.Coordinate) error
	// RequestRoute はルート要求を発行する。目的地か現在地が未確定で無視された場合はfalse
	RequestRoute(ctx context.Context, sessionID string) (bool, error)
	DisplayPlaces(ctx context.Context, sessionID string, mode service.PlaceDisplayMode) error
	TapCallout(ctx context.Context, sessionID, annotationID string) (model.Dialog, error)

	GetMap(ctx context.Context, sessionID string) (*MapState, error)
	GetMapGeoJSON(ctx context.Context, sessionID string) (*geojson.FeatureCollection, error)

	// WaitRoutes は実行中のルート計算の完了を待ち、その描画を反映させる
	WaitRoutes(ctx context.Context, sessionID string) error

	// Shutdown は全セッションを閉じる
	Shutdown()
}

// SessionInfo はセッション作成時のレスポンス
type SessionInfo struct {
	SessionID     string                   `json:"session_id"`
	Authorization repository.Authorization `json:"authorization"`
	CreatedAt     time.Time                `json:"created_at"`
}

// MapState はホストが画面を描画するためのセッション状態
type MapState struct {
	SessionID          string            `json:"session_id"`
	RouteActionEnabled bool              `json:"route_action_enabled"`
	Destination        *model.Coordinate `json:"destination,omitempty"`
	CurrentLocation    *model.Coordinate `json:"current_location,omitempty"`
	mapsurface.Snapshot
}

// SessionOptions はセッション生成時の設定
type SessionOptions struct {
	QueueSize     int
	AutoAuthorize bool
	Controller    service.ControllerOptions
}

type mapSession struct {
	id         string
	createdAt  time.Time
	cancel     context.CancelFunc
	loop       *eventloop.Loop
	surface    *mapsurface.Surface
	tracker    *location.PushTracker
	controller *service.InteractionController
}

// mapSessionUseCaseImpl はMapSessionUseCaseの実装
type mapSessionUseCaseImpl struct {
	routes repository.RouteService
	opts   SessionOptions
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*mapSession
}

// NewMapSessionUseCase は新しいMapSessionUseCaseインスタンスを作成
func NewMapSessionUseCase(routes repository.RouteService, opts SessionOptions, logger *slog.Logger) MapSessionUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &mapSessionUseCaseImpl{
		routes:   routes,
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*mapSession),
	}
}

func (u *mapSessionUseCaseImpl) CreateSession(ctx context.Context) (*SessionInfo, error) {
	id := uuid.NewString()
	logger := u.logger.With("session_id", id)

	sessionCtx, cancel := context.WithCancel(context.Background())
	loop := eventloop.New(u.opts.QueueSize)
	go loop.Run(sessionCtx)

	surface := mapsurface.New(logger)
	controller := service.NewInteractionController(sessionCtx, surface, u.routes, loop, logger, u.opts.Controller)
	surface.SetDelegate(controller)

	s := &mapSession{
		id:         id,
		createdAt:  time.Now(),
		cancel:     cancel,
		loop:       loop,
		surface:    surface,
		tracker:    location.NewPushTracker(u.opts.AutoAuthorize),
		controller: controller,
	}

	auth, err := s.tracker.RequestPermission(ctx)
	if err != nil && !errors.Is(err, repository.ErrPermissionDenied) {
		s.close()
		return nil, fmt.Errorf("位置情報の許可要求に失敗: %w", err)
	}
	if auth == repository.AuthorizationWhenInUse {
		if err := s.startUpdates(); err != nil {
			s.close()
			return nil, err
		}
	}

	u.mu.Lock()
	u.sessions[id] = s
	u.mu.Unlock()
	metrics.ActiveSessions.Inc()

	logger.Info("🗺️ 地図セッションを開始", "authorization", auth)
	return &SessionInfo{SessionID: id, Authorization: auth, CreatedAt: s.createdAt}, nil
}

func (u *mapSessionUseCaseImpl) CloseSession(_ context.Context, sessionID string) error {
	u.mu.Lock()
	s, ok := u.sessions[sessionID]
	if ok {
		delete(u.sessions, sessionID)
	}
	u.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.close()
	metrics.ActiveSessions.Dec()
	u.logger.Info("セッションを終了", "session_id", sessionID)
	return nil
}

func (u *mapSessionUseCaseImpl) SetAuthorization(_ context.Context, sessionID string, auth repository.Authorization) error {
	s, err := u.session(sessionID)
	if err != nil {
		return err
	}
	s.tracker.SetAuthorization(auth)
	if auth != repository.AuthorizationWhenInUse {
		s.tracker.StopUpdates()
		return nil
	}
	return s.startUpdates()
}

func (u *mapSessionUseCaseImpl) UpdateLocation(ctx context.Context, sessionID string, coord model.Coordinate) error {
	s, err := u.session(sessionID)
	if err != nil {
		return err
	}
	if err := s.tracker.Push(coord); err != nil {
		return err
	}
	// 位置更新がループで処理されるまで待つ
	return s.loop.Call(ctx, func() {})
}

func (u *mapSessionUseCaseImpl) DoubleTap(ctx context.Context, sessionID string, coord model.Coordinate) error {
	return u.onLoop(ctx, sessionID, func(s *mapSession) error {
		return s.surface.DoubleTap(coord)
	})
}

func (u *mapSessionUseCaseImpl) LongPress(ctx context.Context, sessionID string, coord model.Coordinate) error {
	return u.onLoop(ctx, sessionID, func(s *mapSession) error {
		return s.surface.LongPress(coord)
	})
}

func (u *mapSessionUseCaseImpl) RequestRoute(ctx context.Context, sessionID string) (bool, error) {
	var issued bool
	err := u.onLoop(ctx, sessionID, func(s *mapSession) error {
		_, hasLocation := s.controller.CurrentLocation()
		issued = s.controller.RouteActionEnabled() && hasLocation
		s.controller.OnRouteRequested()
		return nil
	})
	return issued, err
}

func (u *mapSessionUseCaseImpl) DisplayPlaces(ctx context.Context, sessionID string, mode service.PlaceDisplayMode) error {
	if !mode.Valid() {
		return fmt.Errorf("対応していない表示モードです: %s", mode)
	}
	return u.onLoop(ctx, sessionID, func(s *mapSession) error {
		s.controller.DisplayPlaces(mode)
		return nil
	})
}

func (u *mapSessionUseCaseImpl) TapCallout(ctx context.Context, sessionID, annotationID string) (model.Dialog, error) {
	var dialog model.Dialog
	err := u.onLoop(ctx, sessionID, func(s *mapSession) error {
		d, err := s.surface.TapCallout(annotationID)
		dialog = d
		return err
	})
	return dialog, err
}

func (u *mapSessionUseCaseImpl) GetMap(ctx context.Context, sessionID string) (*MapState, error) {
	var state *MapState
	err := u.onLoop(ctx, sessionID, func(s *mapSession) error {
		state = &MapState{
			SessionID:          s.id,
			RouteActionEnabled: s.controller.RouteActionEnabled(),
			Snapshot:           s.surface.Snapshot(),
		}
		if dest, ok := s.controller.Destination(); ok {
			state.Destination = &dest
		}
		if cur, ok := s.controller.CurrentLocation(); ok {
			state.CurrentLocation = &cur
		}
		return nil
	})
	return state, err
}

func (u *mapSessionUseCaseImpl) GetMapGeoJSON(ctx context.Context, sessionID string) (*geojson.FeatureCollection, error) {
	var fc *geojson.FeatureCollection
	err := u.onLoop(ctx, sessionID, func(s *mapSession) error {
		fc = s.surface.GeoJSON()
		return nil
	})
	return fc, err
}

func (u *mapSessionUseCaseImpl) WaitRoutes(ctx context.Context, sessionID string) error {
	s, err := u.session(sessionID)
	if err != nil {
		return err
	}
	// 先に積まれたルート要求が発行済みになるのを待ってから完了を待つ
	if err := s.loop.Call(ctx, func() {}); err != nil {
		return err
	}
	s.controller.WaitPending()
	return s.loop.Call(ctx, func() {})
}

func (u *mapSessionUseCaseImpl) Shutdown() {
	u.mu.Lock()
	sessions := u.sessions
	u.sessions = make(map[string]*mapSession)
	u.mu.Unlock()

	for _, s := range sessions {
		s.close()
		metrics.ActiveSessions.Dec()
	}
	u.logger.Info("全セッションを終了", "count", len(sessions))
}

func (u *mapSessionUseCaseImpl) session(id string) (*mapSession, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	s, ok := u.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// onLoop はセッションのメインループ上で fn を実行し、その結果を返す
func (u *mapSessionUseCaseImpl) onLoop(ctx context.Context, sessionID string, fn func(s *mapSession) error) error {
	s, err := u.session(sessionID)
	if err != nil {
		return err
	}
	var fnErr error
	if err := s.loop.Call(ctx, func() { fnErr = fn(s) }); err != nil {
		return err
	}
	return fnErr
}

// startUpdates は位置情報をループ経由でコントローラへ届けるよう登録する
func (s *mapSession) startUpdates() error {
	return s.tracker.StartUpdates(func(coord model.Coordinate) {
		s.loop.Post(func() { s.controller.OnLocationUpdate(coord) })
	})
}

func (s *mapSession) close() {
	s.tracker.StopUpdates()
	s.loop.Stop()
	s.cancel()
	s.controller.WaitPending()
}
