package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
	"github.com/rhnptl79/Map-Demo/internal/domain/repository"
	"github.com/rhnptl79/Map-Demo/internal/metrics"
)

// Dispatcher は関数をセッションのメインループ上で実行させるキュー
type Dispatcher interface {
	// Post は fn をキューに積む。ループが停止済みならfalseを返す
	Post(fn func()) bool
}

// ControllerOptions は InteractionController の動作設定
type ControllerOptions struct {
	// KeepDestinationPin がtrueの場合、位置更新で全マーカーを消した後に目的地マーカーを再表示する
	KeepDestinationPin bool
}

// InteractionController は位置情報・ジェスチャー・ルート要求を仲介する。
// 状態の読み書きはすべてメインループ上で行う前提で、ロックは持たない
type InteractionController struct {
	ctx      context.Context
	surface  repository.MapSurface
	routes   repository.RouteService
	dispatch Dispatcher
	logger   *slog.Logger
	opts     ControllerOptions

	current     *model.Coordinate
	destination *model.Coordinate

	pending sync.WaitGroup
}

// NewInteractionController は新しいInteractionControllerを作成する。
// ctx はルート計算の呼び出しに渡される
func NewInteractionController(
	ctx context.Context,
	surface repository.MapSurface,
	routes repository.RouteService,
	dispatch Dispatcher,
	logger *slog.Logger,
	opts ControllerOptions,
) *InteractionController {
	if logger == nil {
		logger = slog.Default()
	}
	return &InteractionController{
		ctx:      ctx,
		surface:  surface,
		routes:   routes,
		dispatch: dispatch,
		logger:   logger,
		opts:     opts,
	}
}

// OnLocationUpdated は全マーカーを消して現在地マーカーを置き、現在地を中心に表示領域を合わせる
func (c *InteractionController) OnLocationUpdated(coord model.Coordinate) {
	metrics.MapEvents.WithLabelValues("location").Inc()

	c.surface.RemoveAllAnnotations()
	c.surface.AddAnnotation(model.NewAnnotation(model.RoleCurrentLocation, coord, model.TitleCurrentLocation, ""))
	c.surface.SetVisibleRegion(coord, model.LocationSpan())
	c.current = &coord

	if c.opts.KeepDestinationPin && c.destination != nil {
		c.surface.AddAnnotation(model.NewAnnotation(model.RoleDestination, *c.destination, model.TitleDestination, ""))
	}

	c.logger.Debug("📍 現在地を更新", "latitude", coord.Latitude, "longitude", coord.Longitude)
}

// OnPinDropped は全マーカーを消して目的地マーカーを置き、目的地を設定してルート操作を有効にする。
// 描画済みのルートは次のルート要求まで残る
func (c *InteractionController) OnPinDropped(coord model.Coordinate) {
	metrics.MapEvents.WithLabelValues("pin_drop").Inc()

	c.surface.RemoveAllAnnotations()
	c.surface.AddAnnotation(model.NewAnnotation(model.RoleDestination, coord, model.TitleDestination, ""))
	c.destination = &coord

	c.logger.Info("📌 目的地を設定", "latitude", coord.Latitude, "longitude", coord.Longitude)
}

// OnFavoriteMarked はマーカーを追加するだけで、既存のマーカーと目的地には触れない
func (c *InteractionController) OnFavoriteMarked(coord model.Coordinate) {
	metrics.MapEvents.WithLabelValues("favorite").Inc()

	c.surface.AddAnnotation(model.NewAnnotation(model.RoleFavorite, coord, model.TitleFavorite, ""))
}

// OnRouteRequested は現在地から目的地までの車ルートを非同期で要求する。
// 目的地か現在地が未確定なら何もしない。失敗・結果0件は黙って捨てる
func (c *InteractionController) OnRouteRequested() {
	metrics.MapEvents.WithLabelValues("route").Inc()

	if c.destination == nil || c.current == nil {
		metrics.RouteRequests.WithLabelValues(metrics.OutcomeSkipped).Inc()
		c.logger.Debug("ルート要求を無視（目的地または現在地が未確定）",
			"has_destination", c.destination != nil,
			"has_location", c.current != nil,
		)
		return
	}

	c.surface.RemoveAllOverlays()

	from, to := *c.current, *c.destination
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()

		start := time.Now()
		routes, err := c.routes.ComputeRoute(c.ctx, from, to, model.TransportDriving)
		metrics.DirectionsDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			outcome := metrics.OutcomeFailed
			if errors.Is(err, model.ErrNoRoutes) {
				outcome = metrics.OutcomeEmpty
			}
			metrics.RouteRequests.WithLabelValues(outcome).Inc()
			c.logger.Debug("⚠️ ルート計算に失敗、要求を破棄", "error", err)
			return
		}
		if len(routes) == 0 {
			metrics.RouteRequests.WithLabelValues(metrics.OutcomeEmpty).Inc()
			c.logger.Debug("⚠️ ルート候補が0件、要求を破棄")
			return
		}

		route := routes[0]
		if !c.dispatch.Post(func() { c.drawRoute(route) }) {
			c.logger.Debug("メインループ停止済みのためルート描画を破棄")
		}
	}()
}

// drawRoute はルートを折れ線で描き、ルート全体が収まるよう表示領域を合わせる
func (c *InteractionController) drawRoute(route model.Route) {
	c.surface.AddOverlay(route.Polyline())
	c.surface.SetVisibleBounds(route.VisibleBounds(), model.UniformPadding(model.RouteEdgePadding))

	metrics.RouteRequests.WithLabelValues(metrics.OutcomeDrawn).Inc()
	c.logger.Info("✅ ルートを描画",
		"points", len(route.Path),
		"distance_meters", route.DistanceMeters,
		"duration", route.Duration,
	)
}

// RouteActionEnabled はルート操作が有効か（目的地が設定済みか）を返す
func (c *InteractionController) RouteActionEnabled() bool {
	return c.destination != nil
}

// Destination は設定済みの目的地を返す
func (c *InteractionController) Destination() (model.Coordinate, bool) {
	if c.destination == nil {
		return model.Coordinate{}, false
	}
	return *c.destination, true
}

// CurrentLocation は最後に受け取った現在地を返す
func (c *InteractionController) CurrentLocation() (model.Coordinate, bool) {
	if c.current == nil {
		return model.Coordinate{}, false
	}
	return *c.current, true
}

// WaitPending は実行中のルート計算がすべて終わるまで待つ
func (c *InteractionController) WaitPending() {
	c.pending.Wait()
}

// --- MapDelegate の実装 ---

// OnLocationUpdate は位置情報サービスからの通知を受け取る
func (c *InteractionController) OnLocationUpdate(coord model.Coordinate) {
	c.OnLocationUpdated(coord)
}

// OnDoubleTap はダブルタップを目的地の設定として扱う
func (c *InteractionController) OnDoubleTap(coord model.Coordinate) {
	c.OnPinDropped(coord)
}

// OnLongPress は長押しをお気に入りの追加として扱う
func (c *InteractionController) OnLongPress(coord model.Coordinate) {
	c.OnFavoriteMarked(coord)
}

// OnAnnotationViewRequested はカスタム画像のピンを返す。コールアウトには詳細ボタンを付ける
func (c *InteractionController) OnAnnotationViewRequested(_ model.Annotation) model.AnnotationView {
	return model.AnnotationView{
		Image:            model.PinImageName,
		CanShowCallout:   true,
		CalloutAccessory: model.CalloutDetailDisclosure,
	}
}

// OnOverlayRenderRequested はオーバーレイ種別ごとの固定スタイルを返す
func (c *InteractionController) OnOverlayRenderRequested(o model.Overlay) model.OverlayStyle {
	return model.StyleFor(o.Kind)
}

// OnCalloutTapped は固定文言の情報ダイアログを返す
func (c *InteractionController) OnCalloutTapped(_ model.Annotation) model.Dialog {
	metrics.MapEvents.WithLabelValues("callout").Inc()
	return model.Dialog{
		Title:   model.CalloutDialogTitle,
		Message: model.CalloutDialogMessage,
		Actions: []model.DialogAction{{Title: "OK", Style: "cancel"}},
	}
}

var _ repository.MapDelegate = (*InteractionController)(nil)
