package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
)

// recordingSurface は MapSurface への呼び出しを記録するテスト用の実装
type recordingSurface struct {
	annotations []model.Annotation
	overlays    []model.Overlay

	region  *model.Region
	bounds  *model.Bounds
	padding *model.EdgePadding

	removeAnnotationsCalls int
	removeOverlaysCalls    int
	addOverlayCalls        int
}

func (s *recordingSurface) AddAnnotation(a model.Annotation) {
	s.annotations = append(s.annotations, a)
}

func (s *recordingSurface) RemoveAllAnnotations() {
	s.removeAnnotationsCalls++
	s.annotations = nil
}

func (s *recordingSurface) AddOverlay(o model.Overlay) {
	s.addOverlayCalls++
	s.overlays = append(s.overlays, o)
}

func (s *recordingSurface) RemoveAllOverlays() {
	s.removeOverlaysCalls++
	s.overlays = nil
}

func (s *recordingSurface) SetVisibleRegion(center model.Coordinate, span model.Span) {
	s.region = &model.Region{Center: center, Span: span}
	s.bounds, s.padding = nil, nil
}

func (s *recordingSurface) SetVisibleBounds(bounds model.Bounds, padding model.EdgePadding) {
	s.bounds, s.padding = &bounds, &padding
	s.region = nil
}

func (s *recordingSurface) countRole(role model.AnnotationRole) int {
	n := 0
	for _, a := range s.annotations {
		if a.Role == role {
			n++
		}
	}
	return n
}

// queueDispatcher は Post された関数を溜めておき、テストが任意の順で実行する
type queueDispatcher struct {
	mu    sync.Mutex
	queue []func()
}

func (d *queueDispatcher) Post(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, fn)
	return true
}

func (d *queueDispatcher) take() []func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	q := d.queue
	d.queue = nil
	return q
}

func (d *queueDispatcher) drain() {
	for _, fn := range d.take() {
		fn()
	}
}

func (d *queueDispatcher) drainReverse() {
	q := d.take()
	for i := len(q) - 1; i >= 0; i-- {
		q[i]()
	}
}

type mockRouteService struct {
	mock.Mock
}

func (m *mockRouteService) ComputeRoute(ctx context.Context, from, to model.Coordinate, mode model.TransportMode) ([]model.Route, error) {
	args := m.Called(ctx, from, to, mode)
	routes, _ := args.Get(0).([]model.Route)
	return routes, args.Error(1)
}

func newTestController(opts ControllerOptions) (*InteractionController, *recordingSurface, *mockRouteService, *queueDispatcher) {
	surface := &recordingSurface{}
	routes := &mockRouteService{}
	dispatch := &queueDispatcher{}
	c := NewInteractionController(context.Background(), surface, routes, dispatch, nil, opts)
	return c, surface, routes, dispatch
}

var (
	toronto     = model.NewCoordinate(43.64, -79.38)
	dropped     = model.NewCoordinate(43.70, -79.40)
	torontoPath = []model.Coordinate{toronto, model.NewCoordinate(43.67, -79.39), dropped}
)

func testRoute() model.Route {
	return model.Route{
		Path:           torontoPath,
		Bounds:         model.Bounds{SouthWest: model.NewCoordinate(43.64, -79.40), NorthEast: model.NewCoordinate(43.70, -79.38)},
		DistanceMeters: 8200,
		Duration:       14 * time.Minute,
	}
}

func TestOnLocationUpdated(t *testing.T) {
	t.Run("常に現在地マーカーは最新の1つだけ", func(t *testing.T) {
		c, surface, _, _ := newTestController(ControllerOptions{})

		updates := []model.Coordinate{
			model.NewCoordinate(43.60, -79.30),
			model.NewCoordinate(43.61, -79.31),
			toronto,
		}
		for _, u := range updates {
			c.OnLocationUpdated(u)
			assert.Equal(t, 1, surface.countRole(model.RoleCurrentLocation))
		}

		require.Len(t, surface.annotations, 1)
		assert.Equal(t, toronto, surface.annotations[0].Coordinate)
		assert.Equal(t, model.TitleCurrentLocation, surface.annotations[0].Title)

		require.NotNil(t, surface.region)
		assert.Equal(t, toronto, surface.region.Center)
		assert.Equal(t, model.Span{LatitudeDelta: 0.05, LongitudeDelta: 0.05}, surface.region.Span)

		current, ok := c.CurrentLocation()
		assert.True(t, ok)
		assert.Equal(t, toronto, current)
	})

	t.Run("位置更新で目的地マーカーは消えるが目的地は保持される", func(t *testing.T) {
		c, surface, _, _ := newTestController(ControllerOptions{})

		c.OnPinDropped(dropped)
		c.OnLocationUpdated(toronto)

		assert.Equal(t, 0, surface.countRole(model.RoleDestination))
		assert.True(t, c.RouteActionEnabled())
		dest, ok := c.Destination()
		assert.True(t, ok)
		assert.Equal(t, dropped, dest)
	})

	t.Run("KeepDestinationPinなら目的地マーカーを再表示する", func(t *testing.T) {
		c, surface, _, _ := newTestController(ControllerOptions{KeepDestinationPin: true})

		c.OnPinDropped(dropped)
		c.OnLocationUpdated(toronto)

		assert.Equal(t, 1, surface.countRole(model.RoleCurrentLocation))
		assert.Equal(t, 1, surface.countRole(model.RoleDestination))
	})
}

func TestOnPinDropped(t *testing.T) {
	c, surface, _, _ := newTestController(ControllerOptions{})

	assert.False(t, c.RouteActionEnabled())

	c.OnLocationUpdated(toronto)
	c.OnFavoriteMarked(model.NewCoordinate(43.65, -79.35))
	c.OnPinDropped(dropped)

	require.Len(t, surface.annotations, 1)
	assert.Equal(t, model.RoleDestination, surface.annotations[0].Role)
	assert.Equal(t, model.TitleDestination, surface.annotations[0].Title)
	assert.True(t, c.RouteActionEnabled())

	second := model.NewCoordinate(43.72, -79.41)
	c.OnPinDropped(second)
	dest, _ := c.Destination()
	assert.Equal(t, second, dest)
	assert.Equal(t, 1, surface.countRole(model.RoleDestination))
}

func TestOnPinDropped_KeepsRouteOverlay(t *testing.T) {
	c, surface, routes, dispatch := newTestController(ControllerOptions{})
	routes.On("ComputeRoute", mock.Anything, toronto, dropped, model.TransportDriving).Return([]model.Route{testRoute()}, nil)

	c.OnLocationUpdated(toronto)
	c.OnPinDropped(dropped)
	c.OnRouteRequested()
	c.WaitPending()
	dispatch.drain()
	require.Len(t, surface.overlays, 1)

	c.OnPinDropped(model.NewCoordinate(43.75, -79.45))
	assert.Len(t, surface.overlays, 1)
}

func TestOnFavoriteMarked(t *testing.T) {
	c, surface, _, _ := newTestController(ControllerOptions{})

	c.OnLocationUpdated(toronto)
	c.OnPinDropped(dropped)
	before := len(surface.annotations)
	removes := surface.removeAnnotationsCalls

	fav := model.NewCoordinate(43.66, -79.37)
	c.OnFavoriteMarked(fav)
	c.OnFavoriteMarked(fav)

	assert.Len(t, surface.annotations, before+2)
	assert.Equal(t, removes, surface.removeAnnotationsCalls)
	assert.Equal(t, 2, surface.countRole(model.RoleFavorite))

	dest, ok := c.Destination()
	assert.True(t, ok)
	assert.Equal(t, dropped, dest)
}

func TestOnFavoriteMarked_DoesNotEnableRoute(t *testing.T) {
	c, _, _, _ := newTestController(ControllerOptions{})

	c.OnFavoriteMarked(toronto)

	assert.False(t, c.RouteActionEnabled())
	_, ok := c.Destination()
	assert.False(t, ok)
}

func TestOnRouteRequested(t *testing.T) {
	t.Run("目的地が未設定なら何もしない", func(t *testing.T) {
		c, surface, routes, dispatch := newTestController(ControllerOptions{})
		c.OnLocationUpdated(toronto)

		c.OnRouteRequested()
		c.WaitPending()
		dispatch.drain()

		routes.AssertNotCalled(t, "ComputeRoute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Zero(t, surface.removeOverlaysCalls)
		assert.Zero(t, surface.addOverlayCalls)
	})

	t.Run("現在地が未確定なら何もしない", func(t *testing.T) {
		c, surface, routes, dispatch := newTestController(ControllerOptions{})
		c.OnPinDropped(dropped)

		c.OnRouteRequested()
		c.WaitPending()
		dispatch.drain()

		routes.AssertNotCalled(t, "ComputeRoute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Zero(t, surface.removeOverlaysCalls)
		assert.Zero(t, surface.addOverlayCalls)
	})

	t.Run("成功時は先頭ルートを描画し余白100で表示領域を合わせる", func(t *testing.T) {
		c, surface, routes, dispatch := newTestController(ControllerOptions{})
		route := testRoute()
		alternate := model.Route{Path: []model.Coordinate{toronto, dropped}}
		routes.On("ComputeRoute", mock.Anything, toronto, dropped, model.TransportDriving).
			Return([]model.Route{route, alternate}, nil).Once()

		c.OnLocationUpdated(toronto)
		c.OnPinDropped(dropped)
		c.OnRouteRequested()
		c.WaitPending()
		dispatch.drain()

		routes.AssertNumberOfCalls(t, "ComputeRoute", 1)
		routes.AssertExpectations(t)

		assert.Equal(t, 1, surface.removeOverlaysCalls)
		require.Len(t, surface.overlays, 1)
		assert.Equal(t, model.OverlayPolyline, surface.overlays[0].Kind)
		assert.Equal(t, route.Path, surface.overlays[0].Path)

		require.NotNil(t, surface.bounds)
		assert.Equal(t, route.Bounds, *surface.bounds)
		assert.Equal(t, model.EdgePadding{Top: 100, Left: 100, Bottom: 100, Right: 100}, *surface.padding)
	})

	t.Run("Boundsが空なら経路から表示矩形を計算する", func(t *testing.T) {
		c, surface, routes, dispatch := newTestController(ControllerOptions{})
		routes.On("ComputeRoute", mock.Anything, toronto, dropped, model.TransportDriving).
			Return([]model.Route{{Path: torontoPath}}, nil)

		c.OnLocationUpdated(toronto)
		c.OnPinDropped(dropped)
		c.OnRouteRequested()
		c.WaitPending()
		dispatch.drain()

		require.NotNil(t, surface.bounds)
		assert.InDelta(t, 43.64, surface.bounds.SouthWest.Latitude, 1e-9)
		assert.InDelta(t, -79.40, surface.bounds.SouthWest.Longitude, 1e-9)
		assert.InDelta(t, 43.70, surface.bounds.NorthEast.Latitude, 1e-9)
		assert.InDelta(t, -79.38, surface.bounds.NorthEast.Longitude, 1e-9)
	})

	t.Run("失敗時は黙って破棄する", func(t *testing.T) {
		c, surface, routes, dispatch := newTestController(ControllerOptions{})
		routes.On("ComputeRoute", mock.Anything, toronto, dropped, model.TransportDriving).
			Return(nil, errors.New("network unreachable")).Once()

		c.OnLocationUpdated(toronto)
		c.OnPinDropped(dropped)
		c.OnRouteRequested()
		c.WaitPending()
		dispatch.drain()

		routes.AssertNumberOfCalls(t, "ComputeRoute", 1)
		assert.Empty(t, surface.overlays)
		assert.Nil(t, surface.bounds)
		assert.NotNil(t, surface.region)
	})

	t.Run("結果0件も黙って破棄する", func(t *testing.T) {
		c, surface, routes, dispatch := newTestController(ControllerOptions{})
		routes.On("ComputeRoute", mock.Anything, toronto, dropped, model.TransportDriving).
			Return([]model.Route{}, nil).Once()

		c.OnLocationUpdated(toronto)
		c.OnPinDropped(dropped)
		c.OnRouteRequested()
		c.WaitPending()
		dispatch.drain()

		assert.Empty(t, surface.overlays)
		assert.Nil(t, surface.bounds)
	})

	t.Run("前回のルートは要求時に消される", func(t *testing.T) {
		c, surface, routes, dispatch := newTestController(ControllerOptions{})
		routes.On("ComputeRoute", mock.Anything, toronto, dropped, model.TransportDriving).
			Return([]model.Route{testRoute()}, nil)

		c.OnLocationUpdated(toronto)
		c.OnPinDropped(dropped)
		c.OnRouteRequested()
		c.WaitPending()
		dispatch.drain()
		require.Len(t, surface.overlays, 1)

		c.OnRouteRequested()
		assert.Empty(t, surface.overlays)
		c.WaitPending()
		dispatch.drain()
		assert.Len(t, surface.overlays, 1)
	})
}

func TestOnRouteRequested_RapidRequests(t *testing.T) {
	c, surface, routes, dispatch := newTestController(ControllerOptions{})

	first := testRoute()
	second := model.Route{
		Path:   []model.Coordinate{toronto, model.NewCoordinate(43.69, -79.42), dropped},
		Bounds: model.Bounds{SouthWest: model.NewCoordinate(43.64, -79.42), NorthEast: model.NewCoordinate(43.70, -79.38)},
	}
	routes.On("ComputeRoute", mock.Anything, toronto, dropped, model.TransportDriving).Return([]model.Route{first}, nil).Once()
	routes.On("ComputeRoute", mock.Anything, toronto, dropped, model.TransportDriving).Return([]model.Route{second}, nil).Once()

	c.OnLocationUpdated(toronto)
	c.OnPinDropped(dropped)
	c.OnRouteRequested()
	c.OnRouteRequested()
	c.WaitPending()

	// 完了順を逆にしても、それぞれが自分の結果を描画する
	dispatch.drainReverse()

	routes.AssertNumberOfCalls(t, "ComputeRoute", 2)
	assert.Equal(t, 2, surface.removeOverlaysCalls)
	require.Len(t, surface.overlays, 2)

	last := surface.overlays[1]
	require.NotNil(t, surface.bounds)
	assert.Equal(t, model.BoundsOf(last.Path), *surface.bounds)
}

func TestMapDelegate(t *testing.T) {
	c, surface, _, _ := newTestController(ControllerOptions{})

	c.OnDoubleTap(dropped)
	assert.True(t, c.RouteActionEnabled())

	c.OnLongPress(toronto)
	assert.Equal(t, 1, surface.countRole(model.RoleFavorite))

	c.OnLocationUpdate(toronto)
	assert.Equal(t, 1, surface.countRole(model.RoleCurrentLocation))

	view := c.OnAnnotationViewRequested(surface.annotations[0])
	assert.Equal(t, model.PinImageName, view.Image)
	assert.True(t, view.CanShowCallout)
	assert.Equal(t, model.CalloutDetailDisclosure, view.CalloutAccessory)

	style := c.OnOverlayRenderRequested(model.NewPolyline(torontoPath))
	assert.Equal(t, model.ColorBlue, style.Stroke)
	assert.Equal(t, 3.0, style.LineWidth)

	dialog := c.OnCalloutTapped(surface.annotations[0])
	assert.Equal(t, "Your Location", dialog.Title)
	assert.Equal(t, "A nice place to visit!", dialog.Message)
	require.Len(t, dialog.Actions, 1)
	assert.Equal(t, "OK", dialog.Actions[0].Title)
}

func TestDisplayPlaces(t *testing.T) {
	places := model.Places()

	t.Run("annotate", func(t *testing.T) {
		c, surface, _, _ := newTestController(ControllerOptions{})
		c.DisplayPlaces(PlaceDisplayAnnotate)

		assert.Equal(t, len(places), surface.countRole(model.RolePlace))
		require.Len(t, surface.overlays, len(places))
		for _, o := range surface.overlays {
			assert.Equal(t, model.OverlayCircle, o.Kind)
			assert.Equal(t, 2000.0, o.RadiusMeters)
		}
	})

	t.Run("polyline", func(t *testing.T) {
		c, surface, _, _ := newTestController(ControllerOptions{})
		c.DisplayPlaces(PlaceDisplayPolyline)

		require.Len(t, surface.overlays, 1)
		assert.Equal(t, model.OverlayPolyline, surface.overlays[0].Kind)
		assert.Len(t, surface.overlays[0].Path, len(places))
	})

	t.Run("polygon", func(t *testing.T) {
		c, surface, _, _ := newTestController(ControllerOptions{})
		c.OnPinDropped(dropped)
		c.DisplayPlaces(PlaceDisplayPolygon)

		require.Len(t, surface.overlays, 1)
		assert.Equal(t, model.OverlayPolygon, surface.overlays[0].Kind)
		assert.True(t, c.RouteActionEnabled())
	})

	assert.False(t, PlaceDisplayMode("heatmap").Valid())
}
