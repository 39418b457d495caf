package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/twpayne/go-polyline"
	"golang.org/x/time/rate"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
	"github.com/rhnptl79/Map-Demo/internal/domain/repository"
)

// DefaultDirectionsBaseURL はGoogle Maps Directions APIのエンドポイント
const DefaultDirectionsBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

// GoogleDirectionsProvider はGoogle Maps Directions APIを使用した経路検索の実装
type GoogleDirectionsProvider struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option は GoogleDirectionsProvider の設定を変更する
type Option func(*GoogleDirectionsProvider)

// WithBaseURL はAPIのエンドポイントを差し替える（テストやプロキシ用）
func WithBaseURL(baseURL string) Option {
	return func(g *GoogleDirectionsProvider) { g.baseURL = baseURL }
}

// WithHTTPClient は使用するHTTPクライアントを差し替える
func WithHTTPClient(c *http.Client) Option {
	return func(g *GoogleDirectionsProvider) { g.httpClient = c }
}

// WithTimeout はHTTPクライアントのタイムアウトを設定する
func WithTimeout(d time.Duration) Option {
	return func(g *GoogleDirectionsProvider) { g.httpClient = &http.Client{Timeout: d} }
}

// WithRateLimit は1秒あたりのリクエスト数を制限する。0以下なら無制限
func WithRateLimit(perSecond float64) Option {
	return func(g *GoogleDirectionsProvider) {
		if perSecond <= 0 {
			g.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLanguage は結果の言語を指定する
func WithLanguage(lang string) Option {
	return func(g *GoogleDirectionsProvider) { g.language = lang }
}

// NewGoogleDirectionsProvider は新しいプロバイダを生成する
func NewGoogleDirectionsProvider(apiKey string, opts ...Option) *GoogleDirectionsProvider {
	g := &GoogleDirectionsProvider{
		apiKey:     apiKey,
		baseURL:    DefaultDirectionsBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ComputeRoute はGoogle Maps Directions APIを呼び出して候補ルートを取得する
func (g *GoogleDirectionsProvider) ComputeRoute(ctx context.Context, from, to model.Coordinate, mode model.TransportMode) ([]model.Route, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("対応していない移動手段です: %s", mode)
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("レート制限の待機に失敗: %w", err)
		}
	}

	// 1. APIリクエストURLを構築
	reqURL, err := g.buildURL(from, to, mode)
	if err != nil {
		return nil, fmt.Errorf("URLの構築に失敗: %w", err)
	}

	// 2. HTTPリクエストを作成・実行
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	// 3. JSONレスポンスをパース
	var apiResp googleRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	switch apiResp.Status {
	case "OK":
	case "ZERO_RESULTS", "NOT_FOUND":
		return nil, fmt.Errorf("%w (status=%s)", model.ErrNoRoutes, apiResp.Status)
	default:
		return nil, fmt.Errorf("APIがエラーを返しました: %s %s", apiResp.Status, apiResp.ErrorMessage)
	}

	if len(apiResp.Routes) == 0 {
		return nil, model.ErrNoRoutes
	}

	// 4. ドメインモデルに変換して返す
	routes := make([]model.Route, 0, len(apiResp.Routes))
	for i, r := range apiResp.Routes {
		route, err := r.toModel()
		if err != nil {
			return nil, fmt.Errorf("ルート%dの変換に失敗: %w", i, err)
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func (g *GoogleDirectionsProvider) buildURL(from, to model.Coordinate, mode model.TransportMode) (string, error) {
	base, err := url.Parse(g.baseURL)
	if err != nil {
		return "", err
	}
	params := url.Values{}
	params.Set("origin", from.String())
	params.Set("destination", to.String())
	params.Set("mode", string(mode))
	params.Set("alternatives", "true")
	if g.language != "" {
		params.Set("language", g.language)
	}
	params.Set("key", g.apiKey)

	base.RawQuery = params.Encode()
	return base.String(), nil
}

// --- Google Maps APIのレスポンスをパースするための構造体 ---

type googleRouteResponse struct {
	Routes       []route `json:"routes"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}
type route struct {
	Summary          string           `json:"summary"`
	Bounds           bounds           `json:"bounds"`
	Legs             []leg            `json:"legs"`
	OverviewPolyline overviewPolyline `json:"overview_polyline"`
}
type bounds struct {
	Northeast latLng `json:"northeast"`
	Southwest latLng `json:"southwest"`
}
type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
type leg struct {
	Distance valueField `json:"distance"`
	Duration valueField `json:"duration"`
}
type valueField struct {
	Value int `json:"value"` // meters / seconds
}
type overviewPolyline struct {
	Points string `json:"points"`
}

func (r route) toModel() (model.Route, error) {
	coords, _, err := polyline.DecodeCoords([]byte(r.OverviewPolyline.Points))
	if err != nil {
		return model.Route{}, fmt.Errorf("ポリラインのデコードに失敗: %w", err)
	}
	path := make([]model.Coordinate, 0, len(coords))
	for _, c := range coords {
		path = append(path, model.NewCoordinate(c[0], c[1]))
	}

	var totalDistance, totalDurationSec int
	for _, l := range r.Legs {
		totalDistance += l.Distance.Value
		totalDurationSec += l.Duration.Value
	}

	b := model.Bounds{
		SouthWest: model.NewCoordinate(r.Bounds.Southwest.Lat, r.Bounds.Southwest.Lng),
		NorthEast: model.NewCoordinate(r.Bounds.Northeast.Lat, r.Bounds.Northeast.Lng),
	}
	if b.IsZero() {
		b = model.BoundsOf(path)
	}

	return model.Route{
		Summary:        r.Summary,
		Path:           path,
		Bounds:         b,
		DistanceMeters: totalDistance,
		Duration:       time.Duration(totalDurationSec) * time.Second,
	}, nil
}

var _ repository.RouteService = (*GoogleDirectionsProvider)(nil)
