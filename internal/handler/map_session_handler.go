package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rhnptl79/Map-Demo/internal/domain/model"
	"github.com/rhnptl79/Map-Demo/internal/domain/repository"
	"github.com/rhnptl79/Map-Demo/internal/domain/service"
	"github.com/rhnptl79/Map-Demo/internal/infrastructure/location"
	"github.com/rhnptl79/Map-Demo/internal/infrastructure/mapsurface"
	"github.com/rhnptl79/Map-Demo/internal/usecase"
)

// MapSessionHandler は地図セッションAPIのハンドラー
type MapSessionHandler struct {
	useCase usecase.MapSessionUseCase
}

// NewMapSessionHandler は新しいMapSessionHandlerインスタンスを作成
func NewMapSessionHandler(useCase usecase.MapSessionUseCase) *MapSessionHandler {
	return &MapSessionHandler{useCase: useCase}
}

// CoordinateRequest は位置やジェスチャーのリクエストボディ
type CoordinateRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// AuthorizationRequest は位置情報許可の結果
type AuthorizationRequest struct {
	Authorization repository.Authorization `json:"authorization"`
}

// PlacesRequest はカタログ表示のリクエストボディ
type PlacesRequest struct {
	Mode service.PlaceDisplayMode `json:"mode"`
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// GetPlaces はカタログの場所一覧を返す。bbox が指定された場合はその範囲内に絞り込む
// GET /places?bbox=min_lng,min_lat,max_lng,max_lat
func (h *MapSessionHandler) GetPlaces(c *gin.Context) {
	bbox := c.Query("bbox")
	if bbox == "" {
		c.JSON(http.StatusOK, gin.H{"places": model.Places()})
		return
	}

	bounds, err := parseBBox(bbox)
	if err != nil {
		h.respondValidation(c, err)
		return
	}
	places := model.PlacesWithin(bounds)
	if places == nil {
		places = []model.Place{}
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}

// parseBBox は "min_lng,min_lat,max_lng,max_lat" 形式の文字列を Bounds に変換する
func parseBBox(bbox string) (model.Bounds, error) {
	coords := strings.Split(bbox, ",")
	if len(coords) != 4 {
		return model.Bounds{}, &ValidationError{Field: "bbox", Message: "bboxは min_lng,min_lat,max_lng,max_lat の4つの値で指定してください"}
	}

	var values [4]float64
	for i, raw := range coords {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return model.Bounds{}, &ValidationError{Field: "bbox", Message: "数値ではない値が含まれています: " + raw}
		}
		values[i] = v
	}

	bounds := model.Bounds{
		SouthWest: model.NewCoordinate(values[1], values[0]),
		NorthEast: model.NewCoordinate(values[3], values[2]),
	}
	if bounds.SouthWest.Validate() != nil || bounds.NorthEast.Validate() != nil {
		return model.Bounds{}, &ValidationError{Field: "bbox", Message: "緯度経度の範囲外の値が含まれています"}
	}
	return bounds, nil
}

// PostSession は新しい地図セッションを作成する
// POST /sessions
func (h *MapSessionHandler) PostSession(c *gin.Context) {
	info, err := h.useCase.CreateSession(c.Request.Context())
	if err != nil {
		h.respondError(c, "セッションの作成に失敗しました", err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// DeleteSession はセッションを終了する
// DELETE /sessions/:id
func (h *MapSessionHandler) DeleteSession(c *gin.Context) {
	if err := h.useCase.CloseSession(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "セッションの終了に失敗しました", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PostPermission はホストでの位置情報許可の結果を反映する
// POST /sessions/:id/permission
func (h *MapSessionHandler) PostPermission(c *gin.Context) {
	var req AuthorizationRequest
	if !h.bind(c, &req) {
		return
	}
	switch req.Authorization {
	case repository.AuthorizationNotDetermined, repository.AuthorizationWhenInUse, repository.AuthorizationDenied:
	default:
		h.respondValidation(c, &ValidationError{
			Field:   "authorization",
			Message: "authorizationは'not_determined'、'when_in_use'、'denied'のいずれかを指定してください",
		})
		return
	}

	if err := h.useCase.SetAuthorization(c.Request.Context(), c.Param("id"), req.Authorization); err != nil {
		h.respondError(c, "許可状態の更新に失敗しました", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authorization": req.Authorization})
}

// PostLocation は現在地の更新を受け取る
// POST /sessions/:id/location
func (h *MapSessionHandler) PostLocation(c *gin.Context) {
	h.handleCoordinate(c, "現在地の更新に失敗しました", h.useCase.UpdateLocation)
}

// PostDoubleTap はダブルタップ（目的地の設定）を受け取る
// POST /sessions/:id/double-tap
func (h *MapSessionHandler) PostDoubleTap(c *gin.Context) {
	h.handleCoordinate(c, "目的地の設定に失敗しました", h.useCase.DoubleTap)
}

// PostLongPress は長押し（お気に入りの追加）を受け取る
// POST /sessions/:id/long-press
func (h *MapSessionHandler) PostLongPress(c *gin.Context) {
	h.handleCoordinate(c, "お気に入りの追加に失敗しました", h.useCase.LongPress)
}

// PostRoute はルートの表示を要求する。計算は非同期で、結果は地図の状態に反映される
// POST /sessions/:id/route
func (h *MapSessionHandler) PostRoute(c *gin.Context) {
	issued, err := h.useCase.RequestRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "ルート要求に失敗しました", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"issued": issued})
}

// PostPlaces はカタログの場所を指定のモードで表示する
// POST /sessions/:id/places
func (h *MapSessionHandler) PostPlaces(c *gin.Context) {
	var req PlacesRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Mode == "" {
		req.Mode = service.PlaceDisplayAnnotate
	}
	if !req.Mode.Valid() {
		h.respondValidation(c, &ValidationError{
			Field:   "mode",
			Message: "modeは'annotate'、'polyline'、'polygon'のいずれかを指定してください",
		})
		return
	}

	if err := h.useCase.DisplayPlaces(c.Request.Context(), c.Param("id"), req.Mode); err != nil {
		h.respondError(c, "場所の表示に失敗しました", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": req.Mode})
}

// PostCallout はコールアウトの詳細ボタンのタップを受け取り、表示するダイアログを返す
// POST /sessions/:id/callouts/:annotationID
func (h *MapSessionHandler) PostCallout(c *gin.Context) {
	dialog, err := h.useCase.TapCallout(c.Request.Context(), c.Param("id"), c.Param("annotationID"))
	if err != nil {
		h.respondError(c, "コールアウトの処理に失敗しました", err)
		return
	}
	c.JSON(http.StatusOK, dialog)
}

// GetMap は地図の状態を返す
// GET /sessions/:id/map
func (h *MapSessionHandler) GetMap(c *gin.Context) {
	state, err := h.useCase.GetMap(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "地図の取得に失敗しました", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetMapGeoJSON は地図の状態をGeoJSONで返す
// GET /sessions/:id/map.geojson
func (h *MapSessionHandler) GetMapGeoJSON(c *gin.Context) {
	fc, err := h.useCase.GetMapGeoJSON(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "地図の取得に失敗しました", err)
		return
	}
	body, err := fc.MarshalJSON()
	if err != nil {
		h.respondError(c, "GeoJSONの生成に失敗しました", err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", body)
}

// handleCoordinate は座標のボディを検証して action に渡す
func (h *MapSessionHandler) handleCoordinate(
	c *gin.Context,
	failure string,
	action func(ctx context.Context, sessionID string, coord model.Coordinate) error,
) {
	var req CoordinateRequest
	if !h.bind(c, &req) {
		return
	}
	coord, err := h.validateCoordinate(&req)
	if err != nil {
		h.respondValidation(c, err)
		return
	}

	if err := action(c.Request.Context(), c.Param("id"), coord); err != nil {
		h.respondError(c, failure, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"latitude": coord.Latitude, "longitude": coord.Longitude})
}

// validateCoordinate は緯度経度の必須・範囲チェックを行う
func (h *MapSessionHandler) validateCoordinate(req *CoordinateRequest) (model.Coordinate, error) {
	if req.Latitude == nil {
		return model.Coordinate{}, &ValidationError{Field: "latitude", Message: "緯度は必須です"}
	}
	if req.Longitude == nil {
		return model.Coordinate{}, &ValidationError{Field: "longitude", Message: "経度は必須です"}
	}
	if *req.Latitude < -90 || *req.Latitude > 90 {
		return model.Coordinate{}, &ValidationError{Field: "latitude", Message: "緯度は-90から90の範囲で指定してください"}
	}
	if *req.Longitude < -180 || *req.Longitude > 180 {
		return model.Coordinate{}, &ValidationError{Field: "longitude", Message: "経度は-180から180の範囲で指定してください"}
	}
	return model.NewCoordinate(*req.Latitude, *req.Longitude), nil
}

func (h *MapSessionHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return false
	}
	return true
}

func (h *MapSessionHandler) respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "バリデーションエラー",
		"details": err.Error(),
	})
}

// respondError はエラーの種類からステータスコードを決めて返す
func (h *MapSessionHandler) respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound), errors.Is(err, mapsurface.ErrAnnotationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrInvalidCoordinate):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrPermissionDenied), errors.Is(err, location.ErrUpdatesNotStarted):
		status = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}
