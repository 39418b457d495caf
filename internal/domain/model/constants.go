package model

// 現在地表示とルート表示で使う固定値
const (
	// LocationSpanDegrees は現在地を中心に表示する領域の幅（度）
	LocationSpanDegrees = 0.05

	// RouteEdgePadding はルート表示時に四辺へ加える余白
	RouteEdgePadding = 100.0

	// PlaceCircleRadiusMeters はカタログの場所を囲む円の半径
	PlaceCircleRadiusMeters = 2000.0
)

// マーカーのタイトル
const (
	TitleCurrentLocation = "You are here!"
	TitleDestination     = "My Destination"
	TitleFavorite        = "My favorite"
)

// マーカーとコールアウトの表示設定
const (
	PinImageName            = "ic_place_2x"
	CalloutDetailDisclosure = "detail_disclosure"

	CalloutDialogTitle   = "Your Location"
	CalloutDialogMessage = "A nice place to visit!"
)

// LocationSpan は現在地表示用のSpan
func LocationSpan() Span {
	return Span{LatitudeDelta: LocationSpanDegrees, LongitudeDelta: LocationSpanDegrees}
}
