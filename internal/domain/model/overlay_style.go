package model

// Color はRGBA（各0〜1）で表す色
type Color struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
	Alpha float64 `json:"alpha"`
}

var (
	ColorBlack  = Color{Alpha: 1}
	ColorGreen  = Color{Green: 1, Alpha: 1}
	ColorBlue   = Color{Blue: 1, Alpha: 1}
	ColorRed    = Color{Red: 1, Alpha: 1}
	ColorYellow = Color{Red: 1, Green: 1, Alpha: 1}
)

// WithAlpha は透明度を変えた色を返す
func (c Color) WithAlpha(alpha float64) Color {
	c.Alpha = alpha
	return c
}

// OverlayStyle はオーバーレイの描画スタイル
type OverlayStyle struct {
	Fill      *Color  `json:"fill,omitempty"`
	Stroke    Color   `json:"stroke"`
	LineWidth float64 `json:"line_width"`
}

// StyleFor はオーバーレイ種別ごとの固定スタイルを返す
func StyleFor(kind OverlayKind) OverlayStyle {
	switch kind {
	case OverlayCircle:
		fill := ColorBlack.WithAlpha(0.5)
		return OverlayStyle{Fill: &fill, Stroke: ColorGreen, LineWidth: 2}
	case OverlayPolyline:
		return OverlayStyle{Stroke: ColorBlue, LineWidth: 3}
	case OverlayPolygon:
		fill := ColorRed.WithAlpha(0.6)
		return OverlayStyle{Fill: &fill, Stroke: ColorYellow, LineWidth: 2}
	default:
		return OverlayStyle{}
	}
}
