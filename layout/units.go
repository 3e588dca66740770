package layout

// 渲染器以 1 单位 = 1 像素的画布工作，而 canvas 把画布单位当作 mm、字号当作 pt，
// 因此 px 与 pt 的换算即 mm 与 pt 的换算。
const (
	PtToPx = 25.4 / 72.0
	PxToPt = 72.0 / 25.4
)
