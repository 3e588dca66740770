package renderer

import "github.com/ByLCY/sheetsmith/layout"

// Renderer 将布局结果合成到模板图片上并输出编码后的图像字节（例如 PNG）。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// MeasuringRenderer can both measure text for layout and render the result.
type MeasuringRenderer interface {
	Renderer
	layout.Measurer
}
