package layout

// BuildOptions 配置布局阶段所需的依赖，例如测量后端与模板几何。
type BuildOptions struct {
	Measurer Measurer
	Geometry Geometry
}

// Measurer 负责测量给定字号下文本的像素宽度。
type Measurer interface {
	TextWidth(text string, fontSize float64) (float64, error)
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(text string, fontSize float64) (float64, error)

func (f MeasurerFunc) TextWidth(text string, fontSize float64) (float64, error) {
	return f(text, fontSize)
}
