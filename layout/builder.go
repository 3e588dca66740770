package layout

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Build 对一次请求执行字段格式化与布局计算。
func Build(req Request, opts BuildOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 Measurer")
	}
	geom := opts.Geometry
	if len(geom.Fields) == 0 {
		geom = DefaultGeometry()
	}

	fields := make([]FormattedField, 0, len(geom.Fields))
	for _, spec := range geom.Fields {
		fields = append(fields, FormatField(spec, req.Value(spec.Name)))
	}

	commands, err := Layout(fields, geom, opts.Measurer)
	if err != nil {
		return nil, err
	}
	return &Result{
		Commands:   commands,
		FontFamily: geom.FontFamily,
		Color:      geom.Color,
	}, nil
}

// Layout 测量每个字段并以其锚点为中心水平居中，基线取字段的固定 Y。
// 各字段互不依赖，并发测量；结果按 fields 的顺序返回。
func Layout(fields []FormattedField, geom Geometry, m Measurer) ([]DrawCommand, error) {
	if m == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 Measurer")
	}
	commands := make([]DrawCommand, len(fields))
	var eg errgroup.Group
	for i, field := range fields {
		spec, ok := geom.Field(field.Name)
		if !ok {
			return nil, fmt.Errorf("layout: 未定义字段 %s", field.Name)
		}
		center, err := geom.AnchorX(spec)
		if err != nil {
			return nil, err
		}
		eg.Go(func() error {
			width, err := m.TextWidth(field.Text, field.FontSize)
			if err != nil {
				return fmt.Errorf("测量字段 %s 失败: %w", field.Name, err)
			}
			commands[i] = DrawCommand{
				Field:    field.Name,
				Text:     field.Text,
				FontSize: field.FontSize,
				X:        center - width/2,
				Y:        spec.Baseline,
				Width:    width,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return commands, nil
}
