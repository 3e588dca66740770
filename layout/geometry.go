package layout

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ByLCY/sheetsmith/dsl"
)

const (
	defaultFontFamily = "CustomFont"
	defaultFontSize   = 30.0

	AnchorForm   = "form"
	AnchorGender = "gender"
	AnchorAge    = "age"
)

// DefaultGeometry 返回签名表模板的内置几何常量。
func DefaultGeometry() Geometry {
	field := func(name FieldName, maxLength int, anchor string, baseline float64) FieldSpec {
		return FieldSpec{
			Name:         name,
			MaxLength:    maxLength,
			Anchor:       anchor,
			Baseline:     baseline,
			BaseFontSize: defaultFontSize,
		}
	}
	contact := field(FieldContactDetails, 35, AnchorForm, 490)
	contact.Tiers = []SizeTier{
		{Threshold: 20, Delta: 4},
		{Threshold: 28, Delta: 8},
	}
	return Geometry{
		Anchors: map[string]float64{
			AnchorForm:   400,
			AnchorGender: 312,
			AnchorAge:    482,
		},
		Fields: []FieldSpec{
			field(FieldAccount, 20, AnchorForm, 389),
			field(FieldReferrer, 20, AnchorForm, 593),
			field(FieldGender, 12, AnchorGender, 440),
			field(FieldAge, 12, AnchorAge, 440),
			field(FieldProfession, 20, AnchorForm, 540),
			contact,
		},
		FontFamily: defaultFontFamily,
		FontSize:   defaultFontSize,
		Color:      Color{R: 0x53, G: 0x22, B: 0x16},
	}
}

// AnchorX 返回字段的水平中心。
func (g Geometry) AnchorX(spec FieldSpec) (float64, error) {
	x, ok := g.Anchors[spec.Anchor]
	if !ok {
		return 0, fmt.Errorf("字段 %s 引用了未定义的锚点 %q", spec.Name, spec.Anchor)
	}
	return x, nil
}

// Field looks up the spec of a field by name.
func (g Geometry) Field(name FieldName) (FieldSpec, bool) {
	for _, f := range g.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Validate 检查六个字段均出现且仅出现一次、锚点可解析、阈值升序。
func (g Geometry) Validate() error {
	if len(g.Fields) != len(FieldNames) {
		return fmt.Errorf("需要 %d 个字段，实际 %d 个", len(FieldNames), len(g.Fields))
	}
	seen := map[FieldName]bool{}
	for _, f := range g.Fields {
		if !slices.Contains(FieldNames, f.Name) {
			return fmt.Errorf("未知字段 %q", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("字段 %s 重复定义", f.Name)
		}
		seen[f.Name] = true
		if f.MaxLength <= 0 {
			return fmt.Errorf("字段 %s 的 max 必须为正数", f.Name)
		}
		if f.BaseFontSize <= 0 {
			return fmt.Errorf("字段 %s 的字号必须为正数", f.Name)
		}
		if _, err := g.AnchorX(f); err != nil {
			return err
		}
		if !slices.IsSortedFunc(f.Tiers, func(a, b SizeTier) int { return a.Threshold - b.Threshold }) {
			return fmt.Errorf("字段 %s 的 shrink 阈值必须升序", f.Name)
		}
		for _, tier := range f.Tiers {
			if tier.Delta >= f.BaseFontSize {
				return fmt.Errorf("字段 %s 的 shrink %d 会使字号不为正", f.Name, tier.Threshold)
			}
		}
	}
	return nil
}

// FromDocument 将 sheet DSL 转换为经过校验的 Geometry。
// 字段顺序始终按 FieldNames 排列，与文件中的声明顺序无关。
func FromDocument(doc *dsl.Document) (Geometry, error) {
	if doc == nil {
		return Geometry{}, fmt.Errorf("sheet 文档为空")
	}
	g := Geometry{
		Anchors:    map[string]float64{},
		FontFamily: defaultFontFamily,
		FontSize:   defaultFontSize,
		Color:      DefaultGeometry().Color,
	}
	if font := doc.Font(); font != nil {
		g.FontFamily = font.Family
		for _, p := range font.Params {
			switch {
			case p.Size != nil:
				g.FontSize = *p.Size
			case p.Color != nil:
				c, err := parseHexColor(*p.Color)
				if err != nil {
					return Geometry{}, err
				}
				g.Color = c
			}
		}
	}
	for _, a := range doc.Anchors() {
		if _, ok := g.Anchors[a.Name]; ok {
			return Geometry{}, fmt.Errorf("%s: 锚点 %s 重复定义", a.Pos, a.Name)
		}
		g.Anchors[a.Name] = a.X
	}

	byName := map[FieldName]FieldSpec{}
	for _, decl := range doc.Fields() {
		name := FieldName(decl.Name)
		if _, ok := byName[name]; ok {
			return Geometry{}, fmt.Errorf("%s: 字段 %s 重复定义", decl.Pos, decl.Name)
		}
		spec := FieldSpec{Name: name, BaseFontSize: g.FontSize}
		for _, p := range decl.Params {
			switch {
			case p.Max != nil:
				spec.MaxLength = *p.Max
			case p.Center != nil:
				spec.Anchor = *p.Center
			case p.Baseline != nil:
				spec.Baseline = *p.Baseline
			case p.Size != nil:
				spec.BaseFontSize = *p.Size
			}
		}
		if spec.Anchor == "" {
			return Geometry{}, fmt.Errorf("%s: 字段 %s 缺少 center", decl.Pos, decl.Name)
		}
		for _, s := range decl.Shrinks {
			spec.Tiers = append(spec.Tiers, SizeTier{Threshold: s.Over, Delta: s.By})
		}
		slices.SortStableFunc(spec.Tiers, func(a, b SizeTier) int { return a.Threshold - b.Threshold })
		byName[name] = spec
	}
	for _, name := range FieldNames {
		spec, ok := byName[name]
		if !ok {
			return Geometry{}, fmt.Errorf("sheet 缺少字段 %s", name)
		}
		g.Fields = append(g.Fields, spec)
		delete(byName, name)
	}
	for name := range byName {
		return Geometry{}, fmt.Errorf("未知字段 %q", name)
	}
	if err := g.Validate(); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

func parseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("无法解析颜色 %s", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("无法解析颜色 %s: %w", s, err)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Hex 以 #rrggbb 形式输出颜色。
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
