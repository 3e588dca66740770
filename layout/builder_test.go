package layout

import (
	"errors"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/tenntenn/golden"
)

// stubMeasurer 是一个最小实现，仅用于测试，避免引入 renderer 造成循环依赖。
// 宽度 = 字符数 × 字号 / 2。
type stubMeasurer struct{}

func (stubMeasurer) TextWidth(text string, fontSize float64) (float64, error) {
	return float64(utf8.RuneCountInString(text)) * fontSize / 2, nil
}

var aliceRequest = Request{
	Account:        "alice",
	Referrer:       "bob",
	Gender:         "female",
	Age:            "29",
	Profession:     "engineer",
	ContactDetails: "alice%40example.com/telegram",
}

func TestBuildCentersEveryField(t *testing.T) {
	res, err := Build(aliceRequest, BuildOptions{Measurer: stubMeasurer{}, Geometry: DefaultGeometry()})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	want := []DrawCommand{
		{Field: FieldAccount, Text: "alice", FontSize: 30, X: 362.5, Y: 389, Width: 75},
		{Field: FieldReferrer, Text: "bob", FontSize: 30, X: 377.5, Y: 593, Width: 45},
		{Field: FieldGender, Text: "female", FontSize: 30, X: 267, Y: 440, Width: 90},
		{Field: FieldAge, Text: "29", FontSize: 30, X: 467, Y: 440, Width: 30},
		{Field: FieldProfession, Text: "engineer", FontSize: 30, X: 340, Y: 540, Width: 120},
		{Field: FieldContactDetails, Text: "alice@example.com/telegram", FontSize: 26, X: 231, Y: 490, Width: 338},
	}
	if diff := cmp.Diff(want, res.Commands); diff != "" {
		t.Fatalf("绘制指令不一致 (-want +got):\n%s", diff)
	}
	if res.FontFamily != "CustomFont" || res.Color.Hex() != "#532216" {
		t.Fatalf("unexpected font/color: %s %s", res.FontFamily, res.Color.Hex())
	}
}

func TestBuildGolden(t *testing.T) {
	res, err := Build(aliceRequest, BuildOptions{Measurer: stubMeasurer{}})
	if err != nil {
		t.Fatal(err)
	}
	got, err := res.MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	if os.Getenv("UPDATE_GOLDEN") != "" {
		golden.Update(t, "testdata", "signup_layout", got)
		return
	}
	if diff := golden.Diff(t, "testdata", "signup_layout", got); diff != "" {
		t.Error(diff)
	}
}

// TestLayoutCenterFormula 验证 X = anchor − width/2 对任意宽度成立。
func TestLayoutCenterFormula(t *testing.T) {
	geom := DefaultGeometry()
	for _, width := range []float64{0, 1, 33.3, 250, 799} {
		m := MeasurerFunc(func(string, float64) (float64, error) { return width, nil })
		fields := make([]FormattedField, 0, len(geom.Fields))
		for _, spec := range geom.Fields {
			fields = append(fields, FormattedField{Name: spec.Name, Text: "x", FontSize: spec.BaseFontSize})
		}
		commands, err := Layout(fields, geom, m)
		if err != nil {
			t.Fatalf("Layout error: %v", err)
		}
		for _, c := range commands {
			spec, _ := geom.Field(c.Field)
			center := geom.Anchors[spec.Anchor]
			if got, want := c.X, center-width/2; got != want {
				t.Fatalf("%s: X=%g want %g (width=%g)", c.Field, got, want, width)
			}
		}
	}
}

func TestDefaultGeometryAnchors(t *testing.T) {
	geom := DefaultGeometry()
	if err := geom.Validate(); err != nil {
		t.Fatalf("默认几何校验失败: %v", err)
	}
	want := map[FieldName]float64{
		FieldAccount:        400,
		FieldReferrer:       400,
		FieldProfession:     400,
		FieldContactDetails: 400,
		FieldGender:         312,
		FieldAge:            482,
	}
	for name, x := range want {
		spec, ok := geom.Field(name)
		if !ok {
			t.Fatalf("缺少字段 %s", name)
		}
		got, err := geom.AnchorX(spec)
		if err != nil {
			t.Fatal(err)
		}
		if got != x {
			t.Fatalf("%s anchor = %g, want %g", name, got, x)
		}
	}
	gender, _ := geom.Field(FieldGender)
	age, _ := geom.Field(FieldAge)
	if gender.Baseline != age.Baseline {
		t.Fatalf("gender 与 age 应共享基线: %g vs %g", gender.Baseline, age.Baseline)
	}
	if gender.Anchor == age.Anchor {
		t.Fatalf("gender 与 age 应使用不同锚点")
	}
	baselines := map[float64]FieldName{}
	for _, f := range geom.Fields {
		if f.Name == FieldAge {
			continue
		}
		if other, ok := baselines[f.Baseline]; ok {
			t.Fatalf("%s 与 %s 基线重复: %g", f.Name, other, f.Baseline)
		}
		baselines[f.Baseline] = f.Name
	}
}

func TestBuildPropagatesMeasurementError(t *testing.T) {
	errGlyph := errors.New("unsupported glyph")
	m := MeasurerFunc(func(text string, fontSize float64) (float64, error) {
		if strings.Contains(text, "☃") {
			return 0, errGlyph
		}
		return 10, nil
	})
	req := aliceRequest
	req.Profession = "%E2%98%83"
	res, err := Build(req, BuildOptions{Measurer: m})
	if err == nil {
		t.Fatalf("expected error, got result %+v", res)
	}
	if !errors.Is(err, errGlyph) {
		t.Fatalf("error should wrap measurement failure, got %v", err)
	}
	if res != nil {
		t.Fatalf("no partial result expected")
	}
}

func TestBuildRequiresMeasurer(t *testing.T) {
	if _, err := Build(aliceRequest, BuildOptions{}); err == nil {
		t.Fatalf("expected error without measurer")
	}
}

func TestLayoutUnknownField(t *testing.T) {
	_, err := Layout([]FormattedField{{Name: "nickname", Text: "x", FontSize: 30}}, DefaultGeometry(), stubMeasurer{})
	if err == nil {
		t.Fatalf("expected error for unknown field")
	}
}
