package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/sheetsmith/layout"
	"github.com/ByLCY/sheetsmith/renderer"
)

// one canvas unit per template pixel
var resolution = canvas.DPMM(1.0)

// Renderer measures and draws text via github.com/tdewolff/canvas on top of a template image.
type Renderer struct {
	familyName string
	template   image.Image

	// shaping and glyph outlines go through the shared font, so access is serialized
	fontMu sync.Mutex
	family *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	FontFamily string
	Font       []byte
	Template   image.Image
}

// MeasurementError reports a failure to shape or measure text with the loaded font.
type MeasurementError struct {
	Text     string
	FontSize float64
	Err      error
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("failed to measure %q at %gpx: %v", e.Text, e.FontSize, e.Err)
}

func (e *MeasurementError) Unwrap() error { return e.Err }

// NewRenderer registers the font under opts.FontFamily and keeps the decoded template for drawing.
// The template is only read, never modified.
func NewRenderer(opts Options) (*Renderer, error) {
	if len(opts.Font) == 0 {
		return nil, fmt.Errorf("字体数据为空")
	}
	if opts.Template == nil {
		return nil, fmt.Errorf("模板图片为空")
	}
	name := opts.FontFamily
	if name == "" {
		name = "CustomFont"
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(opts.Font, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	return &Renderer{
		familyName: name,
		template:   opts.Template,
		family:     family,
	}, nil
}

// FamilyName returns the name the font is registered under.
func (r *Renderer) FamilyName() string { return r.familyName }

// Bounds returns the template size in pixels.
func (r *Renderer) Bounds() image.Rectangle { return r.template.Bounds() }

// TextWidth 实现 layout.Measurer 接口，返回 fontSize(px) 下文本的像素宽度。
func (r *Renderer) TextWidth(text string, fontSize float64) (width float64, err error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			err = &MeasurementError{Text: text, FontSize: fontSize, Err: fmt.Errorf("%v", rec)}
		}
	}()

	face, err := r.face(fontSize, canvas.Black)
	if err != nil {
		return 0, &MeasurementError{Text: text, FontSize: fontSize, Err: err}
	}
	return face.TextWidth(text), nil
}

// Render composes the result onto a copy of the template and encodes it as PNG.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	img, err := r.Draw(result)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Draw rasterizes the template with every draw command applied.
// Only glyph outlining holds the font lock; compositing and rasterizing run unlocked.
func (r *Renderer) Draw(result *layout.Result) (*image.RGBA, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	glyphs, err := r.glyphPaths(result.Commands)
	if err != nil {
		return nil, err
	}

	bounds := r.template.Bounds()
	c := canvas.New(float64(bounds.Dx()), float64(bounds.Dy()))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与模板保持左上角为原点
	ctx.DrawImage(0, 0, r.template, resolution)
	ctx.SetFillColor(colorFromLayout(result.Color))
	ctx.SetStrokeColor(canvas.Transparent)
	for i, cmd := range result.Commands {
		if glyphs[i].Empty() {
			continue
		}
		// X 已是左边缘，Y 为基线
		ctx.DrawPath(cmd.X, cmd.Y, glyphs[i])
	}
	return rasterizer.Draw(c, resolution, canvas.DefaultColorSpace), nil
}

// glyphPaths outlines each command's text with its baseline at y=0, flipped for the
// top-left coordinate system.
func (r *Renderer) glyphPaths(cmds []layout.DrawCommand) (paths []*canvas.Path, err error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			paths, err = nil, fmt.Errorf("绘制文本失败: %v", rec)
		}
	}()

	paths = make([]*canvas.Path, len(cmds))
	for i, cmd := range cmds {
		face, err := r.face(cmd.FontSize, canvas.Black)
		if err != nil {
			return nil, &MeasurementError{Text: cmd.Text, FontSize: cmd.FontSize, Err: err}
		}
		p, _, err := face.ToPath(cmd.Text)
		if err != nil {
			return nil, &MeasurementError{Text: cmd.Text, FontSize: cmd.FontSize, Err: err}
		}
		paths[i] = p.Transform(canvas.Identity.ReflectY())
	}
	return paths, nil
}

func (r *Renderer) face(sizePx float64, col color.Color) (*canvas.FontFace, error) {
	if r.family == nil {
		return nil, fmt.Errorf("font family not loaded")
	}
	if sizePx <= 0 {
		return nil, fmt.Errorf("invalid font size %g", sizePx)
	}
	return r.family.Face(toPt(sizePx), col, canvas.FontRegular, canvas.FontNormal), nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将像素转换为点(pt)。
func toPt(px float64) float64 { return px * layout.PxToPt }
