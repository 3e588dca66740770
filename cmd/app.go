package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/k1LoW/errors"

	"github.com/ByLCY/sheetsmith/assets"
	"github.com/ByLCY/sheetsmith/config"
	"github.com/ByLCY/sheetsmith/dsl"
	"github.com/ByLCY/sheetsmith/layout"
	canvasrenderer "github.com/ByLCY/sheetsmith/renderer/canvas"
)

// app is everything loaded once at startup.
type app struct {
	geometry layout.Geometry
	renderer *canvasrenderer.Renderer
	bundle   *assets.Bundle
}

func newApp(ctx context.Context, c *config.Config, logger *slog.Logger) (_ *app, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	geom, err := loadGeometry(c.Sheet)
	if err != nil {
		return nil, err
	}
	opts := []assets.Option{assets.WithLogger(logger)}
	if c.RetryMax != nil {
		opts = append(opts, assets.WithRetryMax(*c.RetryMax))
	}
	bundle, err := assets.NewLoader(opts...).Load(ctx, assets.Sources{
		Font:     c.Font,
		Template: c.Template,
		Icon:     c.Icon,
	})
	if err != nil {
		return nil, err
	}
	r, err := canvasrenderer.NewRenderer(canvasrenderer.Options{
		FontFamily: geom.FontFamily,
		Font:       bundle.Font,
		Template:   bundle.Template,
	})
	if err != nil {
		return nil, err
	}
	b := r.Bounds()
	logger.Debug("renderer ready",
		slog.String("font_family", r.FamilyName()),
		slog.Int("width", b.Dx()),
		slog.Int("height", b.Dy()),
		slog.Int("fields", len(geom.Fields)),
	)
	return &app{geometry: geom, renderer: r, bundle: bundle}, nil
}

// loadGeometry reads a sheet file, or returns the built-in geometry when path is empty.
func loadGeometry(path string) (layout.Geometry, error) {
	if path == "" {
		return layout.DefaultGeometry(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return layout.Geometry{}, fmt.Errorf("无法打开 sheet 文件 %s: %w", path, err)
	}
	defer f.Close()
	doc, err := dsl.ParseFile(path, f)
	if err != nil {
		return layout.Geometry{}, err
	}
	return layout.FromDocument(doc)
}

func (a *app) build(req layout.Request) (*layout.Result, error) {
	return layout.Build(req, layout.BuildOptions{Measurer: a.renderer, Geometry: a.geometry})
}
