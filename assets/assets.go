// Package assets loads the font, template photograph and icon once at startup.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/k1LoW/errors"

	"github.com/ByLCY/sheetsmith/fonts"
)

// Kind names the role of an asset.
type Kind string

const (
	KindFont     Kind = "font"
	KindTemplate Kind = "template"
	KindIcon     Kind = "icon"
)

// MissingAssetError reports an asset that could not be read.
type MissingAssetError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("missing %s asset %s: %v", e.Kind, e.Path, e.Err)
}

func (e *MissingAssetError) Unwrap() error { return e.Err }

// DecodeError reports template bytes that are not a decodable image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode template %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Sources locates each asset. A source is a local path, an http(s) URL,
// or, for fonts only, an embed: name. An empty font source selects fonts.Default.
type Sources struct {
	Font     string
	Template string
	Icon     string
}

// Bundle holds the immutable startup assets shared by all requests.
type Bundle struct {
	Font     []byte
	Template image.Image
	Icon     []byte
}

// Loader reads assets from disk or over HTTP.
type Loader struct {
	client *retryablehttp.Client
	logger *slog.Logger
}

type Option func(*Loader)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithRetryMax sets how many times a remote asset fetch is retried.
func WithRetryMax(n int) Option {
	return func(l *Loader) {
		l.client.RetryMax = n
	}
}

func NewLoader(opts ...Option) *Loader {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	l := &Loader{
		client: client,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	client.Logger = l.logger
	return l
}

// Load reads every asset and decodes the template. Any failure aborts startup.
func (l *Loader) Load(ctx context.Context, src Sources) (_ *Bundle, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	font, err := l.read(ctx, KindFont, src.Font)
	if err != nil {
		return nil, err
	}
	tmplBytes, err := l.read(ctx, KindTemplate, src.Template)
	if err != nil {
		return nil, err
	}
	tmpl, err := DecodeTemplate(src.Template, tmplBytes)
	if err != nil {
		return nil, err
	}
	icon, err := l.read(ctx, KindIcon, src.Icon)
	if err != nil {
		return nil, err
	}
	b := tmpl.Bounds()
	l.logger.Info("loaded assets",
		slog.String("font", src.Font),
		slog.String("template", src.Template),
		slog.Int("template_width", b.Dx()),
		slog.Int("template_height", b.Dy()),
		slog.String("icon", src.Icon),
		slog.Int("icon_bytes", len(icon)),
	)
	return &Bundle{
		Font:     font,
		Template: tmpl,
		Icon:     icon,
	}, nil
}

// DecodeTemplate decodes JPEG or PNG template bytes.
func DecodeTemplate(path string, data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

func (l *Loader) read(ctx context.Context, kind Kind, src string) ([]byte, error) {
	if src == "" && kind == KindFont {
		src = fonts.Default
	}
	if src == "" {
		return nil, &MissingAssetError{Kind: kind, Path: src, Err: fmt.Errorf("no source configured")}
	}
	switch {
	case fonts.IsBuiltin(src):
		if kind != KindFont {
			return nil, &MissingAssetError{Kind: kind, Path: src, Err: fmt.Errorf("embed: sources are only available for fonts")}
		}
		data, err := fonts.Load(src)
		if err != nil {
			return nil, &MissingAssetError{Kind: kind, Path: src, Err: err}
		}
		return data, nil
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetch(ctx, kind, src)
	default:
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, &MissingAssetError{Kind: kind, Path: src, Err: err}
		}
		return data, nil
	}
}

func (l *Loader) fetch(ctx context.Context, kind Kind, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &MissingAssetError{Kind: kind, Path: url, Err: err}
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &MissingAssetError{Kind: kind, Path: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &MissingAssetError{Kind: kind, Path: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &MissingAssetError{Kind: kind, Path: url, Err: err}
	}
	return data, nil
}
