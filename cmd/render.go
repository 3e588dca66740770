package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/ByLCY/sheetsmith/binding"
	"github.com/ByLCY/sheetsmith/layout"
	"github.com/ByLCY/sheetsmith/server"
)

var (
	out   string
	debug string
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
)

var renderCmd = &cobra.Command{
	Use:   "render [REQUEST_PATH]",
	Short: "render one signup sheet to a PNG file",
	Long: `render one signup sheet to a PNG file.

REQUEST_PATH has the same form as the HTTP route:
  /ACCOUNT/REFERRER/GENDER/AGE/PROFESSION/CONTACT...
--out and --debug may reference request fields, e.g. out/${account}.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := parseRequestPath(args[0])
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		return renderRequest(a, req, out, debug, colorable.NewColorableStdout())
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&out, "out", "o", "${account}.png", "PNG output path")
	renderCmd.Flags().StringVarP(&debug, "debug", "", "", "layout debug JSON output path")
}

// parseRequestPath accepts a request path with or without the leading slash.
func parseRequestPath(p string) (layout.Request, error) {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	req, ok := server.ParsePath(p)
	if !ok {
		return layout.Request{}, fmt.Errorf("invalid request path %q: want /ACCOUNT/REFERRER/GENDER/AGE/PROFESSION/CONTACT", p)
	}
	return req, nil
}

func renderRequest(a *app, req layout.Request, outPath, debugPath string, w io.Writer) error {
	data := req.Data()
	res, err := a.build(req)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	if debugPath != "" {
		p := binding.InterpolatePath(debugPath, data)
		if err := ensureDir(p); err != nil {
			return err
		}
		if err := layout.WriteDebugJSON(res, p); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}
	png, err := a.renderer.Render(res)
	if err != nil {
		return fmt.Errorf("渲染 PNG 失败: %w", err)
	}
	p := binding.InterpolatePath(outPath, data)
	if err := ensureDir(p); err != nil {
		return err
	}
	if err := os.WriteFile(p, png, 0o644); err != nil {
		return fmt.Errorf("写入 PNG 文件失败: %w", err)
	}
	b := a.renderer.Bounds()
	_, _ = fmt.Fprintf(w, "%s %s %s\n", green("rendered"), p, gray(fmt.Sprintf("(%dx%d, %d bytes)", b.Dx(), b.Dy(), len(png))))
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return nil
}
