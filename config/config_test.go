package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func intPtr(v int) *int { return &v }

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		configYAML string
		env        string
		want       *Config
	}{
		{
			name:       "empty config keeps defaults",
			configYAML: ``,
			want:       Default(),
		},
		{
			name:       "comment-only config keeps defaults",
			configYAML: "# only a comment\n",
			want:       Default(),
		},
		{
			name:       "partial log section keeps other defaults",
			configYAML: "log:\n  level: debug\n",
			want: func() *Config {
				c := Default()
				c.Log.Level = "debug"
				return c
			}(),
		},
		{
			name: "overrides",
			configYAML: `
port: "8080"
font: embed:go-regular
template: https://example.com/signup-sheet.jpeg
sheet: examples/signup.sheet
retryMax: 5
log:
  level: debug
  format: text
  file: sheetsmith.log
`,
			want: &Config{
				Port:     "8080",
				Font:     "embed:go-regular",
				Template: "https://example.com/signup-sheet.jpeg",
				Icon:     DefaultIcon,
				Sheet:    "examples/signup.sheet",
				RetryMax: intPtr(5),
				Log:      Log{Level: "debug", Format: "text", File: "sheetsmith.log"},
			},
		},
		{
			name:       "PORT env wins over file",
			configYAML: `port: "8080"`,
			env:        "9090",
			want: func() *Config {
				c := Default()
				c.Port = "9090"
				return c
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.env)
			path := filepath.Join(t.TempDir(), "sheetsmith.yml")
			if err := os.WriteFile(path, []byte(tt.configYAML), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	t.Setenv("PORT", "")
	t.Chdir(t.TempDir())

	got, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("expected defaults without config file (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(".sheetsmith.yaml", []byte("icon: favicon.png\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Icon != "favicon.png" {
		t.Errorf("Icon = %q, want favicon.png", got.Icon)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("PORT", "")
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Errorf("expected error for missing explicit config")
	}
	for name, body := range map[string]string{
		"broken.yml":    "port: [",
		"badlevel.yml":  "log:\n  level: loud\n",
		"badformat.yml": "log:\n  format: xml\n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestAddr(t *testing.T) {
	for port, want := range map[string]string{
		"3000":           ":3000",
		"127.0.0.1:8080": "127.0.0.1:8080",
	} {
		c := &Config{Port: port}
		if got := c.Addr(); got != want {
			t.Errorf("Addr(%q) = %q, want %q", port, got, want)
		}
	}
}

func TestLogLevel(t *testing.T) {
	c := Default()
	c.Log.Level = "warn"
	got, err := c.LogLevel()
	if err != nil {
		t.Fatal(err)
	}
	if got != slog.LevelWarn {
		t.Errorf("LogLevel() = %v, want %v", got, slog.LevelWarn)
	}
}

func TestLoadExample(t *testing.T) {
	t.Setenv("PORT", "")
	got, err := Load(filepath.Join("..", "examples", "sheetsmith.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Sheet != "examples/signup.sheet" || got.RetryMax == nil || *got.RetryMax != 3 {
		t.Errorf("unexpected example config %+v", got)
	}
}
