package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	DefaultPort     = "3000"
	DefaultFont     = "font.ttf"
	DefaultTemplate = "signup-sheet.jpeg"
	DefaultIcon     = "icon.png"
)

// configBasePaths are tried in order when no config file is given explicitly.
var configBasePaths = []string{"sheetsmith", ".sheetsmith"}

type Config struct {
	// Port to listen on; the PORT environment variable takes precedence
	Port string `yaml:"port,omitempty" json:"port,omitempty"`
	// Font file path, http(s) URL or embed:<name>
	Font string `yaml:"font,omitempty" json:"font,omitempty"`
	// Template photograph (JPEG or PNG) path or http(s) URL
	Template string `yaml:"template,omitempty" json:"template,omitempty"`
	// Icon served at /icon.png
	Icon string `yaml:"icon,omitempty" json:"icon,omitempty"`
	// Sheet geometry file; the built-in geometry is used when empty
	Sheet string `yaml:"sheet,omitempty" json:"sheet,omitempty"`
	// Retries for remote assets at startup
	RetryMax *int `yaml:"retryMax,omitempty" json:"retryMax,omitempty"`
	Log      Log  `yaml:"log,omitempty" json:"log,omitempty"`
}

type Log struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`   // debug, info, warn, error
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // text or json
	File   string `yaml:"file,omitempty" json:"file,omitempty"`     // additional JSON log file
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Port:     DefaultPort,
		Font:     DefaultFont,
		Template: DefaultTemplate,
		Icon:     DefaultIcon,
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads the configuration.
// If path is set the file must exist. Otherwise it searches the working directory for
// sheetsmith.yml, sheetsmith.yaml, .sheetsmith.yml and .sheetsmith.yaml and falls back to
// the defaults when none is found. The PORT environment variable overrides the port.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
		}
	} else {
	search:
		for _, base := range configBasePaths {
			for _, ext := range []string{".yml", ".yaml"} {
				p := base + ext
				b, err := os.ReadFile(p)
				if err != nil {
					continue
				}
				if err := unmarshal(b, cfg); err != nil {
					return nil, fmt.Errorf("failed to unmarshal config %s: %w", p, err)
				}
				break search
			}
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// unmarshal overlays the document in b onto cfg. A document without values
// (empty or comments only) leaves cfg untouched.
func unmarshal(b []byte, cfg *Config) error {
	var top map[string]any
	if err := yaml.Unmarshal(b, &top); err != nil {
		return err
	}
	if len(top) == 0 {
		return nil
	}
	return yaml.Unmarshal(b, cfg)
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s, only text and json are allowed", c.Log.Format)
	}
	return nil
}

// Addr returns the listen address for Port. A bare port binds every interface.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return net.JoinHostPort("", c.Port)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return level, nil
}
