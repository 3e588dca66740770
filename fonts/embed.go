package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Prefix marks a font source that is resolved from the built-in set instead of the filesystem.
const Prefix = "embed:"

// Default is the built-in font used when no font file is configured.
const Default = Prefix + "go-regular"

var builtin = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-medium":  gomedium.TTF,
	"go-bold":    gobold.TTF,
	"go-mono":    gomono.TTF,
}

// IsBuiltin reports whether src refers to a built-in font.
func IsBuiltin(src string) bool {
	return strings.HasPrefix(src, Prefix)
}

// Load 返回内置字体的字节数据，name 可写为 "embed:go-regular" 或直接 "go-regular"。
func Load(name string) ([]byte, error) {
	clean := strings.TrimPrefix(name, Prefix)
	data, ok := builtin[clean]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 可用字体 %s", clean, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names lists the built-in font names.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
