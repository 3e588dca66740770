package binding

import (
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

var pathUnsafe = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// InterpolatePath 将文本中的 ${key} 替换为 data 中的值，若 data 为空或 key 不存在则保留原占位符。
// 值中的路径分隔符替换为 "_"，"." 与 ".." 替换为 "_"，
// 使字段值（例如包含 "/" 的联系方式）不会产生额外的目录层级。
func InterpolatePath(text string, data map[string]string) string {
	return interpolate(text, data, func(s string) string {
		s = pathUnsafe.Replace(s)
		if s == "." || s == ".." {
			return "_"
		}
		return s
	})
}

func interpolate(text string, data map[string]string, escape func(string) string) string {
	if len(data) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		key := strings.TrimSpace(groups[1])
		if key == "" {
			return match
		}
		if val, ok := data[key]; ok {
			return escape(val)
		}
		return match
	})
}
