package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// WriteDebugJSON 把一次请求的绘制指令写入 path，供 render --debug 对照模板检查坐标。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return errors.New("layout: 布局结果为空")
	}
	data, err := res.MarshalIndent()
	if err != nil {
		return fmt.Errorf("序列化布局结果失败: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// MarshalIndent 以两空格缩进输出 JSON，不含结尾换行。
func (r *Result) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
