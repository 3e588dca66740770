package layout

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// Format 生成字段的显示文本：先解码，再按 maxLength 截断并追加省略号，
// 最后把第一个字面量 "%20" 替换为空格。
func Format(raw string, maxLength int) string {
	text := decode(raw)
	if maxLength >= 0 && utf8.RuneCountInString(text) > maxLength {
		text = truncate(text, maxLength) + ellipsis
	}
	// 上游重复编码时解码后仍会残留 "%20"，只替换第一处。
	return strings.Replace(text, "%20", " ", 1)
}

// ResolveFontSize 按阈值升序依次检查 tiers，长度严格大于阈值时采用该档；
// 各档互不累加，最后命中的一档生效。
func ResolveFontSize(base float64, tiers []SizeTier, length int) float64 {
	size := base
	for _, tier := range tiers {
		if length > tier.Threshold {
			size = base - tier.Delta
		}
	}
	return size
}

// FormatField 对单个字段执行格式化与字号计算。字号依据截断前的解码长度。
func FormatField(spec FieldSpec, raw string) FormattedField {
	return FormattedField{
		Name:     spec.Name,
		Text:     Format(raw, spec.MaxLength),
		FontSize: ResolveFontSize(spec.BaseFontSize, spec.Tiers, utf8.RuneCountInString(decode(raw))),
	}
}

// decode 对百分号编码解码；遇到非法序列或解码结果不是合法 UTF-8 时原样返回。
func decode(raw string) string {
	s, err := url.PathUnescape(raw)
	if err != nil || !utf8.ValidString(s) {
		return raw
	}
	return s
}

func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Value 返回指定字段的原始值。
func (r Request) Value(name FieldName) string {
	switch name {
	case FieldAccount:
		return r.Account
	case FieldReferrer:
		return r.Referrer
	case FieldGender:
		return r.Gender
	case FieldAge:
		return r.Age
	case FieldProfession:
		return r.Profession
	case FieldContactDetails:
		return r.ContactDetails
	default:
		return ""
	}
}

// Data 以解码后的字段值构造绑定数据，供 ${field} 插值使用。
func (r Request) Data() map[string]string {
	data := make(map[string]string, len(FieldNames))
	for _, name := range FieldNames {
		data[string(name)] = decode(r.Value(name))
	}
	return data
}
