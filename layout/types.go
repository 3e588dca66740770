package layout

// 该文件定义签名表的几何描述与布局结果，供格式化、布局计算、渲染与调试 JSON 共用。

// FieldName 标识签名表上的六个文本字段之一。
type FieldName string

const (
	FieldAccount        FieldName = "account"
	FieldReferrer       FieldName = "referrer"
	FieldGender         FieldName = "gender"
	FieldAge            FieldName = "age"
	FieldProfession     FieldName = "profession"
	FieldContactDetails FieldName = "contactDetails"
)

// FieldNames lists the fields in drawing order.
var FieldNames = []FieldName{
	FieldAccount,
	FieldReferrer,
	FieldGender,
	FieldAge,
	FieldProfession,
	FieldContactDetails,
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// SizeTier 表示一档字号缩减：解码后长度严格大于 Threshold 时字号取 base-Delta。
type SizeTier struct {
	Threshold int     `json:"threshold"`
	Delta     float64 `json:"delta"`
}

// FieldSpec 描述单个字段的截断长度、水平锚点与基线。
type FieldSpec struct {
	Name         FieldName  `json:"name"`
	MaxLength    int        `json:"maxLength"`
	Anchor       string     `json:"anchor"`   // Geometry.Anchors 中的锚点名
	Baseline     float64    `json:"baseline"` // px
	BaseFontSize float64    `json:"baseFontSize"`
	Tiers        []SizeTier `json:"tiers,omitempty"`
}

// Geometry 是模板图片上的全部固定几何常量，启动时构造后只读。
type Geometry struct {
	Anchors    map[string]float64 `json:"anchors"`
	Fields     []FieldSpec        `json:"fields"`
	FontFamily string             `json:"fontFamily"`
	FontSize   float64            `json:"fontSize"`
	Color      Color              `json:"color"`
}

// Request 保存从 URL 路径中取出的原始（仍为百分号编码的）字段值。
type Request struct {
	Account        string `json:"account"`
	Referrer       string `json:"referrer"`
	Gender         string `json:"gender"`
	Age            string `json:"age"`
	Profession     string `json:"profession"`
	ContactDetails string `json:"contactDetails"`
}

// FormattedField 是格式化后待测量的显示文本。
type FormattedField struct {
	Name     FieldName `json:"name"`
	Text     string    `json:"text"`
	FontSize float64   `json:"fontSize"`
}

// DrawCommand 表示一条已经确定坐标与字号的绘制指令，Y 为基线。
type DrawCommand struct {
	Field    FieldName `json:"field"`
	Text     string    `json:"text"`
	FontSize float64   `json:"fontSize"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    float64   `json:"width"`
}

// Result 保存一次请求的布局结果。
type Result struct {
	Commands   []DrawCommand `json:"commands"`
	FontFamily string        `json:"fontFamily"`
	Color      Color         `json:"color"`
}
