package dsl

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sheetLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	sheetParser = participle.MustBuild[Document](
		participle.Lexer(sheetLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node for a sheet geometry file.
type Document struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       string         `parser:"Newline* 'sheet' @Ident"`
	Version    string         `parser:"@Ident"`
	Statements []*Statement   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Statement is one declaration inside the sheet block.
type Statement struct {
	Font   *FontDecl   `parser:"  @@"`
	Anchor *AnchorDecl `parser:"| @@"`
	Field  *FieldDecl  `parser:"| @@"`
}

// FontDecl names the font family and the base size/color of every field.
type FontDecl struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Family string         `parser:"'font' @Ident"`
	Params []*FontParam   `parser:"@@*"`
}

// FontParam is a single `size N` or `color #rrggbb` option.
type FontParam struct {
	Size  *float64 `parser:"  'size' @Number"`
	Color *string  `parser:"| 'color' @Color"`
}

// AnchorDecl declares a named horizontal center.
type AnchorDecl struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"'anchor' @Ident"`
	X    float64        `parser:"@Number"`
}

// FieldDecl places one text field.
type FieldDecl struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'field' @Ident"`
	Params  []*FieldParam  `parser:"@@*"`
	Shrinks []*ShrinkDecl  `parser:"( '{' Newline* ( @@ ( ';' | Newline )* )* '}' )?"`
}

// FieldParam is a single option of a field declaration.
type FieldParam struct {
	Max      *int     `parser:"  'max' @Number"`
	Center   *string  `parser:"| 'center' @Ident"`
	Baseline *float64 `parser:"| 'baseline' @Number"`
	Size     *float64 `parser:"| 'size' @Number"`
}

// ShrinkDecl reduces the font size by By once the decoded value is longer than Over.
type ShrinkDecl struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Over int            `parser:"'shrink' 'over' @Number"`
	By   float64        `parser:"'by' @Number"`
}

// Parse parses a sheet file from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return sheetParser.Parse("", r)
}

// ParseString parses sheet content from a string.
func ParseString(input string) (*Document, error) {
	return sheetParser.ParseString("", input)
}

// ParseFile parses sheet content, reporting positions against filename.
func ParseFile(filename string, r io.Reader) (*Document, error) {
	doc, err := sheetParser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("解析 sheet 文件 %s 失败: %w", filename, err)
	}
	return doc, nil
}

// Fields returns the field declarations in source order.
func (d *Document) Fields() []*FieldDecl {
	var out []*FieldDecl
	for _, st := range d.Statements {
		if st.Field != nil {
			out = append(out, st.Field)
		}
	}
	return out
}

// Anchors returns the anchor declarations in source order.
func (d *Document) Anchors() []*AnchorDecl {
	var out []*AnchorDecl
	for _, st := range d.Statements {
		if st.Anchor != nil {
			out = append(out, st.Anchor)
		}
	}
	return out
}

// Font returns the last font declaration, or nil.
func (d *Document) Font() *FontDecl {
	var font *FontDecl
	for _, st := range d.Statements {
		if st.Font != nil {
			font = st.Font
		}
	}
	return font
}
