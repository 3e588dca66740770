package fonts

import (
	"bytes"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	for _, name := range []string{"go-regular", "embed:go-regular", Default} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", name, err)
		}
		// TrueType 文件以 0x00010000 开头
		if !bytes.HasPrefix(data, []byte{0, 1, 0, 0}) {
			t.Fatalf("Load(%q) returned non-TTF data", name)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("embed:comic-sans"); err == nil {
		t.Fatalf("expected error for unknown built-in font")
	}
}

func TestIsBuiltin(t *testing.T) {
	if !IsBuiltin("embed:go-mono") || IsBuiltin("font.ttf") {
		t.Fatalf("IsBuiltin misclassified sources")
	}
}
