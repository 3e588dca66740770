package binding

import "testing"

func identity(s string) string { return s }

func TestInterpolate(t *testing.T) {
	data := map[string]string{
		"account":        "alice.near",
		"contactDetails": "alice@example.com/telegram",
	}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single", "${account}.png", "alice.near.png"},
		{"spaces", "${ account }.png", "alice.near.png"},
		{"unknown kept", "${nickname}-${account}", "${nickname}-alice.near"},
		{"empty key kept", "${ }", "${ }"},
		{"slash kept", "${contactDetails}", "alice@example.com/telegram"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := interpolate(tt.in, data, identity); got != tt.want {
				t.Fatalf("interpolate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
	if got := InterpolatePath("${account}", nil); got != "${account}" {
		t.Fatalf("nil data should keep placeholders, got %q", got)
	}
}

func TestInterpolatePath(t *testing.T) {
	data := map[string]string{
		"account":        "..",
		"contactDetails": "alice@example.com/telegram",
	}
	if got := InterpolatePath("out/${contactDetails}.png", data); got != "out/alice@example.com_telegram.png" {
		t.Fatalf("got %q", got)
	}
	if got := InterpolatePath("out/${account}/x.png", data); got != "out/_/x.png" {
		t.Fatalf("got %q", got)
	}
}
