package text

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"skills with symbols", "C++ a .NET, Node.js", []string{"c++", ".net", "node.js"}},
		{"drops short tokens", "a b go", []string{"go"}},
		{"single multibyte rune is short", "č vývojář", []string{"vývojář"}},
		{"czech title", "Vývojář Python (senior)", []string{"vývojář", "python", "senior"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestStripDiacritics(t *testing.T) {
	if got := StripDiacritics("vývojář"); got != "vyvojar" {
		t.Errorf("StripDiacritics = %q", got)
	}
	if got := Normalize("Vývojář"); got != "vyvojar" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestHash01(t *testing.T) {
	a := Hash01("u1:j1")
	if a < 0 || a >= 1 {
		t.Fatalf("Hash01 out of range: %v", a)
	}
	if b := Hash01("u1:j1"); b != a {
		t.Errorf("Hash01 not deterministic: %v vs %v", a, b)
	}
	if Hash01("u1:j2") == a {
		t.Error("distinct inputs should not collide here")
	}
}
