package sites

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hamed0406/simpeyes/internal/domain"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want domain.Site
	}{
		{"example.com", "http://example.com"},
		{"  example.com/path ", "http://example.com/path"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestParse_SkipsBlankAndDuplicateLines(t *testing.T) {
	in := "example.com\n\n   \nhttps://a.example\nexample.com\n"
	got, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 2 || got[0] != "http://example.com" || got[1] != "https://a.example" {
		t.Fatalf("unexpected sites: %v", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.txt")
	if err := os.WriteFile(path, []byte("one.example\ntwo.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 sites, got %v", got)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSingle_RejectsEmpty(t *testing.T) {
	if _, err := Single("  "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
