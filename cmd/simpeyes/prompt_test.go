package main

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func reader(s string) *bufio.Reader { return bufio.NewReader(strings.NewReader(s)) }

func TestResolveSites_Flags(t *testing.T) {
	got, err := resolveSites(reader(""), io.Discard, "example.com", "")
	if err != nil || len(got) != 1 || got[0] != "http://example.com" {
		t.Fatalf("unexpected: %v %v", got, err)
	}
}

func TestResolveSites_PromptSingle(t *testing.T) {
	got, err := resolveSites(reader("single\nhttps://example.org\n"), io.Discard, "", "")
	if err != nil || len(got) != 1 || got[0] != "https://example.org" {
		t.Fatalf("unexpected: %v %v", got, err)
	}
}

func TestResolveSites_PromptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.txt")
	if err := os.WriteFile(path, []byte("a.example\n\nb.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := resolveSites(reader("FILE\n"+path+"\n"), io.Discard, "", "")
	if err != nil || len(got) != 2 {
		t.Fatalf("unexpected: %v %v", got, err)
	}
}

func TestResolveSites_InvalidChoice(t *testing.T) {
	if _, err := resolveSites(reader("both\n"), io.Discard, "", ""); !errors.Is(err, errInvalidChoice) {
		t.Fatalf("want errInvalidChoice, got %v", err)
	}
}

func TestResolveTester(t *testing.T) {
	if got, _ := resolveTester(reader(""), io.Discard, "Sam"); got != "Sam" {
		t.Fatalf("flag should win, got %q", got)
	}
	if got, _ := resolveTester(reader("Alex"), io.Discard, ""); got != "Alex" {
		t.Fatalf("want prompted name without trailing newline, got %q", got)
	}
}
