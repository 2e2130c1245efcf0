package sites

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hamed0406/simpeyes/internal/domain"
)

// Normalize trims the raw input and prepends http:// when no scheme is given.
func Normalize(raw string) domain.Site {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	return domain.Site(raw)
}

// Parse reads one site per line, skipping blank lines. Duplicates are
// dropped so each site gets exactly one downtime entry.
func Parse(r io.Reader) ([]domain.Site, error) {
	var out []domain.Site
	seen := make(map[domain.Site]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := Normalize(sc.Text())
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read sites: %w", err)
	}
	return out, nil
}

// LoadFile parses a line-delimited sites file.
func LoadFile(path string) ([]domain.Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sites file %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Single wraps one URL given on the command line.
func Single(raw string) ([]domain.Site, error) {
	s := Normalize(raw)
	if s == "" {
		return nil, fmt.Errorf("empty site url")
	}
	return []domain.Site{s}, nil
}
