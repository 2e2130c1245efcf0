// cmd/preflight/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/simpeyes/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run checks the configuration simpeyes would start with and returns the
// process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("preflight", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", filepath.Join("config", "config.env"), "optional KEY=value config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	failed := false
	fail := func(msg string) {
		fmt.Fprintln(stderr, "✖", msg)
		failed = true
	}
	warn := func(msg string) { fmt.Fprintln(stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(stdout, "✔", msg) }

	if err := config.LoadFile(*configPath); err != nil {
		fail(err.Error())
		return 1
	}
	for _, err := range multierr.Errors(config.Validate()) {
		fail(err.Error())
	}
	cfg := config.FromEnv()

	if err := os.MkdirAll(cfg.ReportDir, 0o755); err != nil {
		fail("REPORT_DIR " + cfg.ReportDir + " is not writable: " + err.Error())
	} else {
		marker := filepath.Join(cfg.ReportDir, ".preflight")
		if err := os.WriteFile(marker, nil, 0o644); err != nil {
			fail("cannot write into " + cfg.ReportDir + ": " + err.Error())
		} else {
			_ = os.Remove(marker)
			ok("REPORT_DIR=" + cfg.ReportDir)
		}
	}

	switch {
	case cfg.APIAddr == "":
		ok("API_ADDR empty; status API disabled")
	case len(cfg.PublicAPIKeys) == 0:
		warn("API_ADDR=" + cfg.APIAddr + " but PUBLIC_API_KEYS is empty; the status API is open to anyone who can reach it")
	default:
		if strings.Contains(os.Getenv("PUBLIC_API_KEYS"), " ") {
			warn("PUBLIC_API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
		ok("API_ADDR=" + cfg.APIAddr)
	}

	if failed {
		return 1
	}
	ok("preflight passed")
	return 0
}
