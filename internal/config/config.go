package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type Config struct {
	LogDir    string // logs directory
	ReportDir string // up/down CSV logs

	APIAddr       string   // status API bind address; empty disables it
	PublicAPIKeys []string // read keys for the status API; empty allows all
	APIRPM        int      // per-IP requests per minute
	APIBurst      int

	HTTPTimeout   time.Duration // primary probe
	MarkerTimeout time.Duration // page-content check
	MarkerKeyword string
	RetryAttempts int           // attempts per probe on transport errors
	RetryBackoff  time.Duration // wait between attempts

	BatchSize  int
	BatchDelay time.Duration
	CycleDelay time.Duration

	WhoisEnabled bool
	WhoisTimeout time.Duration
}

// LoadFile reads KEY=value pairs into the environment. Variables already set
// win over the file. A missing file is not an error.
func LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load config %q: %w", path, err)
	}
	return nil
}

func FromEnv() Config {
	return Config{
		LogDir:    getenv("LOG_DIR", "logs"),
		ReportDir: getenv("REPORT_DIR", "logs"),

		APIAddr:       os.Getenv("API_ADDR"),
		PublicAPIKeys: splitList(os.Getenv("PUBLIC_API_KEYS")),
		APIRPM:        envInt("API_RPM", 120),
		APIBurst:      envInt("API_BURST", 60),

		HTTPTimeout:   envMillis("HTTP_TIMEOUT_MS", 15*time.Second),
		MarkerTimeout: envMillis("MARKER_TIMEOUT_MS", 30*time.Second),
		MarkerKeyword: getenv("MARKER_KEYWORD", "simplia"),
		RetryAttempts: envInt("RETRY_ATTEMPTS", 3),
		RetryBackoff:  envMillis("RETRY_BACKOFF_MS", 5*time.Second),

		BatchSize:  envInt("BATCH_SIZE", 20),
		BatchDelay: envMillis("BATCH_DELAY_MS", 2*time.Second),
		CycleDelay: envMillis("CYCLE_DELAY_MS", 30*time.Minute),

		WhoisEnabled: envBool("WHOIS_ENABLED", true),
		WhoisTimeout: envMillis("WHOIS_TIMEOUT_MS", 10*time.Second),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// Lower bounds for integer settings; milliseconds must be non-negative.
var intMin = map[string]int{
	"API_RPM":        0,
	"API_BURST":      1,
	"RETRY_ATTEMPTS": 1,
	"BATCH_SIZE":     1,
}

var millisKeys = []string{
	"HTTP_TIMEOUT_MS", "MARKER_TIMEOUT_MS", "RETRY_BACKOFF_MS",
	"BATCH_DELAY_MS", "CYCLE_DELAY_MS", "WHOIS_TIMEOUT_MS",
}

func parseMin(v string, lo int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, errors.New("not a number")
	}
	if n < lo {
		return 0, fmt.Errorf("must be at least %d", lo)
	}
	return n, nil
}

// envInt falls back to def when unset, malformed or below its bound.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := parseMin(v, intMin[key]); err == nil {
			return n
		}
	}
	return def
}

func envMillis(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := parseMin(v, 0); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every variable that is set but that FromEnv would
// silently replace with its default.
func Validate() error {
	var errs error
	bad := func(key, v string, err error) {
		errs = multierr.Append(errs, fmt.Errorf("%s=%q: %w", key, v, err))
	}
	for _, key := range slices.Sorted(maps.Keys(intMin)) {
		if v := os.Getenv(key); v != "" {
			if _, err := parseMin(v, intMin[key]); err != nil {
				bad(key, v, err)
			}
		}
	}
	for _, key := range millisKeys {
		if v := os.Getenv(key); v != "" {
			if _, err := parseMin(v, 0); err != nil {
				bad(key, v, fmt.Errorf("milliseconds %w", err))
			}
		}
	}
	if v := os.Getenv("WHOIS_ENABLED"); v != "" {
		if _, err := strconv.ParseBool(v); err != nil {
			bad("WHOIS_ENABLED", v, errors.New("not a boolean"))
		}
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		if _, _, err := net.SplitHostPort(v); err != nil {
			bad("API_ADDR", v, err)
		}
	}
	return errs
}
