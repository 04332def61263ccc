package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aluiziolira/go-library-check/catalog"
)

const (
	BackendBrowser = "browser"
	BackendStatic  = "static"
)

// Config holds availability check configuration.
type Config struct {
	Backend      string // browser or static
	CatalogURL   string
	System       string
	Branch       string
	MaterialType string
	Headless     bool
	ChromePath   string
	WaitTimeout  time.Duration
	SettleDelay  time.Duration
	UserAgent    string
	CacheSize    int
	OutputFile   string
	OutputFormat string // csv, json, or dual
	MetricsAddr  string
	Verbose      bool
}

// DefaultConfig returns settings for the Tampere main library.
func DefaultConfig() *Config {
	return &Config{
		Backend:      BackendBrowser,
		CatalogURL:   "https://piki.verkkokirjasto.fi/web/arena/tarkennettu_haku",
		System:       "Tampereen kaupunginkirjasto",
		Branch:       "Tampereen pääkirjasto",
		MaterialType: "Kirja",
		Headless:     true,
		WaitTimeout:  30 * time.Second,
		SettleDelay:  2 * time.Second,
		UserAgent:    "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		CacheSize:    256,
		OutputFormat: "csv",
	}
}

// Load applies LIBCHECK_* environment variables on top of the defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if v, ok := EnvString("LIBCHECK_BACKEND"); ok {
		cfg.Backend = strings.ToLower(v)
	}
	if v, ok := EnvString("LIBCHECK_CATALOG_URL"); ok {
		cfg.CatalogURL = v
	}
	if v, ok := EnvString("LIBCHECK_SYSTEM"); ok {
		cfg.System = v
	}
	if v, ok := EnvString("LIBCHECK_BRANCH"); ok {
		cfg.Branch = v
	}
	if v, ok := EnvString("LIBCHECK_MATERIAL"); ok {
		cfg.MaterialType = v
	}
	if v, ok := EnvString("LIBCHECK_CHROME_PATH"); ok {
		cfg.ChromePath = v
	}
	if v, ok := EnvString("LIBCHECK_OUTPUT"); ok {
		cfg.OutputFile = v
	}
	if v, ok := EnvString("LIBCHECK_FORMAT"); ok {
		cfg.OutputFormat = strings.ToLower(v)
	}
	if v, ok := EnvString("LIBCHECK_METRICS_ADDR"); ok {
		cfg.MetricsAddr = v
	}

	if v, ok, err := EnvBool("LIBCHECK_HEADLESS"); err != nil {
		return nil, err
	} else if ok {
		cfg.Headless = v
	}
	if v, ok, err := EnvBool("LIBCHECK_VERBOSE"); err != nil {
		return nil, err
	} else if ok {
		cfg.Verbose = v
	}
	if v, ok, err := EnvDuration("LIBCHECK_WAIT_TIMEOUT"); err != nil {
		return nil, err
	} else if ok {
		cfg.WaitTimeout = v
	}
	if v, ok, err := EnvDuration("LIBCHECK_SETTLE_DELAY"); err != nil {
		return nil, err
	} else if ok {
		cfg.SettleDelay = v
	}
	if v, ok, err := EnvInt("LIBCHECK_CACHE_SIZE"); err != nil {
		return nil, err
	} else if ok {
		cfg.CacheSize = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Target returns the library system and branch to check.
func (c *Config) Target() catalog.Target {
	return catalog.Target{System: c.System, Branch: c.Branch}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.Backend != BackendBrowser && c.Backend != BackendStatic {
		return fmt.Errorf("backend must be browser or static")
	}

	if c.CatalogURL == "" {
		return fmt.Errorf("catalog URL cannot be empty")
	}
	parsedURL, err := url.Parse(c.CatalogURL)
	if err != nil {
		return fmt.Errorf("invalid catalog URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("catalog URL must include a host")
	}

	if strings.TrimSpace(c.System) == "" {
		return fmt.Errorf("library system cannot be empty")
	}
	if strings.TrimSpace(c.Branch) == "" {
		return fmt.Errorf("branch cannot be empty")
	}
	if c.Backend == BackendBrowser && strings.TrimSpace(c.MaterialType) == "" {
		return fmt.Errorf("material type cannot be empty")
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be positive")
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.OutputFile != "" && c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}

	return nil
}

// EnvString returns a non-empty environment value.
func EnvString(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// EnvInt parses an integer environment value.
func EnvInt(key string) (int, bool, error) {
	v, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, true, nil
}

// EnvBool parses a boolean environment value.
func EnvBool(key string) (bool, bool, error) {
	v, ok := EnvString(key)
	if !ok {
		return false, false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, true, nil
}

// EnvDuration parses a duration environment value such as "30s".
func EnvDuration(key string) (time.Duration, bool, error) {
	v, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, true, nil
}
