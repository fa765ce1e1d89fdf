package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Source layout, relative paths resolve against Root.
	Root         string
	SiteConfig   string
	DocsDir      string
	SidebarsPath string // empty uses the built-in sidebar

	// Static export
	OutDir       string
	BuildWorkers int
	BuildGzip    bool

	// Live reload
	Watch          bool
	ReloadDebounce time.Duration

	// Auth for POST /api/reload; empty disables the endpoint.
	AdminAPIKey string

	// Logging
	LogLevel  string
	LogFormat string

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		Root:         envOr("DOCSITE_ROOT", "."),
		SiteConfig:   envOr("DOCSITE_CONFIG", "docsite.yaml"),
		DocsDir:      envOr("DOCS_DIR", "docs"),
		SidebarsPath: os.Getenv("SIDEBARS_PATH"),

		OutDir:       envOr("OUT_DIR", "build"),
		BuildWorkers: envInt("BUILD_WORKERS", 4),
		BuildGzip:    envBool("BUILD_GZIP", false),

		Watch:          envBool("WATCH", false),
		ReloadDebounce: envDuration("RELOAD_DEBOUNCE", 300*time.Millisecond),

		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "json"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.BuildWorkers <= 0 {
		cfg.BuildWorkers = 4
	}
	if cfg.ReloadDebounce <= 0 {
		cfg.ReloadDebounce = 300 * time.Millisecond
	}

	return cfg
}

func (c Config) Validate() error {
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("PORT must be a port number, got %q", c.Port)
	}
	if c.DocsDir == "" {
		return fmt.Errorf("DOCS_DIR is required")
	}
	if c.BuildWorkers <= 0 {
		return fmt.Errorf("BUILD_WORKERS must be positive, got %d", c.BuildWorkers)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// Path resolves p against Root unless it is absolute or empty.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
