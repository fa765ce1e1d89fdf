package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DOCS_DIR", "BUILD_WORKERS", "WATCH", "RELOAD_DEBOUNCE", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.DocsDir != "docs" || cfg.BuildWorkers != 4 || cfg.Watch {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.ReloadDebounce != 300*time.Millisecond {
		t.Errorf("expected 300ms debounce, got %v", cfg.ReloadDebounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BUILD_WORKERS", "-2")
	t.Setenv("WATCH", "true")
	t.Setenv("RELOAD_DEBOUNCE", "1s")
	t.Setenv("SIDEBARS_PATH", "sidebars.yaml")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.BuildWorkers != 4 {
		t.Errorf("expected non-positive workers to fall back to 4, got %d", cfg.BuildWorkers)
	}
	if !cfg.Watch || cfg.ReloadDebounce != time.Second {
		t.Errorf("unexpected watch settings %+v", cfg)
	}
	if cfg.SidebarsPath != "sidebars.yaml" {
		t.Errorf("unexpected sidebars path %q", cfg.SidebarsPath)
	}
}

func TestValidate(t *testing.T) {
	base := Config{Port: "8090", DocsDir: "docs", BuildWorkers: 1, LogFormat: "json"}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = "http" }},
		{"port range", func(c *Config) { c.Port = "70000" }},
		{"no docs", func(c *Config) { c.DocsDir = "" }},
		{"workers", func(c *Config) { c.BuildWorkers = 0 }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPath(t *testing.T) {
	c := Config{Root: "/srv/site"}
	if got := c.Path("docs"); got != "/srv/site/docs" {
		t.Errorf("unexpected path %q", got)
	}
	if got := c.Path("/abs/docs"); got != "/abs/docs" {
		t.Errorf("expected absolute path unchanged, got %q", got)
	}
	if got := c.Path(""); got != "" {
		t.Errorf("expected empty path unchanged, got %q", got)
	}
}

func TestLoadSite_MissingFileUsesDefaults(t *testing.T) {
	site, err := LoadSite(filepath.Join(t.TempDir(), "docsite.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if site.Title != "QA Flag" || site.OnBrokenLinks != PolicyThrow {
		t.Errorf("unexpected defaults %+v", site)
	}
	if site.Homepage.IntroDoc != "getting-started/intro" {
		t.Errorf("unexpected intro doc %q", site.Homepage.IntroDoc)
	}
}

func TestLoadSite_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsite.yaml")
	data := `
title: QA Flag Docs
on_broken_links: warn
homepage:
  notice: This project is in early beta.
  features:
    - title: Suites
      description: Group <b>scenarios</b>.
      icon: img/suite.svg
    - title: Personas
      description: Reusable users.
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	site, err := LoadSite(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if site.Title != "QA Flag Docs" || site.OnBrokenLinks != PolicyWarn {
		t.Errorf("unexpected site %+v", site)
	}
	if site.Tagline == "" || site.BaseURL != "/" {
		t.Errorf("expected unset keys to keep defaults, got %+v", site)
	}
	if len(site.Homepage.Features) != 2 || site.Homepage.Features[1].Title != "Personas" {
		t.Errorf("unexpected features %+v", site.Homepage.Features)
	}
	if site.Homepage.IntroLabel != "Introduction" {
		t.Errorf("expected default intro label, got %q", site.Homepage.IntroLabel)
	}
}

func TestLoadSite_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsite.toml")
	data := `
title = "QA Flag"
base_url = "/docs-site/"

[[navbar.items]]
label = "Blog"
to = "/blog"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	site, err := LoadSite(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if site.BaseURL != "/docs-site/" {
		t.Errorf("unexpected base url %q", site.BaseURL)
	}
	if len(site.Navbar.Items) != 1 || site.Navbar.Items[0].To != "/blog" {
		t.Errorf("expected toml items to replace defaults, got %+v", site.Navbar.Items)
	}
}

func TestLoadSite_Invalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
		want string
	}{
		{"policy", "a.yaml", "on_broken_links: explode\n", "on_broken_links"},
		{"base url", "b.yaml", "base_url: docs\n", "base_url"},
		{"nav target", "c.yaml", "navbar:\n  items:\n    - label: Docs\n", "exactly one"},
		{"format", "d.ini", "title=x\n", "unsupported format"},
		{"syntax", "e.toml", "title = \n", "parse failed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			if err := os.WriteFile(path, []byte(tc.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadSite(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
