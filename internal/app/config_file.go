package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Search struct {
		Provider      string `yaml:"provider" json:"provider"`
		URL           string `yaml:"url" json:"url"`
		File          string `yaml:"file" json:"file"`
		NumResults    int    `yaml:"numResults" json:"numResults"`
		MaxCandidates int    `yaml:"maxCandidates" json:"maxCandidates"`
	} `yaml:"search" json:"search"`

	Searx struct {
		URL        string   `yaml:"url" json:"url"`
		Key        string   `yaml:"key" json:"key"`
		Categories []string `yaml:"categories" json:"categories"`
	} `yaml:"searx" json:"searx"`

	HTTP struct {
		UserAgent   string `yaml:"userAgent" json:"userAgent"`
		Timeout     string `yaml:"timeout" json:"timeout"`
		MaxAttempts int    `yaml:"maxAttempts" json:"maxAttempts"`
		SSLVerify   *bool  `yaml:"sslVerify" json:"sslVerify"`
	} `yaml:"http" json:"http"`

	Min struct {
		Chars       int `yaml:"chars" json:"chars"`
		AcceptChars int `yaml:"acceptChars" json:"acceptChars"`
	} `yaml:"min" json:"min"`

	Workers struct {
		Check         int `yaml:"check" json:"check"`
		Scan          int `yaml:"scan" json:"scan"`
		MaxConcurrent int `yaml:"maxConcurrent" json:"maxConcurrent"`
	} `yaml:"workers" json:"workers"`

	Domains struct {
		Allow   []string `yaml:"allow" json:"allow"`
		Deny    []string `yaml:"deny" json:"deny"`
		PerHost int      `yaml:"perHost" json:"perHost"`
	} `yaml:"domains" json:"domains"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays the values present in fc onto cfg. Zero values in
// the file leave cfg untouched.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	if fc.Search.Provider != "" {
		cfg.SearchProvider = strings.ToLower(strings.TrimSpace(fc.Search.Provider))
	}
	if fc.Search.URL != "" {
		cfg.SearchURL = fc.Search.URL
	}
	if fc.Search.File != "" {
		cfg.FileSearchPath = fc.Search.File
	}
	if fc.Search.NumResults > 0 {
		cfg.NumResults = fc.Search.NumResults
	}
	if fc.Search.MaxCandidates > 0 {
		cfg.MaxCandidates = fc.Search.MaxCandidates
	}

	if fc.Searx.URL != "" {
		cfg.SearxURL = fc.Searx.URL
	}
	if fc.Searx.Key != "" {
		cfg.SearxKey = fc.Searx.Key
	}
	if len(fc.Searx.Categories) > 0 {
		cfg.SearxCategories = strings.Join(fc.Searx.Categories, ",")
	}

	if fc.HTTP.UserAgent != "" {
		cfg.UserAgent = fc.HTTP.UserAgent
	}
	if fc.HTTP.Timeout != "" {
		d, err := time.ParseDuration(fc.HTTP.Timeout)
		if err != nil {
			return fmt.Errorf("config: http.timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if fc.HTTP.MaxAttempts > 0 {
		cfg.MaxAttempts = fc.HTTP.MaxAttempts
	}
	if fc.HTTP.SSLVerify != nil {
		cfg.SSLVerify = *fc.HTTP.SSLVerify
	}

	if fc.Min.Chars > 0 {
		cfg.MinChars = fc.Min.Chars
	}
	if fc.Min.AcceptChars > 0 {
		cfg.AcceptChars = fc.Min.AcceptChars
	}
	if fc.Workers.Check > 0 {
		cfg.CheckWorkers = fc.Workers.Check
	}
	if fc.Workers.Scan > 0 {
		cfg.ScanWorkers = fc.Workers.Scan
	}
	if fc.Workers.MaxConcurrent > 0 {
		cfg.MaxConcurrent = fc.Workers.MaxConcurrent
	}

	if len(fc.Domains.Allow) > 0 {
		cfg.DomainAllowlist = append([]string{}, fc.Domains.Allow...)
	}
	if len(fc.Domains.Deny) > 0 {
		cfg.DomainDenylist = append([]string{}, fc.Domains.Deny...)
	}
	if fc.Domains.PerHost > 0 {
		cfg.PerDomainCap = fc.Domains.PerHost
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
	return nil
}

// LoadConfig layers defaults, the optional config file and the environment.
// Callers apply explicit flags on top.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		fc, err := LoadConfigFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := ApplyFileConfig(&cfg, fc); err != nil {
			return cfg, err
		}
	}
	ApplyEnvOverrides(&cfg)
	return cfg, nil
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	switch cfg.SearchProvider {
	case ProviderGoogle, "":
	case ProviderSearxNG:
		if strings.TrimSpace(cfg.SearxURL) == "" {
			return errors.New("config: searx.url is required for the searxng provider (or set SEARX_URL)")
		}
	case ProviderFile:
		if strings.TrimSpace(cfg.FileSearchPath) == "" {
			return errors.New("config: search.file is required for the file provider (or set SEARCH_FILE)")
		}
	default:
		return fmt.Errorf("config: unknown search provider %q", cfg.SearchProvider)
	}
	if cfg.NumResults < 0 || cfg.MinChars < 0 || cfg.AcceptChars < 0 || cfg.MaxAttempts < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.PerDomainCap < 0 || cfg.MaxCandidates < 0 {
		return errors.New("config: negative candidate caps are not allowed")
	}
	if cfg.CheckWorkers < 0 || cfg.ScanWorkers < 0 || cfg.MaxConcurrent < 0 {
		return errors.New("config: negative worker counts are not allowed")
	}
	if cfg.Timeout < 0 {
		return errors.New("config: negative timeout is not allowed")
	}
	return nil
}
