package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags and env.
type FileConfig struct {
	Input     string `yaml:"input" json:"input"`
	Output    string `yaml:"output" json:"output"`
	OutputDir string `yaml:"outputDir" json:"outputDir"`
	SaveHTML  bool   `yaml:"saveHTML" json:"saveHTML"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`
	Stats     bool   `yaml:"stats" json:"stats"`

	ArXiv struct {
		BaseURL       string        `yaml:"baseURL" json:"baseURL"`
		UserAgent     string        `yaml:"userAgent" json:"userAgent"`
		Timeout       time.Duration `yaml:"timeout" json:"timeout"`
		MaxAttempts   int           `yaml:"maxAttempts" json:"maxAttempts"`
		Concurrency   int           `yaml:"concurrency" json:"concurrency"`
		RespectRobots bool          `yaml:"respectRobots" json:"respectRobots"`
	} `yaml:"arxiv" json:"arxiv"`

	TLS struct {
		Verify           *bool `yaml:"verify" json:"verify"`
		InsecureFallback *bool `yaml:"insecureFallback" json:"insecureFallback"`
	} `yaml:"tls" json:"tls"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		MaxBytes    int64         `yaml:"maxBytes" json:"maxBytes"`
		MaxEntries  int           `yaml:"maxEntries" json:"maxEntries"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
		Bypass      bool          `yaml:"bypass" json:"bypass"`
	} `yaml:"cache" json:"cache"`
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
			return fc, fmt.Errorf("%w: parse yaml: %v", ErrInvalidConfig, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("%w: parse json: %v", ErrInvalidConfig, err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("%w: parse config: %v (yaml) / %v (json)", ErrInvalidConfig, err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value the file sets onto cfg. It runs on
// top of DefaultConfig and before env and flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setString(&cfg.InputPath, fc.Input)
	setString(&cfg.OutputPath, fc.Output)
	setString(&cfg.OutputDir, fc.OutputDir)
	cfg.SaveHTML = cfg.SaveHTML || fc.SaveHTML
	cfg.Verbose = cfg.Verbose || fc.Verbose
	cfg.Stats = cfg.Stats || fc.Stats

	setString(&cfg.BaseURL, fc.ArXiv.BaseURL)
	setString(&cfg.UserAgent, fc.ArXiv.UserAgent)
	if fc.ArXiv.Timeout > 0 {
		cfg.Timeout = fc.ArXiv.Timeout
	}
	if fc.ArXiv.MaxAttempts > 0 {
		cfg.MaxAttempts = fc.ArXiv.MaxAttempts
	}
	if fc.ArXiv.Concurrency > 0 {
		cfg.Concurrency = fc.ArXiv.Concurrency
	}
	cfg.RespectRobots = cfg.RespectRobots || fc.ArXiv.RespectRobots

	if fc.TLS.Verify != nil {
		cfg.SSLVerify = *fc.TLS.Verify
	}
	if fc.TLS.InsecureFallback != nil {
		cfg.InsecureFallback = *fc.TLS.InsecureFallback
	}

	setString(&cfg.CacheDir, fc.Cache.Dir)
	if fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if fc.Cache.MaxBytes > 0 {
		cfg.CacheMaxBytes = fc.Cache.MaxBytes
	}
	if fc.Cache.MaxEntries > 0 {
		cfg.CacheMaxEntries = fc.Cache.MaxEntries
	}
	cfg.CacheClear = cfg.CacheClear || fc.Cache.Clear
	cfg.CacheStrictPerms = cfg.CacheStrictPerms || fc.Cache.StrictPerms
	cfg.BypassCache = cfg.BypassCache || fc.Cache.Bypass
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
