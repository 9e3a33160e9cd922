package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string

	// Auth; empty disables the API key check.
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Latency stats window
	StatsWindow time.Duration

	// Defaults applied to every request unless overridden.
	TOC TOCConfig
}

// TOCConfig holds heading selection and rendering defaults. It can be
// loaded from a YAML file named by DOCTOC_CONFIG.
type TOCConfig struct {
	Tags            []string `yaml:"tags"`
	IgnoredHeadings []string `yaml:"ignored_headings"`
	IgnoredElements []string `yaml:"ignored_elements"`
	Unordered       bool     `yaml:"ul"`
	NavClass        string   `yaml:"nav_class"`
	NoWrap          bool     `yaml:"no_wrap"`
}

// DefaultTOC returns the stock heading selection and markup settings.
func DefaultTOC() TOCConfig {
	return TOCConfig{
		Tags:            []string{"h2", "h3", "h4"},
		IgnoredHeadings: []string{"[data-toc-exclude]"},
		IgnoredElements: []string{},
		NavClass:        "toc",
	}
}

// Load reads the optional YAML file, then applies environment overrides.
func Load() (Config, error) {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("DOCTOC_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20971520), // 20MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		TOC: DefaultTOC(),
	}

	if path := os.Getenv("DOCTOC_CONFIG"); path != "" {
		toc, err := LoadTOCFile(path, cfg.TOC)
		if err != nil {
			return cfg, err
		}
		cfg.TOC = toc
	}
	cfg.TOC = cfg.TOC.withEnv()

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg, nil
}

// LoadTOCFile overlays the YAML file at path onto base. Keys missing from
// the file keep their base value.
func LoadTOCFile(path string, base TOCConfig) (TOCConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	out := base
	if err := yaml.Unmarshal(data, &out); err != nil {
		return base, fmt.Errorf("decode config %s: %w", path, err)
	}
	return out, nil
}

func (t TOCConfig) withEnv() TOCConfig {
	if v, ok := os.LookupEnv("DOCTOC_TAGS"); ok {
		t.Tags = SplitList(v)
	}
	if v, ok := os.LookupEnv("DOCTOC_IGNORED_HEADINGS"); ok {
		t.IgnoredHeadings = SplitList(v)
	}
	if v, ok := os.LookupEnv("DOCTOC_IGNORED_ELEMENTS"); ok {
		t.IgnoredElements = SplitList(v)
	}
	t.Unordered = envBool("DOCTOC_UL", t.Unordered)
	t.NoWrap = envBool("DOCTOC_NO_WRAP", t.NoWrap)
	if v, ok := os.LookupEnv("DOCTOC_NAV_CLASS"); ok {
		t.NavClass = v
	}
	return t
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if len(SplitList(strings.Join(c.TOC.Tags, ","))) == 0 {
		return fmt.Errorf("at least one heading tag is required")
	}
	return nil
}

// SplitList splits a comma-separated list, dropping empty entries.
// Selectors containing commas must be passed as separate entries.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
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
