package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./rss_radar.db" description:"Path to the SQLite database file"`

	// Feed source configuration
	FeedsDir string `long:"feeds-dir" env:"FEEDS_DIR" default:"./feeds" description:"Directory containing feed source configuration files"`

	// Relevance scoring configuration
	Query          string  `long:"query" env:"QUERY" default:"artificial intelligence machine learning" description:"Query to score feed items against"`
	MinScore       int     `long:"min-score" env:"MIN_SCORE" default:"50" description:"Minimum relevance score for result listings"`
	LLMServerURL   string  `long:"llm-url" env:"LLM_URL" default:"http://localhost:8081" description:"Base URL of the local completion server"`
	LLMMaxTokens   int     `long:"llm-max-tokens" env:"LLM_MAX_TOKENS" default:"512" description:"Maximum tokens per completion"`
	LLMTemperature float64 `long:"llm-temperature" env:"LLM_TEMPERATURE" default:"0.1" description:"Sampling temperature for completions"`
	LLMTimeout     int     `long:"llm-timeout" env:"LLM_TIMEOUT" default:"120" description:"Per-item inference timeout in seconds"`

	// Scheduler configuration
	Interval    int `long:"interval" env:"INTERVAL" default:"60" description:"Minutes between consumption cycles"`
	MaxRuns     int `long:"max-runs" env:"MAX_RUNS" default:"0" description:"Maximum number of cycles (0 = unbounded)"`
	CleanupDays int `long:"cleanup-days" env:"CLEANUP_DAYS" default:"30" description:"Remove items older than this many days (0 = disabled)"`

	// HTTP configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Default feed fetch timeout in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"RSS Radar/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:         raw.DBPath,
		FeedsDir:       raw.FeedsDir,
		Query:          raw.Query,
		MinScore:       raw.MinScore,
		LLMServerURL:   raw.LLMServerURL,
		LLMMaxTokens:   raw.LLMMaxTokens,
		LLMTemperature: raw.LLMTemperature,
		LLMTimeout:     raw.LLMTimeout,
		Interval:       raw.Interval,
		MaxRuns:        raw.MaxRuns,
		CleanupDays:    raw.CleanupDays,
		Port:           raw.Port,
		FetchTimeout:   raw.FetchTimeout,
		UserAgent:      raw.UserAgent,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Intended for tests.
func Set(c *Cfg) {
	globalCfg = c
}
