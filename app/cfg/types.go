package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Feed source configuration
	FeedsDir string

	// Relevance scoring configuration
	Query          string
	MinScore       int
	LLMServerURL   string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeout     int

	// Scheduler configuration
	Interval    int // minutes
	MaxRuns     int
	CleanupDays int

	// HTTP configuration
	Port         string
	FetchTimeout int

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
