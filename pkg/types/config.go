package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-tracker/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Proxy is an optional proxy URL applied to outbound requests.
	Proxy string `json:"proxy,omitempty" yaml:"proxy,omitempty"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PageSize is the number of results requested per page (default 50).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxRetries is the number of retries after a failed page request
	// before the page is treated as empty (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RatePerSecond caps the request rate against the upstream (default 1).
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second"`

	// RateBurst is the rate limiter burst size (default 1).
	RateBurst int `json:"rate_burst" yaml:"rate_burst"`

	// LookBackDays widens a single-day window's lower bound to absorb
	// upstream indexing lag (default 4).
	LookBackDays int `json:"look_back_days" yaml:"look_back_days"`

	// TranslateTo is the target language for title/abstract translation.
	// Empty disables translation.
	TranslateTo string `json:"translate_to,omitempty" yaml:"translate_to,omitempty"`
}

// StoreConfig holds settings for the paper store.
type StoreConfig struct {
	// Path is the SQLite database file (default "papers.db").
	Path string `json:"path" yaml:"path"`
}

// LoggingConfig holds settings for the process logger.
type LoggingConfig struct {
	// Level is the minimum level emitted: debug, info, warn, or error.
	Level string `json:"level" yaml:"level"`

	// Format selects the output encoding: console or json.
	Format string `json:"format" yaml:"format"`
}

// ExportConfig holds settings for rendered output.
type ExportConfig struct {
	// Dir is the directory per-day files are written into.
	Dir string `json:"dir" yaml:"dir"`

	// Whitelist lists categories considered on-topic for display.
	Whitelist []string `json:"whitelist" yaml:"whitelist"`

	// Blacklist lists categories that push a paper into the filtered
	// partition even when whitelisted ones are present.
	Blacklist []string `json:"blacklist" yaml:"blacklist"`
}

// Config groups all stage configurations.
type Config struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Export  ExportConfig  `json:"export" yaml:"export"`

	// ChatsFile is the YAML file holding per-chat keyword subscriptions.
	ChatsFile string `json:"chats_file" yaml:"chats_file"`
}

// DefaultConfig returns the configuration used when no file or flags
// override it.
func DefaultConfig() Config {
	return Config{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "arxiv-tracker/0.1",
			},
			PageSize:      50,
			MaxRetries:    3,
			RatePerSecond: 1,
			RateBurst:     1,
			LookBackDays:  4,
		},
		Store: StoreConfig{Path: "papers.db"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Export: ExportConfig{
			Dir:       "output",
			Whitelist: []string{"cs.CV", "cs.AI", "cs.LG", "cs.CL", "cs.IR", "cs.MA"},
		},
		ChatsFile: "chats.yaml",
	}
}
