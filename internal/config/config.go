// Package config holds the explicit configuration value handed to the
// extraction and delivery layers: wrapper tags, page selectors, storage
// location and fetch/watch settings. It is read from viper, so values come
// from flags, TURNCOPY_* environment variables or $HOME/.turncopy/config.yaml.
package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Viper keys.
const (
	KeyDB           = "db"
	KeyVerbose      = "verbose"
	KeyUserAgent    = "fetch.user_agent"
	KeyTimeout      = "fetch.timeout"
	KeyRequestDelay = "fetch.request_delay"
	KeyInterval     = "watch.interval"
)

// Selectors locate chat messages and their content inside a page.
type Selectors struct {
	// Message matches every user and AI message element.
	Message string `mapstructure:"message"`
	// RoleAttr is the attribute whose value tells user and AI messages apart.
	RoleAttr string `mapstructure:"role_attr"`
	// UserRole and AIRole are the RoleAttr values of the two kinds of turn.
	UserRole string `mapstructure:"user_role"`
	AIRole   string `mapstructure:"ai_role"`
	// UserContent is the plain-text element inside a user message.
	UserContent string `mapstructure:"user_content"`
	// AIContent is the rich-content container inside an AI message.
	AIContent string `mapstructure:"ai_content"`
}

// DefaultSelectors returns the selectors of the chat page's current markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Message:     `div[data-content="user-message"], div[data-content="ai-message"]`,
		RoleAttr:    "data-content",
		UserRole:    "user-message",
		AIRole:      "ai-message",
		UserContent: ".whitespace-pre-wrap",
		AIContent:   ".space-y-3.break-words",
	}
}

// Fetch configures how remote pages are loaded.
type Fetch struct {
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
}

// Watch configures the message watcher.
type Watch struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Config is the resolved configuration.
type Config struct {
	DB        string    `mapstructure:"db"`
	Verbose   bool      `mapstructure:"verbose"`
	Tags      TagSet    `mapstructure:"tags"`
	Selectors Selectors `mapstructure:"selectors"`
	Fetch     Fetch     `mapstructure:"fetch"`
	Watch     Watch     `mapstructure:"watch"`
}

// DefaultConfigPath returns the config file location under home.
func DefaultConfigPath(home string) string {
	return filepath.Join(home, ".turncopy", "config.yaml")
}

// DefaultDBPath returns the history database location under home.
func DefaultDBPath(home string) string {
	return filepath.Join(home, ".turncopy_data", "history.db")
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper, home string) {
	tags := DefaultTags()
	sel := DefaultSelectors()

	v.SetDefault(KeyDB, DefaultDBPath(home))
	v.SetDefault(KeyVerbose, false)

	v.SetDefault(KeyUserOpen, tags.UserOpen)
	v.SetDefault(KeyUserClose, tags.UserClose)
	v.SetDefault(KeyAIOpen, tags.AIOpen)
	v.SetDefault(KeyAIClose, tags.AIClose)

	v.SetDefault("selectors.message", sel.Message)
	v.SetDefault("selectors.role_attr", sel.RoleAttr)
	v.SetDefault("selectors.user_role", sel.UserRole)
	v.SetDefault("selectors.ai_role", sel.AIRole)
	v.SetDefault("selectors.user_content", sel.UserContent)
	v.SetDefault("selectors.ai_content", sel.AIContent)

	v.SetDefault(KeyUserAgent, "Mozilla/5.0 (compatible; turncopy/1.0)")
	v.SetDefault(KeyTimeout, 10*time.Second)
	v.SetDefault(KeyRequestDelay, time.Second)
	v.SetDefault(KeyInterval, 5*time.Second)
}

// Load resolves the configuration held by v. Empty tag values fall back to
// their defaults.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Tags = cfg.Tags.WithDefaults()
	if cfg.Selectors.Message == "" {
		cfg.Selectors = DefaultSelectors()
	}
	if cfg.Watch.Interval <= 0 {
		cfg.Watch.Interval = 5 * time.Second
	}
	return &cfg, nil
}

// Logger returns the diagnostic logger: stderr when verbose, discarded
// otherwise.
func (c *Config) Logger() *log.Logger {
	var w io.Writer = io.Discard
	if c.Verbose {
		w = os.Stderr
	}
	return log.New(w, "[turncopy] ", log.LstdFlags)
}
