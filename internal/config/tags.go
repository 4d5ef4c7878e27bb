package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Tag keys.
const (
	KeyUserOpen  = "tags.user_open"
	KeyUserClose = "tags.user_close"
	KeyAIOpen    = "tags.ai_open"
	KeyAIClose   = "tags.ai_close"
)

// TagSet holds the markers wrapped around every turn of a copied
// conversation.
type TagSet struct {
	UserOpen  string `mapstructure:"user_open" json:"userOpen" yaml:"user_open"`
	UserClose string `mapstructure:"user_close" json:"userClose" yaml:"user_close"`
	AIOpen    string `mapstructure:"ai_open" json:"aiOpen" yaml:"ai_open"`
	AIClose   string `mapstructure:"ai_close" json:"aiClose" yaml:"ai_close"`
}

// DefaultTags returns the stock markers.
func DefaultTags() TagSet {
	return TagSet{
		UserOpen:  "<User>",
		UserClose: "</User>",
		AIOpen:    "<Copilot>",
		AIClose:   "</Copilot>",
	}
}

// WithDefaults returns t with every empty field replaced by its default.
func (t TagSet) WithDefaults() TagSet {
	d := DefaultTags()
	if t.UserOpen == "" {
		t.UserOpen = d.UserOpen
	}
	if t.UserClose == "" {
		t.UserClose = d.UserClose
	}
	if t.AIOpen == "" {
		t.AIOpen = d.AIOpen
	}
	if t.AIClose == "" {
		t.AIClose = d.AIClose
	}
	return t
}

// Set assigns the field named by key. Keys are the short names user_open,
// user_close, ai_open and ai_close.
func (t *TagSet) Set(key, value string) error {
	switch key {
	case "user_open":
		t.UserOpen = value
	case "user_close":
		t.UserClose = value
	case "ai_open":
		t.AIOpen = value
	case "ai_close":
		t.AIClose = value
	default:
		return fmt.Errorf("unknown tag %q (want user_open, user_close, ai_open or ai_close)", key)
	}
	return nil
}

// SaveTags stores tags on v and writes them to v's config file. Only the tag
// keys are written; flag, environment and default values held by v stay out
// of the file, and whatever else the file holds is kept.
func SaveTags(v *viper.Viper, tags TagSet) error {
	values := map[string]string{
		KeyUserOpen:  tags.UserOpen,
		KeyUserClose: tags.UserClose,
		KeyAIOpen:    tags.AIOpen,
		KeyAIClose:   tags.AIClose,
	}
	for key, value := range values {
		v.Set(key, value)
	}
	return write(v.ConfigFileUsed(), values)
}

// ResetTags stores the default tags.
func ResetTags(v *viper.Viper) (TagSet, error) {
	tags := DefaultTags()
	return tags, SaveTags(v, tags)
}

// write merges values into the config file at path, creating it if needed.
func write(path string, values map[string]string) error {
	if path == "" {
		return errors.New("failed to write config: no config file set")
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file := viper.New()
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read config: %w", err)
	}
	for key, value := range values {
		file.Set(key, value)
	}
	if err := file.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
