package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/quokkaq/quokkaq/internal/popover"
	"github.com/quokkaq/quokkaq/internal/ui/keymap"
)

// EnvPrefix prefixes every environment override, e.g. QUOKKAQ_POPOVER_REOPEN.
const EnvPrefix = "QUOKKAQ"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the complete application configuration
type Config struct {
	Popover       PopoverConfig       `mapstructure:"popover" yaml:"popover"`
	Profile       ProfileConfig       `mapstructure:"profile" yaml:"profile"`
	Settings      SettingsConfig      `mapstructure:"settings" yaml:"settings"`
	Theme         ThemeConfig         `mapstructure:"theme" yaml:"theme"`
	Accessibility AccessibilityConfig `mapstructure:"accessibility" yaml:"accessibility"`
	Keys          map[string][]string `mapstructure:"keys" yaml:"keys,omitempty"`
	Log           LogConfig           `mapstructure:"log" yaml:"log"`

	source string
}

// PopoverConfig configures the account menu.
type PopoverConfig struct {
	Tabs   []string          `mapstructure:"tabs" yaml:"tabs"`
	Labels map[string]string `mapstructure:"labels" yaml:"labels"`
	Reopen string            `mapstructure:"reopen" yaml:"reopen"`
	Strict bool              `mapstructure:"strict" yaml:"strict"`
	Title  string            `mapstructure:"title" yaml:"title"`
	Width  int               `mapstructure:"width" yaml:"width"`
}

// ProfileConfig is the signed-in user shown in the profile panel.
type ProfileConfig struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Email   string `mapstructure:"email" yaml:"email"`
	Role    string `mapstructure:"role" yaml:"role"`
	Summary string `mapstructure:"summary" yaml:"summary,omitempty"` // optional block
}

type SettingsConfig struct {
	Entries []SettingsEntry `mapstructure:"entries" yaml:"entries"`
}

type SettingsEntry struct {
	ID    string `mapstructure:"id" yaml:"id"`
	Label string `mapstructure:"label" yaml:"label"`
	Route string `mapstructure:"route" yaml:"route"`
}

type ThemeConfig struct {
	Colors       map[string]string `mapstructure:"colors" yaml:"colors"`
	HighContrast bool              `mapstructure:"high_contrast" yaml:"high_contrast"`
}

type AccessibilityConfig struct {
	ScreenReader  bool `mapstructure:"screen_reader" yaml:"screen_reader"`
	NoColor       bool `mapstructure:"no_color" yaml:"no_color"`
	Announcements bool `mapstructure:"announcements" yaml:"announcements"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file,omitempty"`
}

// DefaultColors is the palette used for any colour the config leaves out.
var DefaultColors = map[string]string{
	"primary": "#FAFAFA",
	"muted":   "#9CA3AF",
	"accent":  "#7D56F4",
	"border":  "#6B7280",
	"focused": "#06B6D4",
	"success": "#04B575",
	"error":   "#EF4444",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("popover.tabs", []string{"profile", "settings"})
	v.SetDefault("popover.labels", map[string]string{"profile": "Profile", "settings": "Settings"})
	v.SetDefault("popover.reopen", popover.ReopenRestoreLast.String())
	v.SetDefault("popover.strict", false)
	v.SetDefault("popover.title", "Account")
	v.SetDefault("popover.width", 36)

	v.SetDefault("profile.name", "Quinn Quokka")
	v.SetDefault("profile.email", "quinn@quokkaq.dev")
	v.SetDefault("profile.role", "Student")
	v.SetDefault("profile.summary", "")

	v.SetDefault("settings.entries", []map[string]string{
		{"id": "notifications", "label": "Notifications", "route": "/settings/notifications"},
		{"id": "appearance", "label": "Appearance", "route": "/settings/appearance"},
		{"id": "privacy", "label": "Privacy", "route": "/settings/privacy"},
	})

	v.SetDefault("theme.colors", DefaultColors)
	v.SetDefault("theme.high_contrast", false)

	v.SetDefault("accessibility.screen_reader", false)
	v.SetDefault("accessibility.no_color", false)
	v.SetDefault("accessibility.announcements", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// searchPaths lists the directories searched for quokkaq.yaml, in order of
// preference.
func searchPaths() []string {
	paths := []string{
		"configs",
		"./configs",
		filepath.Join("..", "configs"),
	}
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		paths = append(paths,
			filepath.Join(execDir, "configs"),
			filepath.Join(execDir, "..", "configs"),
		)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".quokkaq"))
	}
	return append(paths, "/etc/quokkaq")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the configuration built from defaults and environment
// overrides only.
func Default() (*Config, error) {
	return decode(newViper())
}

// Load reads the configuration. An explicit path must exist; with an empty
// path quokkaq.yaml is looked up on the search path and defaults are used
// when none is found.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quokkaq")
		v.SetConfigType("yaml")
		for _, p := range searchPaths() {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.source = v.ConfigFileUsed()

	for name, value := range DefaultColors {
		if cfg.Theme.Colors == nil {
			cfg.Theme.Colors = make(map[string]string, len(DefaultColors))
		}
		if _, ok := cfg.Theme.Colors[name]; !ok {
			cfg.Theme.Colors[name] = value
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Source returns the file the configuration was read from, or "" when only
// defaults were used.
func (c *Config) Source() string { return c.source }

// Validate checks the values that cannot be caught by decoding.
func (c *Config) Validate() error {
	if len(c.Popover.Tabs) == 0 {
		return fmt.Errorf("%w: popover.tabs is empty", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Popover.Tabs))
	for _, t := range c.Popover.Tabs {
		if t == "" {
			return fmt.Errorf("%w: popover.tabs has an empty id", ErrInvalid)
		}
		if seen[t] {
			return fmt.Errorf("%w: popover.tabs lists %q twice", ErrInvalid, t)
		}
		seen[t] = true
	}
	if _, err := popover.ParseReopenPolicy(c.Popover.Reopen); err != nil {
		return fmt.Errorf("%w: popover.reopen: %w", ErrInvalid, err)
	}
	if c.Popover.Width < 0 {
		return fmt.Errorf("%w: popover.width must not be negative", ErrInvalid)
	}
	entries := make(map[string]bool, len(c.Settings.Entries))
	for _, e := range c.Settings.Entries {
		if e.ID == "" {
			return fmt.Errorf("%w: settings entry %q has no id", ErrInvalid, e.Label)
		}
		if entries[e.ID] {
			return fmt.Errorf("%w: settings entry id %q is used twice", ErrInvalid, e.ID)
		}
		entries[e.ID] = true
	}
	if _, err := keymap.DefaultKeyMap().WithOverrides(c.Keys); err != nil {
		return fmt.Errorf("%w: keys: %w", ErrInvalid, err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	return nil
}

// ReopenPolicy returns the parsed popover.reopen value.
func (c *Config) ReopenPolicy() popover.ReopenPolicy {
	p, _ := popover.ParseReopenPolicy(c.Popover.Reopen)
	return p
}

// Dump writes the effective configuration as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
