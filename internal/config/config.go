package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gravitrone/nntags/internal/tags"
)

// DefaultAssociatedHex colors associated tags unless configured.
const DefaultAssociatedHex = "#3f866b"

// Config holds CLI configuration stored at ~/.nntags/config.
type Config struct {
	BaseURL          string   `yaml:"base_url"`
	APIVersion       string   `yaml:"api_version,omitempty"`
	AccessToken      string   `yaml:"access_token"`
	HostEntity       string   `yaml:"host_entity"`
	HostID           string   `yaml:"host_id"`
	RelationshipName string   `yaml:"relationship_name"`
	RelatedEntity    string   `yaml:"related_entity"`
	Columns          []string `yaml:"columns,omitempty"`
	AssociatedHex    string   `yaml:"associated_hex,omitempty"`
	DisableSearchbox string   `yaml:"disable_searchbox,omitempty"`
	DisableSubgrid   string   `yaml:"disable_subgrid,omitempty"`
	ControlDisabled  bool     `yaml:"control_disabled,omitempty"`
	RequestTimeout   string   `yaml:"request_timeout,omitempty"`
	PageSize         int      `yaml:"page_size,omitempty"`
}

// Path returns the config file path.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nntags", "config")
}

// Load reads the config file, applies .env and NNTAGS_* environment
// overrides, and validates the result. A missing file is only an error if
// the environment does not fill in the required fields.
func Load() (*Config, error) {
	cfg, fileErr := loadFile(Path())
	if fileErr != nil && !errors.Is(fileErr, os.ErrNotExist) {
		return nil, fileErr
	}
	if cfg == nil {
		cfg = &Config{}
	}

	// a missing .env is fine
	_ = godotenv.Load()
	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		if fileErr != nil {
			return nil, fileErr
		}
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.BaseURL, "NNTAGS_BASE_URL")
	set(&c.APIVersion, "NNTAGS_API_VERSION")
	set(&c.AccessToken, "NNTAGS_ACCESS_TOKEN")
	set(&c.HostEntity, "NNTAGS_HOST_ENTITY")
	set(&c.HostID, "NNTAGS_HOST_ID")
	set(&c.RelationshipName, "NNTAGS_RELATIONSHIP_NAME")
	set(&c.RelatedEntity, "NNTAGS_RELATED_ENTITY")
	set(&c.AssociatedHex, "NNTAGS_ASSOCIATED_HEX")
	set(&c.DisableSearchbox, "NNTAGS_DISABLE_SEARCHBOX")
	set(&c.DisableSubgrid, "NNTAGS_DISABLE_SUBGRID")
	set(&c.RequestTimeout, "NNTAGS_REQUEST_TIMEOUT")
	if v := strings.TrimSpace(getenv("NNTAGS_COLUMNS")); v != "" {
		c.Columns = splitList(v)
	}
	if v := strings.TrimSpace(getenv("NNTAGS_CONTROL_DISABLED")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ControlDisabled = b
		}
	}
	if v := strings.TrimSpace(getenv("NNTAGS_PAGE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageSize = n
		}
	}
}

// Validate checks the fields needed to reach the store.
func (c *Config) Validate() error {
	required := []struct{ key, value string }{
		{"base_url", c.BaseURL},
		{"host_entity", c.HostEntity},
		{"host_id", c.HostID},
		{"relationship_name", c.RelationshipName},
		{"related_entity", c.RelatedEntity},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("config missing %s", r.key)
		}
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout parses request_timeout; zero means the controller default.
func (c *Config) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.RequestTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("config request_timeout invalid: %q", c.RequestTimeout)
	}
	return d, nil
}

// SearchEnabled maps disable_searchbox: "0" shows the search box, anything
// else (default "1") hides it.
func (c *Config) SearchEnabled() bool {
	return strings.TrimSpace(c.DisableSearchbox) == "0"
}

// ClickWhenDisabled maps disable_subgrid: "1" (the default) keeps tags
// clickable while the control is disabled.
func (c *Config) ClickWhenDisabled() bool {
	v := strings.TrimSpace(c.DisableSubgrid)
	return v == "" || v == "1"
}

// Associated returns the associated tag color.
func (c *Config) Associated() string {
	if strings.TrimSpace(c.AssociatedHex) == "" {
		return DefaultAssociatedHex
	}
	return c.AssociatedHex
}

// Options maps the config onto controller options.
func (c *Config) Options() tags.Options {
	timeout, _ := c.Timeout()
	return tags.Options{
		EnableSearch:           c.SearchEnabled(),
		AllowClickWhenDisabled: c.ClickWhenDisabled(),
		Disabled:               c.ControlDisabled,
		RequestTimeout:         timeout,
	}
}

// ContextParams returns the unresolved relationship context.
func (c *Config) ContextParams() tags.ContextParams {
	return tags.ContextParams{
		HostEntity:    c.HostEntity,
		HostID:        c.HostID,
		Relationship:  c.RelationshipName,
		RelatedEntity: c.RelatedEntity,
	}
}

// ViewColumns returns the configured columns in display order.
func (c *Config) ViewColumns() []tags.Column {
	cols := make([]tags.Column, 0, len(c.Columns))
	for i, name := range c.Columns {
		if name = strings.TrimSpace(name); name != "" {
			cols = append(cols, tags.Column{Name: name, Order: i})
		}
	}
	return cols
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
