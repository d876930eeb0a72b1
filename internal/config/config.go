package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"bballcal/internal/model"
	"bballcal/internal/team"
)

// NOTE: This file provides the configuration model and full YAML-based
// load/save behavior, including first-run config creation and 0600
// permissions.

// LeagueConfig describes a single league schedule source, in priority order.
type LeagueConfig struct {
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label shown in calendars.
	Name string `yaml:"name" json:"name"`
	// URL is the league's schedule launch page.
	URL string `yaml:"url" json:"url"`
	// Origin is the site origin for API requests; derived from URL if empty.
	Origin string `yaml:"origin,omitempty" json:"origin,omitempty"`
}

// TeamConfig is one configured team: its identity, coach, and practice plan.
type TeamConfig struct {
	Grade  int          `yaml:"grade" json:"grade"`
	Gender model.Gender `yaml:"gender" json:"gender"`
	Color  string       `yaml:"color" json:"color"`
	Coach  model.Coach  `yaml:"coach,omitempty" json:"coach,omitempty"`

	Practices model.PracticeSpec `yaml:"practices,omitempty" json:"practices,omitempty"`
}

// Key returns the team's normalized identity.
func (t *TeamConfig) Key() model.TeamKey {
	return model.TeamKey{Grade: t.Grade, Gender: t.Gender, Color: t.Color}
}

// Config is the top-level application configuration.
type Config struct {
	// Town is the program's town name, used in team display names and
	// to locate the town's entry on league sites.
	Town string `yaml:"town" json:"town"`

	// Listen is the HTTP listen address for serve mode.
	Listen string `yaml:"listen" json:"listen"`

	// BaseURL is the public URL prefix published calendars are reachable
	// under, used for subscription links on the index page.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// OutputDir is where .ics files, index.html, and status.json are written.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// RefreshCron is a cron-style schedule string (e.g. "0 */6 * * *")
	// used for periodic refresh in serve mode.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// Leagues lists schedule sources in priority order. When the same game
	// appears in more than one league, the earlier-listed league wins ties.
	Leagues []LeagueConfig `yaml:"leagues" json:"leagues"`

	// Season bounds occurrence generation and carries blackout periods.
	Season model.Season `yaml:"season" json:"season"`

	// Aliases maps each canonical team color to the variant spellings the
	// league sites use for it.
	Aliases team.AliasTable `yaml:"aliases,omitempty" json:"aliases,omitempty"`

	// Teams are the program's configured teams.
	Teams []TeamConfig `yaml:"teams" json:"teams"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Town:        "Milton",
		Listen:      "127.0.0.1:8080",
		OutputDir:   "docs",
		RefreshCron: "0 */6 * * *",
		Leagues:     []LeagueConfig{},
		Aliases:     team.AliasTable{},
		Teams:       []TeamConfig{},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs (e.g., older versions) still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.OutputDir == "" {
		c.OutputDir = "docs"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "0 */6 * * *"
	}
	if c.Leagues == nil {
		c.Leagues = []LeagueConfig{}
	}
	if c.Aliases == nil {
		c.Aliases = team.AliasTable{}
	}
	if c.Teams == nil {
		c.Teams = []TeamConfig{}
	}
}

// Validate checks cross-field consistency that Normalize cannot repair:
// the alias table must be unambiguous, league IDs unique, and every team
// must carry a parseable grade and gender.
func (c *Config) Validate() error {
	if err := c.Aliases.Validate(); err != nil {
		return fmt.Errorf("aliases: %w", err)
	}

	seen := make(map[string]bool, len(c.Leagues))
	for _, lg := range c.Leagues {
		if lg.ID == "" {
			return errors.New("league with empty id")
		}
		if seen[lg.ID] {
			return fmt.Errorf("duplicate league id %q", lg.ID)
		}
		seen[lg.ID] = true
	}

	for i, tc := range c.Teams {
		if tc.Grade < 1 || tc.Grade > 12 {
			return fmt.Errorf("teams[%d]: grade %d out of range", i, tc.Grade)
		}
		if tc.Gender != model.GenderMale && tc.Gender != model.GenderFemale {
			return fmt.Errorf("teams[%d]: gender %q is not M or F", i, tc.Gender)
		}
	}

	if !c.Season.Start.IsZero() && !c.Season.End.IsZero() && c.Season.End.Before(c.Season.Start) {
		return fmt.Errorf("season end %s before start %s", c.Season.End, c.Season.Start)
	}

	return nil
}

// LeaguePriority returns the configured league IDs in priority order.
func (c *Config) LeaguePriority() []string {
	ids := make([]string, len(c.Leagues))
	for i, lg := range c.Leagues {
		ids[i] = lg.ID
	}
	return ids
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults and validate
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".bballcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Set permissions to 0600 on temp file before rename.
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	// Rename over the target path.
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function:
//
//	cfg, _ := config.Load(path)
//	// ... mutate cfg ...
//	if err := cfg.Save(path); err != nil { ... }
func (c *Config) Save(path string) error {
	return Save(path, c)
}
