// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading layers defaults, an optional YAML file and the environment.
// - Validation errors wrap ErrInvalidConfig, provider errors ErrLoadConfig.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/drawscope/internal/adapters/source"
	"github.com/okian/drawscope/internal/domain/match"
	"github.com/okian/drawscope/internal/domain/pattern"
	"github.com/okian/drawscope/internal/domain/recency"
	"github.com/okian/drawscope/internal/domain/scoring"
)

// Supported data sources.
const (
	SourceJSON   = "json"
	SourceSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataSource selects the loader: json or sqlite.
	DataSource string `koanf:"data_source"`

	// DataPath is the JSON file or SQLite database to load.
	DataPath string `koanf:"data_path"`

	// SQLiteTable names the table holding draw rows.
	SQLiteTable string `koanf:"sqlite_table"`

	// DateLayouts are tried in order when parsing draw dates.
	DateLayouts []string `koanf:"date_layouts"`

	// DropDuplicateDays keeps only the first record of a date instead of merging.
	DropDuplicateDays bool `koanf:"drop_duplicate_days"`

	// NumberWidth left-pads stored numbers before matching; 0 disables.
	NumberWidth int `koanf:"number_width"`

	// QueryWidth left-pads queries before matching; 0 disables, max 3.
	QueryWidth int `koanf:"query_width"`

	// MatchMode is the default mode: contains or prefix.
	MatchMode string `koanf:"match_mode"`

	// RecencyWindowDays is the default linear decay window.
	RecencyWindowDays int `koanf:"recency_window_days"`

	// MinWeight floors every recency weight.
	MinWeight float64 `koanf:"min_weight"`

	// FrequencyFloor is the weight of group digits never observed.
	FrequencyFloor float64 `koanf:"frequency_floor"`

	// ContinuityThreshold and MinContinuityPoints gate ordering continuation.
	ContinuityThreshold float64 `koanf:"continuity_threshold"`
	MinContinuityPoints int     `koanf:"min_continuity_points"`

	// TopN is the default number of predicted numbers per group; MaxTopN caps ?top.
	TopN    int `koanf:"top_n"`
	MaxTopN int `koanf:"max_top_n"`

	// Groups is the digit-group table.
	Groups []pattern.Group `koanf:"groups"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DataSource:          SourceJSON,
		DataPath:            "data.json",
		SQLiteTable:         source.DefaultTable,
		DateLayouts:         append([]string(nil), source.DefaultDateLayouts...),
		NumberWidth:         match.DefaultNumberWidth,
		QueryWidth:          0,
		MatchMode:           string(match.Contains),
		RecencyWindowDays:   recency.DefaultWindowDays,
		MinWeight:           recency.DefaultMinWeight,
		FrequencyFloor:      scoring.DefaultFrequencyFloor,
		ContinuityThreshold: scoring.DefaultThreshold,
		MinContinuityPoints: scoring.DefaultMinPoints,
		TopN:                4,
		MaxTopN:             10,
		Groups:              pattern.DefaultGroups(),
	}
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case !validLevel(c.LogLevel):
		return invalid("log_level %q must be one of debug, info, warn, error", c.LogLevel)
	case c.DataSource != SourceJSON && c.DataSource != SourceSQLite:
		return invalid("data_source %q must be %s or %s", c.DataSource, SourceJSON, SourceSQLite)
	case c.DataPath == "":
		return invalid("data_path must not be empty")
	case c.NumberWidth < 0:
		return invalid("number_width must not be negative")
	case c.QueryWidth < 0 || c.QueryWidth > match.MaxQueryLen:
		return invalid("query_width must be between 0 and %d", match.MaxQueryLen)
	case c.RecencyWindowDays <= 0:
		return invalid("recency_window_days must be positive")
	case c.MinWeight <= 0 || c.MinWeight > 1:
		return invalid("min_weight must be in (0, 1]")
	case c.FrequencyFloor <= 0:
		return invalid("frequency_floor must be positive")
	case c.ContinuityThreshold < 0 || c.ContinuityThreshold > 1:
		return invalid("continuity_threshold must be in [0, 1]")
	case c.MinContinuityPoints < 1:
		return invalid("min_continuity_points must be at least 1")
	case c.TopN < 0:
		return invalid("top_n must not be negative")
	case c.MaxTopN < 1 || c.MaxTopN < c.TopN:
		return invalid("max_top_n must be at least 1 and not below top_n")
	}
	if _, err := match.ParseMode(c.MatchMode); err != nil {
		return invalid("match_mode: %v", err)
	}
	if _, err := c.Table(); err != nil {
		return invalid("groups: %v", err)
	}
	return nil
}

// Table builds the digit-group table. An empty Groups list yields the defaults.
func (c *Config) Table() (*pattern.Table, error) {
	if len(c.Groups) == 0 {
		return pattern.Default(), nil
	}
	return pattern.NewTable(c.Groups...)
}

func validLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
