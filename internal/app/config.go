package service

import (
	"fmt"

	"github.com/okian/drawscope/internal/adapters/repository"
	"github.com/okian/drawscope/internal/adapters/source"
	"github.com/okian/drawscope/internal/config"
	"github.com/okian/drawscope/internal/domain/analysis"
	"github.com/okian/drawscope/internal/domain/match"
	"github.com/okian/drawscope/internal/domain/scoring"
)

// NewSource builds the dataset source selected by cfg.
func NewSource(cfg *config.Config) (source.Source, error) {
	opts := []source.Option{source.WithDateLayouts(cfg.DateLayouts...)}
	switch cfg.DataSource {
	case config.SourceJSON:
		return source.NewFileSource(cfg.DataPath, opts...), nil
	case config.SourceSQLite:
		opts = append(opts, source.WithTable(cfg.SQLiteTable))
		return source.NewSQLiteSource(cfg.DataPath, opts...), nil
	default:
		return nil, fmt.Errorf("data_source %q: %w", cfg.DataSource, config.ErrInvalidConfig)
	}
}

// NewEngine builds the analysis engine tuned by cfg.
func NewEngine(cfg *config.Config) (*analysis.Engine, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, fmt.Errorf("groups: %w", err)
	}
	predictor := scoring.NewPredictor(
		scoring.WithThreshold(cfg.ContinuityThreshold),
		scoring.WithMinPoints(cfg.MinContinuityPoints),
		scoring.WithFrequencyFloor(cfg.FrequencyFloor),
	)
	return analysis.NewEngine(
		analysis.WithTable(table),
		analysis.WithPredictor(predictor),
		analysis.WithMinWeight(cfg.MinWeight),
	), nil
}

// OptionsFromConfig returns the service options described by cfg.
func OptionsFromConfig(cfg *config.Config) ([]Option, error) {
	src, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	mode, err := match.ParseMode(cfg.MatchMode)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithSource(src),
		WithEngine(engine),
		WithDefaults(analysis.Options{
			Mode:        mode,
			WindowDays:  cfg.RecencyWindowDays,
			TopN:        cfg.TopN,
			QueryWidth:  cfg.QueryWidth,
			NumberWidth: cfg.NumberWidth,
		}),
	}
	if cfg.DropDuplicateDays {
		opts = append(opts, WithStoreOptions(repository.WithDropDuplicates()))
	}
	return opts, nil
}
