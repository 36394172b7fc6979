// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/drawscope/internal/adapters/repository"
	"github.com/okian/drawscope/internal/adapters/source"
	"github.com/okian/drawscope/internal/domain/analysis"
	"github.com/okian/drawscope/internal/domain/match"
	"github.com/okian/drawscope/internal/domain/model"
	"github.com/okian/drawscope/internal/domain/types"
	"github.com/okian/drawscope/pkg/logger"
	"github.com/okian/drawscope/pkg/metrics"
)

// Data states reported by GetStats.
const (
	StateEmpty       = "empty"       // no load attempted yet
	StateLoading     = "loading"     // first load in progress
	StateReady       = "ready"       // store published
	StateUnavailable = "unavailable" // last load failed and no store is published
)

// ErrNoSource is returned by Load when the service has no source configured.
var ErrNoSource = errors.New("no data source configured")

// snapshot is the published result of a successful load.
type snapshot struct {
	store    repository.Store
	skipped  int
	loadedAt time.Time
}

// Service implements the API dependencies for the analysis engine.
type Service struct {
	mu sync.Mutex // serializes loads

	src       source.Source
	engine    *analysis.Engine
	defaults  analysis.Options
	storeOpts []repository.Option

	current  atomic.Pointer[snapshot]
	state    atomic.Value // string
	lastErr  atomic.Value // string
	analyses atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets the dataset source.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.src = src
		}
	}
}

// WithEngine sets the analysis engine.
func WithEngine(e *analysis.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithDefaults sets the options used for fields a request leaves zero.
func WithDefaults(opts analysis.Options) Option {
	return func(s *Service) {
		s.defaults = opts
	}
}

// WithStoreOptions sets the options used when building the record store.
func WithStoreOptions(opts ...repository.Option) Option {
	return func(s *Service) {
		s.storeOpts = append(s.storeOpts, opts...)
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine: analysis.NewEngine(),
		defaults: analysis.Options{
			Mode:        match.Contains,
			NumberWidth: match.DefaultNumberWidth,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.state.Store(StateEmpty)
	s.lastErr.Store("")
	return s
}

// Load reads the dataset, builds the store and publishes it. A failed load
// keeps any previously published store.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.src == nil {
		return ErrNoSource
	}
	if s.current.Load() == nil {
		s.state.Store(StateLoading)
	}

	start := time.Now()
	s.logger.Info(ctx, "loading dataset", logger.String("source", s.src.Name()))

	ds, err := s.src.Load(ctx)
	if err == nil {
		var st *repository.MemoryStore
		st, err = repository.NewMemoryStore(ds.Records, s.storeOpts...)
		if err == nil {
			s.publish(ctx, st, ds, start)
			return nil
		}
		err = fmt.Errorf("build store: %w", err)
	}

	metrics.RecordLoadError()
	metrics.RecordErrorByComponent("loader", "load")
	s.lastErr.Store(err.Error())
	if s.current.Load() == nil {
		s.state.Store(StateUnavailable)
	}
	s.logger.Error(ctx, "dataset load failed", logger.String("source", s.src.Name()), logger.Error(err))
	return err
}

func (s *Service) publish(ctx context.Context, st *repository.MemoryStore, ds source.Dataset, start time.Time) {
	elapsed := time.Since(start)
	s.current.Store(&snapshot{store: st, skipped: ds.Skipped, loadedAt: time.Now()})
	s.state.Store(StateReady)
	s.lastErr.Store("")

	stats := st.Stats()
	metrics.RecordLoad(sourceKind(s.src), float64(elapsed.Microseconds())/1000)
	metrics.UpdateDataset(stats.Records, ds.Skipped, stats.Duplicates, stats.Latest)

	s.logger.Info(ctx, "dataset loaded",
		logger.String("source", s.src.Name()),
		logger.Int("records", stats.Records),
		logger.Int("numbers", stats.Numbers),
		logger.Int("skipped", ds.Skipped),
		logger.Int("duplicates", stats.Duplicates),
		logger.Duration("took", elapsed),
	)
	if ds.Skipped > 0 {
		s.logger.Warn(ctx, "skipped entries with unparseable dates",
			logger.Int("count", ds.Skipped),
			logger.Any("labels", ds.Invalid),
		)
	}
}

// Ready reports whether a store has been published.
func (s *Service) Ready() bool {
	return s.current.Load() != nil
}

// Store returns the published store, nil before the first successful load.
func (s *Service) Store() repository.Store {
	if snap := s.current.Load(); snap != nil {
		return snap.store
	}
	return nil
}

// Defaults returns the options applied to fields a request leaves zero.
func (s *Service) Defaults() analysis.Options {
	return s.defaults
}

// Analyze runs one analysis against the published store. Zero fields of
// opts are filled from the service defaults.
func (s *Service) Analyze(ctx context.Context, query string, opts analysis.Options) (types.Analysis, error) {
	opts = s.withDefaults(opts)
	mode := string(opts.Mode)
	start := time.Now()

	var src analysis.RecordSource
	if snap := s.current.Load(); snap != nil {
		src = snap.store
	}

	res, err := s.engine.Analyze(src, query, opts)
	metrics.RecordAnalysisLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordAnalysis(mode, outcome(err))
		s.logger.Debug(ctx, "analysis rejected", logger.String("query", query), logger.Error(err))
		return types.Analysis{}, err
	}

	s.analyses.Add(1)
	metrics.RecordAnalysis(mode, "ok")
	metrics.RecordAnalysisMatches(len(res.Matches))
	for _, g := range res.Groups {
		metrics.RecordPrediction(types.Strategy(g))
	}

	s.logger.Debug(ctx, "analysis served",
		logger.String("query", res.Query),
		logger.String("mode", mode),
		logger.Int("matches", res.Summary.TotalMatches),
		logger.Int("groups", len(res.Groups)),
	)
	return types.FromResult(res), nil
}

func (s *Service) withDefaults(opts analysis.Options) analysis.Options {
	d := s.defaults
	if opts.Mode == "" {
		opts.Mode = d.Mode
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = d.WindowDays
	}
	if opts.TopN <= 0 {
		opts.TopN = d.TopN
	}
	if opts.QueryWidth == 0 {
		opts.QueryWidth = d.QueryWidth
	}
	if opts.NumberWidth == 0 {
		opts.NumberWidth = d.NumberWidth
	}
	opts.AllGroups = opts.AllGroups || d.AllGroups
	return opts
}

// Groups returns the digit-group table in table order.
func (s *Service) Groups() []types.Group {
	return types.FromTable(s.engine.Table())
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	st := types.Stats{
		State:     s.state.Load().(string),
		LastError: s.lastErr.Load().(string),
		Analyses:  s.analyses.Load(),
	}
	if s.src != nil {
		st.Source = s.src.Name()
	}
	snap := s.current.Load()
	if snap == nil {
		return st
	}
	ss := snap.store.Stats()
	st.Records = ss.Records
	st.Numbers = ss.Numbers
	st.Skipped = snap.skipped
	st.Duplicates = ss.Duplicates
	st.FirstDate = formatDate(ss.First)
	st.LatestDate = formatDate(ss.Latest)
	st.LoadedAt = snap.loadedAt.UTC().Format(time.RFC3339)
	return st
}

// outcome classifies an analysis error for metrics.
func outcome(err error) string {
	switch {
	case errors.Is(err, analysis.ErrInvalidQuery):
		return "invalid_query"
	case errors.Is(err, analysis.ErrInvalidMode):
		return "invalid_mode"
	case errors.Is(err, analysis.ErrInvalidWidth):
		return "invalid_width"
	case errors.Is(err, analysis.ErrNoData):
		return "no_data"
	default:
		return "error"
	}
}

func sourceKind(src source.Source) string {
	switch src.(type) {
	case *source.FileSource:
		return "json"
	case *source.SQLiteSource:
		return "sqlite"
	default:
		return "custom"
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}
