package drawgen

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/drawscope/internal/adapters/source"
	"github.com/okian/drawscope/internal/domain/model"
	"github.com/okian/drawscope/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Generate creates cfg.Days consecutive draw days ending at cfg.End, oldest
// first. Every day draws from its own generator seeded by (Seed, day), so the
// result does not depend on Workers or scheduling.
func Generate(ctx context.Context, cfg Config) ([]model.Record, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	end := cfg.End
	if end.IsZero() {
		end = time.Now()
	}
	end = model.CivilDate(end)
	start := end.AddDate(0, 0, -(cfg.Days - 1))

	logger.Get().Info(ctx, "generating draw days",
		logger.Int("days", cfg.Days),
		logger.String("from", start.Format(DateLayout)),
		logger.String("to", end.Format(DateLayout)),
	)

	records := make([]model.Record, cfg.Days)
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = generateDay(cfg, i, start.AddDate(0, 0, i))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return records, nil
}

func generateDay(cfg Config, index int, date time.Time) model.Record {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(index)))
	rec := model.Record{
		Index: index,
		Date:  date,
		Label: date.Format(DateLayout),
		Slots: make([]model.Slot, len(cfg.Slots)),
	}
	for i, spec := range cfg.Slots {
		nums := make([]string, spec.Count)
		for j := range nums {
			nums[j] = formatNumber(rng.IntN(numberSpace), cfg.TrimZeros)
		}
		rec.Slots[i] = model.Slot{ID: spec.ID, Numbers: nums}
	}
	return rec
}

func formatNumber(n int, trim bool) string {
	s := strconv.Itoa(n)
	if trim {
		return s
	}
	for len(s) < numberWidth {
		s = "0" + s
	}
	return s
}

// Write generates a dataset and writes it to w in the date/result JSON shape.
func Write(ctx context.Context, w io.Writer, cfg Config) (int, error) {
	records, err := Generate(ctx, cfg)
	if err != nil {
		return 0, err
	}
	if err := source.WriteJSON(w, records, DateLayout); err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}
	return len(records), nil
}
