// Command gen-draws writes a synthetic, seeded draw history as JSON.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/okian/drawscope/internal/drawgen"
	"github.com/okian/drawscope/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	cfg := drawgen.DefaultConfig()
	var (
		end      string
		output   string
		keepZero bool
	)
	cmd := &cobra.Command{
		Use:   "gen-draws",
		Short: "Generate a synthetic draw history",
		Long: `gen-draws writes consecutive draw days with the nine prize slots
(1st, 2nd, 3rd, 5000, 2000, 1000, 500, 200, 100) and DD-MM-YYYY dates.
The same seed, day count and end date always produce the same file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWithWriter(errOut); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if end != "" {
				t, err := time.Parse(drawgen.DateLayout, end)
				if err != nil {
					return fmt.Errorf("--end: %w", err)
				}
				cfg.End = t
			}
			cfg.TrimZeros = !keepZero

			w := out
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			start := time.Now()
			n, err := drawgen.Write(cmd.Context(), w, cfg)
			if err != nil {
				return err
			}
			logger.Get().Info(cmd.Context(), "draw history written",
				logger.String("days", humanize.Comma(int64(n))),
				logger.String("output", output),
				logger.Duration("took", time.Since(start)),
			)
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	f := cmd.Flags()
	f.IntVar(&cfg.Days, "days", cfg.Days, "number of draw days")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	f.StringVar(&end, "end", "", "date of the last day, DD-MM-YYYY (default today)")
	f.StringVarP(&output, "output", "o", "", "output file, - or empty for stdout")
	f.BoolVar(&keepZero, "keep-zeros", false, "pad every number to four digits")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "days generated concurrently")
	return cmd
}
