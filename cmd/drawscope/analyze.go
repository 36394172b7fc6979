package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	app "github.com/okian/drawscope/internal/app"
	"github.com/okian/drawscope/internal/domain/analysis"
	"github.com/okian/drawscope/internal/domain/match"
	"github.com/okian/drawscope/internal/domain/types"
	"github.com/okian/drawscope/pkg/logger"
	"github.com/spf13/cobra"
)

func (c *cli) analyzeCmd() *cobra.Command {
	var (
		mode    string
		window  int
		top     int
		all     bool
		asJSON  bool
		matches int
	)
	cmd := &cobra.Command{
		Use:   "analyze <query>",
		Short: "Analyze a 1-3 digit query and predict the next digit per group",
		Example: `  drawscope analyze 310
  drawscope analyze 31 --mode prefix --top 3 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := analysis.Options{WindowDays: window, TopN: top, AllGroups: all}
			if mode != "" {
				m, err := match.ParseMode(mode)
				if err != nil {
					return err
				}
				opts.Mode = m
			}
			if top > c.cfg.MaxTopN {
				return fmt.Errorf("--top %d exceeds max_top_n %d", top, c.cfg.MaxTopN)
			}

			svcOpts, err := app.OptionsFromConfig(c.cfg)
			if err != nil {
				return err
			}
			svc := app.New(append(svcOpts, app.WithLogger(logger.Named("cli")))...)
			if err := svc.Load(cmd.Context()); err != nil {
				return err
			}

			out, err := svc.Analyze(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			return writeAnalysis(c.out, out, matches)
		},
	}

	f := cmd.Flags()
	f.StringVar(&mode, "mode", "", "match mode: contains or prefix (default from config)")
	f.IntVar(&window, "window", 0, "recency window in days (default from config)")
	f.IntVar(&top, "top", 0, "predicted numbers per group (default from config)")
	f.BoolVar(&all, "all", false, "include groups without occurrences")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	f.IntVar(&matches, "matches", 10, "matches listed in text output, 0 for none")
	return cmd
}

// writeAnalysis renders a result as aligned text.
func writeAnalysis(w io.Writer, a types.Analysis, maxMatches int) error {
	fmt.Fprintf(w, "query %s (%s), window %d days, latest draw %s, predicting for %s\n",
		a.Query, a.Mode, a.WindowDays, a.LatestDate, a.TargetDate)
	fmt.Fprintf(w, "%d matches on %d dates, %d groups hit", a.Summary.TotalMatches, a.Summary.UniqueDates, a.Summary.GroupsHit)
	if a.Summary.LastSeen != "" {
		fmt.Fprintf(w, ", last seen %s", a.Summary.LastSeen)
	}
	fmt.Fprintln(w)

	if len(a.Groups) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "GROUP\tDIGITS\tHITS\tSTRATEGY\tCONTINUITY\tCONFIDENCE\tPREDICTED")
		for _, g := range a.Groups {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s %.2f\t%s\t%s\n",
				g.Key, joinInts(g.Digits), g.Occurrences, g.Strategy,
				g.Continuity.Direction, g.Continuity.Score, g.Confidence, strings.Join(g.PredictedNumbers, " "))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if maxMatches > 0 && len(a.Matches) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tSLOT\tNUMBER\tGROUPS\tCOMBINED")
		for i, m := range a.Matches {
			if i == maxMatches {
				fmt.Fprintf(tw, "...\t\t%d more\t\t\n", len(a.Matches)-maxMatches)
				break
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				m.Date, m.Slot, m.Number, strings.Join(m.Groups, ","), strings.Join(m.CombinedNumbers, " "))
		}
		return tw.Flush()
	}
	return nil
}

func joinInts(ds []int) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}
