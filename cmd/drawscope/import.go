package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/okian/drawscope/internal/adapters/source"
	"github.com/okian/drawscope/internal/domain/model"
	"github.com/okian/drawscope/pkg/logger"
	"github.com/spf13/cobra"
)

func (c *cli) importCmd() *cobra.Command {
	var layout string
	cmd := &cobra.Command{
		Use:   "import <json-file> <sqlite-db>",
		Short: "Copy a JSON dataset into a SQLite database",
		Long: `import reads a JSON dataset with the configured date layouts and appends
its rows to the SQLite table (created when missing). Days whose date
cannot be parsed are skipped and reported.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.Named("import")

			src := source.NewFileSource(args[0], source.WithDateLayouts(c.cfg.DateLayouts...))
			ds, err := src.Load(ctx)
			if err != nil {
				return err
			}
			if err := source.WriteSQLite(ctx, args[1], c.cfg.SQLiteTable, ds.Records, layout); err != nil {
				return err
			}
			if ds.Skipped > 0 {
				log.Warn(ctx, "skipped days with unparseable dates",
					logger.Int("count", ds.Skipped), logger.Any("labels", ds.Invalid))
			}
			fmt.Fprintf(c.out, "imported %s days into %s (table %s), skipped %s\n",
				humanize.Comma(int64(len(ds.Records))), args[1], c.cfg.SQLiteTable, humanize.Comma(int64(ds.Skipped)))
			return nil
		},
	}
	cmd.Flags().StringVar(&layout, "date-layout", model.DateLayout, "Go time layout for stored dates, empty keeps the source labels")
	return cmd
}
