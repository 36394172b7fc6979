package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	app "github.com/okian/drawscope/internal/app"
	"github.com/okian/drawscope/internal/domain/types"
	"github.com/spf13/cobra"
)

func (c *cli) groupsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List the configured digit groups",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			engine, err := app.NewEngine(c.cfg)
			if err != nil {
				return err
			}
			groups := types.FromTable(engine.Table())
			if asJSON {
				return json.NewEncoder(c.out).Encode(groups)
			}
			tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "GROUP\tDIGITS")
			for _, g := range groups {
				fmt.Fprintf(tw, "%s\t%s\n", g.Key, joinInts(g.Digits))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the groups as JSON")
	return cmd
}
