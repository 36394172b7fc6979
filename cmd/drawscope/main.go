// Command drawscope analyzes draw history from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/drawscope/internal/config"
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

// cli holds state shared by every subcommand.
type cli struct {
	out    io.Writer
	errOut io.Writer
	cfg    *config.Config

	// persistent flag values
	dataPath   string
	dataSource string
	table      string
	logLevel   string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "drawscope",
		Short: "Digit occurrence analysis over draw history",
		Long: `drawscope finds where a 1-3 digit query appears in historical draw
numbers and predicts the digit most likely to follow it, per digit group.

Configuration is read from DRAWSCOPE_CONFIG (YAML) and DRAWSCOPE_* variables;
flags override both.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = logger.Sync() },
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&c.dataPath, "data", "", "dataset path (JSON file or SQLite database)")
	pf.StringVar(&c.dataSource, "source", "", "dataset kind: json or sqlite")
	pf.StringVar(&c.table, "table", "", "SQLite table holding draw rows")
	pf.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(c.analyzeCmd(), c.groupsCmd(), c.importCmd())
	return root
}

// setup loads the configuration and applies flag overrides. Logs go to
// stderr so stdout carries only results.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := logger.InitWithWriter(c.errOut); err != nil {
		return err
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataPath = c.dataPath
	}
	if flags.Changed("source") {
		cfg.DataSource = c.dataSource
	}
	if flags.Changed("table") {
		cfg.SQLiteTable = c.table
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	c.cfg = cfg
	return nil
}
