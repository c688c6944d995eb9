package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reproforge/reproconv/convert/adapters"
	"github.com/reproforge/reproconv/convert/assemble"
	cverr "github.com/reproforge/reproconv/convert/errors"
	"github.com/reproforge/reproconv/convert/record"
	"github.com/reproforge/reproconv/internal/cli/config"
	"github.com/reproforge/reproconv/schema"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <dictionary.csv>",
	Short: "Convert a tabular data dictionary into a graph bundle",
	Long: `Convert reads a data-dictionary CSV, builds the Protocol/Activity/Item
document graph and writes it as a bundle of schema files. Per-field problems
are reported together at the end; the bundle is still written so partial
output can be inspected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Protocol.Name == "" {
			return fmt.Errorf("protocol.name must be set in reproconv.yml")
		}

		log := newLogger()
		defer log.Sync()
		run := record.NewRun(log)

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("cannot open dictionary: %w", err)
		}
		defer f.Close()

		var recs []record.FieldRecord
		if cfg.Source.Dialect == config.DialectNBDC {
			recs, err = adapters.ReadNBDCDictionary(run, f, cfg.ColumnMap(), cfg.Delim())
		} else {
			recs, err = adapters.ReadDictionary(run, f, cfg.ColumnMap(), cfg.Delim())
		}
		if err != nil {
			return err
		}

		set, err := assemble.Assemble(run, assemble.ProtocolMeta{
			Name:        cfg.Protocol.Name,
			DisplayName: cfg.Protocol.DisplayName,
			Description: cfg.Protocol.Description,
			Version:     cfg.Protocol.Version,
		}, recs)
		if err != nil {
			return err
		}

		outDir := convertOutput
		if outDir == "" {
			outDir = cfg.Output.Dir
		}
		if err := schema.WriteBundle(set, outDir); err != nil {
			return err
		}
		log.Info("bundle written",
			zap.String("dir", outDir),
			zap.Int("activities", len(set.Activities)),
			zap.Int("errors", run.Errors.Len()))

		return report(run)
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output directory for the bundle")
}

// report prints collected errors and decides the exit status: a run with
// collected errors completes but exits non-zero.
func report(run *record.Run) error {
	errs := run.Errors.Errors()
	if flagJSON {
		if err := cverr.WriteJSON(os.Stdout, run.ID, errs); err != nil {
			return err
		}
	} else if len(errs) > 0 {
		fmt.Fprint(os.Stderr, cverr.FormatAllForTerminal(errs))
	}
	if len(errs) > 0 {
		return fmt.Errorf("conversion completed with %d error(s)", len(errs))
	}
	return nil
}
