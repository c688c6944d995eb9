package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reproforge/reproconv/convert/adapters"
	"github.com/reproforge/reproconv/convert/assemble"
	"github.com/reproforge/reproconv/convert/record"
	"github.com/reproforge/reproconv/internal/cli/config"
	"github.com/reproforge/reproconv/schema"
)

var flattenOutput string

var flattenCmd = &cobra.Command{
	Use:   "flatten <protocol_schema>",
	Short: "Flatten a graph bundle back into a tabular data dictionary",
	Long: `Flatten loads a graph bundle starting from its protocol schema file and
re-emits the fields as a data-dictionary CSV on stdout (or into --output).
Graph constructs the tabular form cannot express are reported, not silently
dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		log := newLogger()
		defer log.Sync()
		run := record.NewRun(log)

		set, err := schema.LoadBundle(args[0])
		if err != nil {
			return err
		}

		recs, err := assemble.Flatten(run, set)
		if err != nil {
			return err
		}

		out := os.Stdout
		if flattenOutput != "" {
			f, err := os.Create(flattenOutput)
			if err != nil {
				return fmt.Errorf("cannot create output file: %w", err)
			}
			defer f.Close()
			out = f
		}
		if err := adapters.WriteDictionary(out, recs, cfg.ColumnMap(), cfg.Delim()); err != nil {
			return err
		}
		log.Info("dictionary emitted",
			zap.Int("fields", len(recs)),
			zap.Int("errors", run.Errors.Len()))

		return report(run)
	},
}

func init() {
	flattenCmd.Flags().StringVarP(&flattenOutput, "output", "o", "", "output CSV file (default stdout)")
}
