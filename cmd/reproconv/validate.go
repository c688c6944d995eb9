package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/reproforge/reproconv/convert/validate"
	"github.com/reproforge/reproconv/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <protocol_schema>",
	Short: "Validate a graph bundle against the schema shape",
	Long: `Validate loads a graph bundle and checks every structural and vocabulary
constraint: reference resolution, value types, choice uniqueness, identifier
shape and visibility references. Exits zero iff no violations are found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := schema.LoadBundle(args[0])
		if err != nil {
			return err
		}

		violations := validate.Validate(set)

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if violations == nil {
				violations = []validate.Violation{}
			}
			if err := enc.Encode(violations); err != nil {
				return err
			}
		} else {
			for _, v := range violations {
				fmt.Printf("%s %s\n", color.RedString(string(v.Kind)), v.Path+": "+v.Detail)
			}
			if len(violations) == 0 {
				fmt.Println(color.GreenString("valid"), "- no violations found")
			}
		}

		if len(violations) > 0 {
			return fmt.Errorf("%d violation(s) found", len(violations))
		}
		return nil
	},
}
