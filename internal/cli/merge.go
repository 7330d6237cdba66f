package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gqlforge/gqlforge/internal/merger"
	"github.com/spf13/cobra"
)

var (
	mergeOutput string
	mergeName   string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <a.json> <b.json>...",
	Short: "Merge introspection documents into one schema",
	Long: `Merge the introspection documents of several services into a
single schema document.

Types and directives keep their first declaration; a later declaration
must match it exactly. Entry-point names must agree wherever two inputs
both declare them. All disagreements are reported together and the
merge produces nothing.

Examples:
  gqlforge merge users.json billing.json -o combined.json
  gqlforge merge services/*.json -n platform`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := make([][]byte, 0, len(args))
		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			inputs = append(inputs, content)
		}

		m := merger.New()
		result, err := m.Merge(inputs, &merger.Options{
			Name: mergeName,
		})
		if err != nil {
			return err
		}

		if mergeOutput == "" {
			if _, err := os.Stdout.Write(result.JSON); err != nil {
				return err
			}
			fmt.Println()
			return nil
		}

		if err := os.WriteFile(mergeOutput, result.JSON, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info("Merged schema written", "path", mergeOutput, "inputs", len(args), "types", result.Doc.Len())
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Output file path (default stdout)")
	mergeCmd.Flags().StringVarP(&mergeName, "name", "n", "", "Name for the merged schema")

	rootCmd.AddCommand(mergeCmd)
}
