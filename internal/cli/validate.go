package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gqlforge/gqlforge/internal/sdl"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <schema>...",
	Short: "Validate introspection documents and SDL files",
	Long: `Validate GraphQL schema documents, introspection JSON or SDL.

Checks performed:
  - The document matches one of the accepted introspection shapes, or
    parses as SDL
  - Every type entry is named and well formed
  - The declared type system is internally consistent: no undefined
    references, interface contracts satisfied, unions over object types

Examples:
  gqlforge validate schema.json
  gqlforge validate schema.graphql
  gqlforge validate services/*.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			if err := validateFile(path); err != nil {
				log.Error("Invalid schema", "path", path, "error", err)
				failed++
				continue
			}
			log.Info("Valid schema", "path", path)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d documents failed validation", failed, len(args))
		}
		return nil
	},
}

func validateFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc, err := readSchema(path, content)
	if err != nil {
		return err
	}

	return sdl.Validate(doc)
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
