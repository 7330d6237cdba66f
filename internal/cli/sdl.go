package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gqlforge/gqlforge/internal/codegen"
	"github.com/gqlforge/gqlforge/internal/schema"
	"github.com/gqlforge/gqlforge/internal/sdl"
	"github.com/spf13/cobra"
)

var sdlOutput string

var sdlCmd = &cobra.Command{
	Use:   "sdl [schema.json]",
	Short: "Render an introspection document as GraphQL SDL",
	Long: `Render a GraphQL introspection document as schema definition
language text. Reads a file or stdin, writes to stdout or --output.

Built-in scalars and introspection meta types are left out, matching
what a schema-first project would have written by hand.

Examples:
  gqlforge sdl schema.json
  gqlforge sdl schema.json -o schema.graphql
  cat schema.json | gqlforge sdl`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var inPath string
		if len(args) > 0 {
			inPath = args[0]
		}

		var doc *schema.Document
		var err error
		if codegen.IsStd(inPath) {
			doc, err = schema.Load(os.Stdin)
			if err != nil {
				return err
			}
		} else {
			f, err := os.Open(inPath)
			if err != nil {
				return fmt.Errorf("failed to open input file: %w", err)
			}
			doc, err = schema.Load(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", inPath, err)
			}
		}

		out := sdl.FromDocument(doc)

		if sdlOutput == "" {
			fmt.Print(out)
			return nil
		}

		if err := os.WriteFile(sdlOutput, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info("SDL written", "path", sdlOutput, "types", doc.Len())
		return nil
	},
}

func init() {
	sdlCmd.Flags().StringVarP(&sdlOutput, "output", "o", "", "Output file path (default stdout)")

	rootCmd.AddCommand(sdlCmd)
}
