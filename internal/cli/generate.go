package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gqlforge/gqlforge/internal/codegen"
	"github.com/gqlforge/gqlforge/internal/config"
	"github.com/gqlforge/gqlforge/internal/graphql"
	"github.com/gqlforge/gqlforge/internal/schema"
	"github.com/gqlforge/gqlforge/internal/sdl"
	"github.com/spf13/cobra"
)

var (
	generateSchemaName string
	generatePackage    string
	generateURL        string
	generateHeaders    []string
	generateConfig     string
)

var generateCmd = &cobra.Command{
	Use:   "generate [schema.json] [out.go]",
	Short: "Compile an introspection document to Go declarations",
	Long: `Compile a GraphQL introspection document into Go source
declarations for the gqlt schema runtime.

The input is the JSON result of the standard introspection query or an
SDL file (.graphql), read from a file, stdin ("-" or no argument), or
a live endpoint (--url). Output goes next to the input file, to the
named file, or to stdout when reading from stdin or an endpoint.

The schema name controls the generated schema variable and, lowered,
the package clause. It defaults to the output file name, then the
input file name.

Examples:
  gqlforge generate schema.json
  gqlforge generate schema.json swapi.go
  gqlforge generate schema.graphql
  gqlforge generate -u https://api.example.com/graphql example.go
  gqlforge generate -u https://api.example.com/graphql -H "Authorization: Bearer TOKEN"
  cat schema.json | gqlforge generate -s swapi > swapi.go`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(generateConfig)
		if err != nil {
			return err
		}

		var inPath, outPath string
		if len(args) > 0 {
			inPath = args[0]
		}
		if len(args) > 1 {
			outPath = args[1]
		}

		endpoint := generateURL
		if endpoint == "" && len(args) == 0 {
			endpoint = cfg.Endpoint.URL
		}
		if generateURL != "" && outPath == "" && inPath != "" {
			// With --url there is no input file; the only path argument
			// names the output.
			outPath, inPath = inPath, ""
		}

		headers, err := parseHeaders(generateHeaders)
		if err != nil {
			return err
		}
		for k, v := range cfg.Endpoint.Headers {
			if _, ok := headers[k]; !ok {
				headers[k] = v
			}
		}

		var doc *schema.Document
		var source string

		switch {
		case endpoint != "":
			log.Info("Introspecting endpoint", "url", endpoint)
			client := graphql.NewClient()
			_, doc, err = schema.Introspect(context.Background(), client, endpoint, headers)
			if err != nil {
				return err
			}
			source = endpoint

		case codegen.IsStd(inPath):
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			doc, err = readSchema("", data)
			if err != nil {
				return err
			}

		default:
			data, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("failed to open input file: %w", err)
			}
			doc, err = readSchema(inPath, data)
			if err != nil {
				return fmt.Errorf("%s: %w", inPath, err)
			}
			source = inPath
		}

		schemaName := generateSchemaName
		if schemaName == "" {
			schemaName = cfg.Generate.SchemaName
		}
		if schemaName == "" {
			schemaName = codegen.SchemaName(outPath, inPath)
		}

		pkgName := generatePackage
		if pkgName == "" {
			pkgName = cfg.Generate.Package
		}

		gen := codegen.New(codegen.Options{
			SchemaName:  schemaName,
			PackageName: pkgName,
			Source:      source,
		})
		out, err := gen.Generate(doc)
		if err != nil {
			return err
		}

		if outPath == "" && endpoint == "" {
			outPath = codegen.OutPath(schemaName, inPath)
		}
		if outPath == "" {
			_, err = os.Stdout.Write(out)
			return err
		}
		if err := os.WriteFile(outPath, out, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info("Generated Go declarations", "path", outPath, "types", doc.Len())
		return nil
	},
}

// loadConfig reads the explicit config path, or the optional
// .gqlforge.yml from the working directory.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault(".")
}

// readSchema loads introspection JSON or SDL text, dispatching on the
// file name and content shape.
func readSchema(path string, data []byte) (*schema.Document, error) {
	if sdl.IsSDL(path, data) {
		return sdl.Parse(data)
	}
	return schema.LoadBytes(data)
}

func init() {
	generateCmd.Flags().StringVarP(&generateSchemaName, "schema-name", "s", "", "Schema name for the generated declarations")
	generateCmd.Flags().StringVarP(&generatePackage, "package", "p", "", "Package clause of the generated file")
	generateCmd.Flags().StringVarP(&generateURL, "url", "u", "", "GraphQL endpoint to introspect instead of reading a file")
	generateCmd.Flags().StringArrayVarP(&generateHeaders, "header", "H", nil, "Request header for --url, as \"Name: value\" (repeatable)")
	generateCmd.Flags().StringVarP(&generateConfig, "config", "c", "", "Config file path (default .gqlforge.yml when present)")

	rootCmd.AddCommand(generateCmd)
}
