package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gqlforge/gqlforge/internal/graphql"
	"github.com/gqlforge/gqlforge/internal/schema"
	"github.com/spf13/cobra"
)

var (
	introspectOutput  string
	introspectHeaders []string
)

var introspectCmd = &cobra.Command{
	Use:   "introspect <url>",
	Short: "Fetch the introspection schema of a GraphQL endpoint",
	Long: `Run the standard introspection query against a GraphQL endpoint
and write the result as indented JSON in query-envelope form, the shape
the other commands read.

Examples:
  gqlforge introspect https://api.example.com/graphql
  gqlforge introspect https://api.example.com/graphql -o schema.json
  gqlforge introspect https://api.example.com/graphql -H "Authorization: Bearer TOKEN"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := args[0]

		headers, err := parseHeaders(introspectHeaders)
		if err != nil {
			return err
		}

		log.Info("Introspecting endpoint", "url", endpoint)
		client := graphql.NewClient()
		raw, doc, err := schema.Introspect(context.Background(), client, endpoint, headers)
		if err != nil {
			return err
		}

		if introspectOutput == "" {
			if _, err := os.Stdout.Write(raw); err != nil {
				return err
			}
			fmt.Println()
			return nil
		}

		if err := os.WriteFile(introspectOutput, raw, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info("Schema written", "path", introspectOutput, "types", doc.Len())
		return nil
	},
}

// parseHeaders turns repeated "Name: value" flags into a header map.
func parseHeaders(pairs []string) (map[string]string, error) {
	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", pair)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

func init() {
	introspectCmd.Flags().StringVarP(&introspectOutput, "output", "o", "", "Output file path (default stdout)")
	introspectCmd.Flags().StringArrayVarP(&introspectHeaders, "header", "H", nil, "Request header, as \"Name: value\" (repeatable)")

	rootCmd.AddCommand(introspectCmd)
}
