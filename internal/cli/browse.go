package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gqlforge/gqlforge/internal/registry"
	"github.com/gqlforge/gqlforge/internal/storage"
	"github.com/gqlforge/gqlforge/internal/tui"
	"github.com/spf13/cobra"
)

var browseDBPath string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the local schema registry in the terminal",
	Long: `Open the terminal UI on the local schema registry: list stored
schemas, view their type breakdown, and inspect individual types.

Examples:
  gqlforge browse
  gqlforge browse --db ./schemas.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig("")
		if err != nil {
			return err
		}

		dbPath := browseDBPath
		if dbPath == "" {
			dbPath = cfg.Registry.DB
		}
		if dbPath == "" {
			dbPath = "./gqlforge.db"
		}

		db, err := storage.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open registry: %w", err)
		}
		defer db.Close()

		service := registry.NewService(registry.NewRepository(db))

		program := tea.NewProgram(tui.NewModel(service), tea.WithAltScreen())
		_, err = program.Run()
		return err
	},
}

func init() {
	browseCmd.Flags().StringVar(&browseDBPath, "db", "", "Path to the registry database (default ./gqlforge.db)")

	rootCmd.AddCommand(browseCmd)
}
