package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gqlforge/gqlforge/internal/app"
	"github.com/gqlforge/gqlforge/internal/server"
	sshserver "github.com/gqlforge/gqlforge/internal/ssh"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveDBPath  string
	serveDebug   bool
	serveSSH     bool
	serveSSHPort int
	serveSSHKey  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the gqlforge web server with the UI and API endpoints.

Optionally starts an SSH server serving the terminal UI alongside.

Examples:
  gqlforge serve
  gqlforge serve --port 8080 --db ./schemas.db
  gqlforge serve --ssh --ssh-port 2222

Connect via SSH:
  ssh localhost -p 2222`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fileCfg, err := loadConfig("")
		if err != nil {
			return err
		}

		dbPath := serveDBPath
		if dbPath == "" {
			dbPath = fileCfg.Registry.DB
		}
		if dbPath == "" {
			dbPath = "./gqlforge.db"
		}

		cfg := &app.Config{
			Port:   servePort,
			DBPath: dbPath,
			Debug:  serveDebug,
		}

		application, err := app.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer application.Close()

		srv := server.New(application)

		// Handle graceful shutdown
		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

		// Start SSH server if enabled
		var sshSrv *sshserver.Server
		if serveSSH {
			sshSrv, err = sshserver.New(sshserver.Config{
				Port:     serveSSHPort,
				KeyPath:  serveSSHKey,
				Registry: application.RegistryService,
			})
			if err != nil {
				application.Logger.Warn("failed to initialize SSH server", "error", err)
			} else {
				go func() {
					if err := sshSrv.ListenAndServe(); err != nil {
						application.Logger.Error("SSH server error", "error", err)
					}
				}()
				fmt.Printf("SSH TUI available at ssh://localhost:%d\n", serveSSHPort)
			}
		}

		go func() {
			<-done
			application.Logger.Info("shutting down servers...")

			// Shutdown SSH server
			if sshSrv != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				sshSrv.Shutdown(ctx)
			}

			srv.Shutdown()
		}()

		application.Logger.Info("starting server", "port", cfg.Port)
		fmt.Printf("gqlforge web server running at http://localhost:%d\n", cfg.Port)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "HTTP port to listen on")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to the registry database (default ./gqlforge.db)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().BoolVar(&serveSSH, "ssh", false, "Also serve the TUI over SSH")
	serveCmd.Flags().IntVar(&serveSSHPort, "ssh-port", 2222, "SSH port for TUI access")
	serveCmd.Flags().StringVar(&serveSSHKey, "ssh-key", "", "SSH host key path (default ~/.ssh/gqlforge_ed25519)")

	rootCmd.AddCommand(serveCmd)
}
