package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/florishenkelman/gdpr-tool/internal/api"
	"github.com/florishenkelman/gdpr-tool/internal/client"
	"github.com/florishenkelman/gdpr-tool/internal/config"
	"github.com/florishenkelman/gdpr-tool/internal/session"
	"github.com/florishenkelman/gdpr-tool/internal/ui"
)

var (
	serverURL  string
	jsonOutput bool
	noColorFlg bool

	cfg      *config.Config
	mgr      *session.Manager
	gateway  *api.Gateway
	services *client.Client
)

func defaultServer() string {
	if s := os.Getenv("GDPR_API_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080/api"
}

var rootCmd = &cobra.Command{
	Use:   "gdpr <command>",
	Short: "CLI client for the GDPR compliance service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColorFlg || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		path, err := session.DefaultCredentialPath()
		if err != nil {
			return fmt.Errorf("resolving credential path: %w", err)
		}
		mgr = session.NewManager(session.NewFileStore(path))
		gateway = api.New(serverURL, mgr)
		mgr.UseGateway(gateway)
		services = client.New(gateway)

		// Restore the persisted session once, before any command body. A
		// failed restore leaves the session signed out; protected commands
		// then fail with the server's error instead of a stale token loop.
		if err := mgr.Bootstrap(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: session restore failed: %v\n", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "API base URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColorFlg, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "auth", Title: "Session:"},
		&cobra.Group{ID: "tasks", Title: "Tasks:"},
		&cobra.Group{ID: "reference", Title: "Reference:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	cobra.EnableCommandSorting = false

	// Session
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(whoamiCmd)

	// Tasks
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(watchCmd)

	// Reference
	rootCmd.AddCommand(articleCmd)

	// System
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
