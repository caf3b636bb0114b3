package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/99minutos/storefront/internal/api"
	"github.com/99minutos/storefront/internal/sandbox"
)

func newSandboxCommand(a *App) *cobra.Command {
	var port string
	var noSeed bool
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run an in-memory storefront API for local use",
		Long: `Run an in-memory implementation of the storefront REST API.

State lives in memory and is lost on exit. Unless --no-seed is given the
sandbox starts with two categories, three products and an administrator
account taken from SANDBOX_ADMIN_EMAIL / SANDBOX_ADMIN_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := a.cfg.Sandbox
			if port != "" {
				sc.Port = port
			}
			log := a.component("sandbox")

			store := sandbox.NewStore()
			if sc.Seed && !noSeed {
				if err := sandbox.Seed(store, sc.AdminEmail, sc.AdminPassword); err != nil {
					return fmt.Errorf("seed sandbox: %w", err)
				}
				a.printer.Info("Seeded admin account %s", sc.AdminEmail)
			}

			e := api.NewRouter(store, sc.JWTSecret, log)
			a.printer.Success("Sandbox API listening on http://localhost:%s%s", sc.Port, api.BasePath)
			a.printer.Info("API docs at http://localhost:%s/swagger/index.html", sc.Port)
			return api.Serve(cmd.Context(), e, ":"+sc.Port, log)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default from SANDBOX_PORT)")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "start with an empty catalog and no accounts")
	return cmd
}
