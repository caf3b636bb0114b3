// Package cli is the shopctl command tree. Each command builds the stores it
// needs, runs one operation and renders the result.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the full command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "shopctl",
		Short: "Storefront client",
		Long: `shopctl is a terminal client for the storefront REST API.

It keeps a signed-in session on disk (or in Redis/MongoDB), mirrors the
server cart and exposes the admin back-office to administrators.

Example usage:
  shopctl sandbox                     # Run a local API with seed data
  shopctl login --email admin@example.com --password admin123
  shopctl products list --sort price-asc
  shopctl cart add 1 --quantity 2
  shopctl checkout --full-name "Jane Doe" ...
  shopctl admin stats`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api-url", "", "API base URL (default from STOREFRONT_API_URL)")
	pf.StringVar(&flags.backend, "storage", "", "session storage backend: file, memory, redis, mongo")
	pf.StringVar(&flags.path, "storage-path", "", "session file for the file backend")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&flags.color, "color", ColorAuto, "color output: auto, always, never")

	root.AddCommand(
		newLoginCommand(app),
		newRegisterCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newProductsCommand(app),
		newCategoriesCommand(app),
		newCartCommand(app),
		newCheckoutCommand(app),
		newOrdersCommand(app),
		newWishlistCommand(app),
		newProfileCommand(app),
		newAddressesCommand(app),
		newAdminCommand(app),
		newSandboxCommand(app),
		newDoctorCommand(app),
	)
	return root
}
