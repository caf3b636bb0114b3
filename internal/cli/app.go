package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/service"
	"github.com/99minutos/storefront/internal/infrastructure/queue"
	"github.com/99minutos/storefront/internal/infrastructure/restapi"
	"github.com/99minutos/storefront/internal/infrastructure/storage"
	"github.com/99minutos/storefront/internal/pkg/config"
	"github.com/99minutos/storefront/pkg/logger"
)

// errReported is returned after a store already surfaced the failure as a
// notice, so main only sets the exit code.
var errReported = errors.New("command failed")

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool { return errors.Is(err, errReported) }

// sessionTokens feeds the REST client from the session store, which is
// built after the client.
type sessionTokens struct {
	session *service.SessionStore
}

func (t *sessionTokens) Token() string {
	if t.session == nil {
		return ""
	}
	return t.session.Token()
}

// App holds the wiring for one command invocation.
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	hasLog  bool
	printer *Printer

	backend  *storage.Backend
	client   *restapi.Client
	stop     context.CancelFunc
	session  *service.SessionStore
	cart     *service.CartStore
	catalog  *service.CatalogReader
	orders   *service.OrderService
	products *service.ProductAdmin
	wishlist *service.WishlistStore
	account  *service.AccountService
	stats    *service.StatisticsService
}

// Option customises the App before flags are applied.
type Option func(*App)

// WithConfig skips loading configuration from the environment.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) { a.cfg = cfg }
}

// WithLogger replaces the process logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *App) {
		a.log = log
		a.hasLog = true
	}
}

type globalFlags struct {
	apiURL   string
	backend  string
	path     string
	logLevel string
	color    string
}

// setup loads configuration, applies flag overrides and builds the logger
// and printer. It runs before every command.
func (a *App) setup(cmd *cobra.Command, flags *globalFlags) error {
	if a.cfg == nil {
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if flags.apiURL != "" {
		a.cfg.APIURL = flags.apiURL
	}
	if flags.backend != "" {
		a.cfg.Storage.Backend = flags.backend
	}
	if flags.path != "" {
		a.cfg.Storage.Path = flags.path
	}
	if flags.logLevel != "" {
		a.cfg.LogLevel = flags.logLevel
	}

	if _, err := logger.ParseLevel(a.cfg.LogLevel); err != nil {
		return err
	}
	if !a.hasLog {
		logger.Init(logger.Options{
			Level:  a.cfg.LogLevel,
			Pretty: true,
			Output: cmd.ErrOrStderr(),
			App:    "shopctl",
		})
		a.log = logger.Get()
	}

	useColors, err := resolveColors(flags.color)
	if err != nil {
		return err
	}
	a.printer = NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), useColors)
	return nil
}

// component derives a child logger for one subsystem. An injected logger
// takes precedence over the process singleton.
func (a *App) component(name string) zerolog.Logger {
	if !a.hasLog {
		return logger.For(name)
	}
	return a.log.With().Str("component", name).Logger()
}

// connect opens session storage, restores the session and builds the
// stores on top of the REST client.
func (a *App) connect(ctx context.Context) error {
	backend, err := storage.Open(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("open %s session storage: %w", a.cfg.Storage.Backend, err)
	}
	a.backend = backend

	tokens := &sessionTokens{}
	a.client = restapi.New(a.cfg.APIURL, tokens, a.component("restapi"), restapi.WithTimeout(a.cfg.Timeout))
	a.session = service.NewSessionStore(a.client, backend, a.component("session"))
	tokens.session = a.session
	a.session.Restore(ctx)

	serialCtx, stop := context.WithCancel(ctx)
	a.stop = stop
	serial := queue.NewSerializer(1, a.component("queue"))
	serial.Start(serialCtx)

	a.cart = service.NewCartStore(a.client, serial, a.printer, a.component("cart"))
	a.catalog = service.NewCatalogReader(a.client, a.component("catalog"))
	a.orders = service.NewOrderService(a.client, a.cart, a.printer, a.component("orders"))
	a.products = service.NewProductAdmin(a.client, a.printer, a.component("products"))
	a.wishlist = service.NewWishlistStore(a.client, a.session, a.printer, a.component("wishlist"))
	a.account = service.NewAccountService(a.client, a.session, a.printer, a.component("account"))
	a.stats = service.NewStatisticsService(a.client, a.client)
	return nil
}

func (a *App) close() {
	if a.cart != nil {
		a.cart.Close()
	}
	if a.wishlist != nil {
		a.wishlist.Close()
	}
	if a.stop != nil {
		a.stop()
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close session storage")
		}
	}
}

type runFunc func(ctx context.Context, cmd *cobra.Command, args []string) error

// online wraps a command that talks to the API.
func (a *App) online(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := a.connect(ctx); err != nil {
			return err
		}
		defer a.close()
		return fn(ctx, cmd, args)
	}
}

// withCart is online with the cart store following the session.
func (a *App) withCart(fn runFunc) func(*cobra.Command, []string) error {
	return a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		a.cart.Bind(ctx, a.session)
		return fn(ctx, cmd, args)
	})
}

// signedIn fails unless a session was restored.
func (a *App) signedIn() error {
	if a.session.Identity() == nil {
		a.printer.Error("You are not signed in. Run 'shopctl login' first.")
		return errReported
	}
	return nil
}

// report prints err as a notice and returns errReported.
func (a *App) report(err error, fallback string) error {
	var apiErr *restapi.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.ServerMessage() != "":
		a.printer.Error("%s", apiErr.ServerMessage())
	case errors.Is(err, domain.ErrNotAuthenticated):
		a.printer.Error("You are not signed in. Run 'shopctl login' first.")
	case errors.Is(err, domain.ErrForbidden):
		a.printer.Error("Access denied.")
	default:
		a.log.Debug().Err(err).Msg(fallback)
		a.printer.Error("%s", fallback)
	}
	return errReported
}

// admin gates admin-only commands through the route guard.
func (a *App) admin(fn runFunc) func(*cobra.Command, []string) error {
	return a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		d := service.AdmitAdmin(a.session.Identity())
		switch d.Outcome {
		case service.RedirectSignIn:
			a.printer.Error("Admin access requires signing in. Run 'shopctl login' first.")
			return errReported
		case service.RedirectHome:
			a.printer.Error("Access denied: administrator role required.")
			return errReported
		}
		return fn(ctx, cmd, args)
	})
}
