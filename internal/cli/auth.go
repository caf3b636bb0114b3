package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/99minutos/storefront/internal/core/domain"
)

func newLoginCommand(a *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			res := a.session.Login(ctx, email, password)
			if !res.Success {
				a.printer.Error("%s", res.Message)
				return errReported
			}
			id := a.session.Identity()
			a.printer.Success("Signed in as %s (%s)", id.Name, id.Email)
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCommand(a *App) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a customer account",
		Long: `Create a customer account. Registration does not sign you in;
run 'shopctl login' afterwards.`,
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			res := a.session.Register(ctx, name, email, password)
			if !res.Success {
				a.printer.Error("%s", res.Message)
				return errReported
			}
			a.printer.Success("%s", res.Message)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (at least 3 characters)")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (at least 6 characters)")
	return cmd
}

func newLogoutCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			a.session.Logout(ctx)
			a.printer.Success("Signed out")
			return nil
		}),
	}
}

func newWhoamiCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: a.online(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			id := a.session.Identity()
			if id == nil {
				a.printer.Info("Not signed in")
				return nil
			}
			a.printer.Print("%s <%s>", id.Name, id.Email)
			a.printer.Print("id:    %d", id.ID)
			a.printer.Print("roles: %s", roleList(id.Roles))
			return nil
		}),
	}
}

func roleList(roles []domain.Role) string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}
