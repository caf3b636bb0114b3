package service

import "github.com/99minutos/storefront/internal/core/domain"

// Outcome is the guard's verdict for an admin-only view.
type Outcome int

const (
	Admit Outcome = iota
	RedirectSignIn
	RedirectHome
)

func (o Outcome) String() string {
	switch o {
	case RedirectSignIn:
		return "redirect-sign-in"
	case RedirectHome:
		return "redirect-home"
	default:
		return "admit"
	}
}

// Paths the guard redirects to.
const (
	SignInPath = "/login"
	HomePath   = "/"
)

// Decision is the guard outcome plus the redirect target, if any.
type Decision struct {
	Outcome  Outcome
	Redirect string
}

func (d Decision) Admitted() bool { return d.Outcome == Admit }

// AdmitAdmin decides admission to admin-only views. Role shapes are
// normalised when the identity is decoded, so only one form is compared.
func AdmitAdmin(id *domain.Identity) Decision {
	switch {
	case id == nil:
		return Decision{Outcome: RedirectSignIn, Redirect: SignInPath}
	case !id.IsAdmin():
		return Decision{Outcome: RedirectHome, Redirect: HomePath}
	default:
		return Decision{Outcome: Admit}
	}
}
