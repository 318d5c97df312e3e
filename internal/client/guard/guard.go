// Package guard decides whether a protected destination may be entered for
// a given session snapshot. Guards are pure functions of the snapshot; the
// caller acts on the Decision (run the login flow, print a 403, or proceed).
package guard

import (
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/session"
)

type Outcome int

const (
	// Pending means the session is still hydrating; render nothing.
	Pending Outcome = iota
	Allow
	RedirectLogin
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Decision is the result of a guard. Next is the originally requested
// destination, carried along with RedirectLogin so the caller can resume it.
type Decision struct {
	Outcome Outcome
	Next    string
}

// RequiresSession admits any authenticated user. While loading it yields
// Pending no matter what the snapshot holds.
func RequiresSession(s session.State, dest string) Decision {
	if s.Loading {
		return Decision{Outcome: Pending}
	}
	if !s.IsAuthenticated() {
		return Decision{Outcome: RedirectLogin, Next: dest}
	}
	return Decision{Outcome: Allow}
}

// RequiresRole admits a user whose role is in allowed. It assumes
// RequiresSession already passed; an anonymous snapshot is Forbidden.
// An empty allowed list admits nobody.
func RequiresRole(s session.State, allowed ...models.Role) Decision {
	if s.Loading {
		return Decision{Outcome: Pending}
	}
	if s.User == nil {
		return Decision{Outcome: Forbidden}
	}
	for _, r := range allowed {
		if r.Valid() && s.User.Role == r {
			return Decision{Outcome: Allow}
		}
	}
	return Decision{Outcome: Forbidden}
}

// Check applies RequiresSession and then, when roles are given,
// RequiresRole. It is the composition used by protected routes.
func Check(s session.State, dest string, roles ...models.Role) Decision {
	d := RequiresSession(s, dest)
	if d.Outcome != Allow || len(roles) == 0 {
		return d
	}
	return RequiresRole(s, roles...)
}
