package web

import (
	"strings"

	"github.com/staffdesk/staffdesk/internal/identity"
)

// Decision is the outcome of evaluating a request path against the
// current identity state.
type Decision int

const (
	// DecisionAllow lets the request through.
	DecisionAllow Decision = iota

	// DecisionHold applies while the session restore is still in
	// flight: no redirect may be issued yet.
	DecisionHold

	// DecisionLogin redirects an unauthenticated request to the login
	// page.
	DecisionLogin

	// DecisionDashboard redirects an already authenticated request away
	// from the login page.
	DecisionDashboard

	// DecisionDenied rejects an authenticated request that lacks the
	// required role. Distinct from DecisionLogin on purpose: the caller
	// is known, just not allowed.
	DecisionDenied
)

// openPathPrefixes are reachable without a session.
var openPathPrefixes = []string{
	"/static",
	"/checkalive",
	"/metrics",
}

// Guard evaluates a single routing attempt. It is a pure function: the
// same identity, loading state and path always produce the same
// decision.
func Guard(id *identity.Identity, loading bool, path string) Decision {
	path = strings.ToLower(path)

	for _, prefix := range openPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return DecisionAllow
		}
	}

	if loading {
		return DecisionHold
	}

	authenticated := id != nil && id.ID != "" && id.Active
	loginPage := strings.HasPrefix(path, "/login")

	if !authenticated {
		if loginPage {
			return DecisionAllow
		}

		return DecisionLogin
	}

	if loginPage {
		return DecisionDashboard
	}

	if strings.HasPrefix(path, "/admin") && !id.Role.IsAdminLike() {
		return DecisionDenied
	}

	return DecisionAllow
}
