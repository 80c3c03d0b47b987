// Package routes holds the client-side navigation guard. Protected paths
// wait for the auth state to settle (bounded by a short grace period) before
// resolving to either the page or the unauthorized redirect.
package routes

import (
	"strings"
	"time"
)

const UnauthorizedPath = "/unauthorized"

type authState interface {
	IsAuthenticated() bool
	Settled() <-chan struct{}
}

type Decision struct {
	Allow      bool
	RedirectTo string
}

type Guard struct {
	session   authState
	grace     time.Duration
	protected []string
}

var defaultProtected = []string{
	"/profile",
	"/connections",
	"/feed",
	"/activity",
	"/resources",
	"/events",
	"/jobs",
	"/chat",
	"/dashboard",
}

func NewGuard(session authState, grace time.Duration) *Guard {
	return &Guard{
		session:   session,
		grace:     grace,
		protected: defaultProtected,
	}
}

func (g *Guard) Resolve(path string) Decision {
	if !g.isProtected(path) {
		return Decision{Allow: true}
	}

	// Give the auth state a moment to settle so a freshly restored session
	// is not bounced to the unauthorized page.
	select {
	case <-g.session.Settled():
	case <-time.After(g.grace):
	}

	if g.session.IsAuthenticated() {
		return Decision{Allow: true}
	}
	return Decision{Allow: false, RedirectTo: UnauthorizedPath}
}

func (g *Guard) isProtected(path string) bool {
	for _, prefix := range g.protected {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
