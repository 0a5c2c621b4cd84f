// Package guard adapts the authorization predicates into Fiber middleware
// for the app shell that serves the role-scoped areas. Each protected route
// declares its required role (or any authenticated role); a denied request
// is redirected to the predicate's target instead of erroring.
package guard

import (
	"github.com/gofiber/fiber/v2"

	auth "github.com/tasinahammed01/RoznaComarker-Client"
)

// Config configures the route guard middleware.
type Config struct {
	// Guard evaluates the predicates. Required.
	Guard *auth.Guard

	// RequiredRole restricts the route to one role. Empty accepts any
	// authenticated role.
	RequiredRole auth.Role

	// Filter skips the guard when it returns true.
	Filter func(*fiber.Ctx) bool

	// RedirectStatus defaults to fiber.StatusFound.
	RedirectStatus int
}

// New builds the middleware from a config.
func New(cfg Config) fiber.Handler {
	if cfg.Guard == nil {
		panic("Missing Guard in guard middleware...")
	}

	status := cfg.RedirectStatus
	if status == 0 {
		status = fiber.StatusFound
	}

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		requested := c.OriginalURL()

		var decision auth.Decision
		if cfg.RequiredRole != "" {
			decision = cfg.Guard.HasRole(c.UserContext(), cfg.RequiredRole, requested)
		} else {
			decision = cfg.Guard.IsAuthenticated(c.UserContext(), requested)
		}

		if decision.Allowed {
			return c.Next()
		}

		return c.Redirect(decision.RedirectTo, status)
	}
}

// RequireAuth protects a route for any authenticated role.
func RequireAuth(g *auth.Guard) fiber.Handler {
	return New(Config{Guard: g})
}

// RequireRole protects a route for one role.
func RequireRole(g *auth.Guard, role auth.Role) fiber.Handler {
	return New(Config{Guard: g, RequiredRole: role})
}
