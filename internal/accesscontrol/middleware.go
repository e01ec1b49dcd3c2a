package accesscontrol

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/publica-project/publica/internal"
)

// TableProvider is what the guard needs from the Rebuilder.
type TableProvider interface {
	Current() *Table
}

// Guard is the access decision middleware. It assumes an upstream identity
// middleware has already verified any bearer token and stored the caller in
// the request context.
type Guard struct {
	tables TableProvider
	logger *slog.Logger
}

func NewGuard(tables TableProvider, logger *slog.Logger) *Guard {
	return &Guard{tables: tables, logger: logger}
}

// Require gates a route on the permission table entry for (resource, action).
// Routes wired through Require are never allow-by-default: a missing entry
// denies every caller. Login, registration and similar routes stay outside
// the guard entirely.
func (g *Guard) Require(resource string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			table := g.tables.Current()
			if table == nil {
				// fail closed before the first successful rebuild
				g.logger.Error("access denied: no permission table available",
					"resource", resource, "action", action)
				writeMessage(w, http.StatusUnauthorized, "Unauthorized.")
				return
			}

			identity, ok := internal.IdentityFromContext(r.Context())
			if !ok || identity == nil {
				if table.AllowsAnonymous(resource, action) {
					next.ServeHTTP(w, r)
					return
				}
				writeMessage(w, http.StatusForbidden, "Failed to authenticate token.")
				return
			}

			if !table.Allowed(resource, action, identity.RoleID) {
				g.logger.Warn("access denied: role not permitted",
					"resource", resource,
					"action", action,
					"user_id", identity.UserID,
					"role_id", identity.RoleID)
				writeMessage(w, http.StatusUnauthorized, "Unauthorized.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
