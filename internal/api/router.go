// Package api is the JSON-over-HTTP surface consuming the core services.
//
// It translates plain requests into service calls and sentinel errors
// into status codes; no business rule lives here.
package api

import (
	"net/http"

	"github.com/gameswap/gameswap/internal/auth"
	"github.com/gameswap/gameswap/internal/metrics"
	"github.com/gameswap/gameswap/internal/middleware"
	"github.com/gameswap/gameswap/internal/service"
)

// Dependencies wires the router to the core.
type Dependencies struct {
	JWT     *auth.JWTManager
	Guard   *auth.AdminGuard
	Catalog *service.CatalogService
	Swaps   *service.SwapService
	Ratings *service.RatingService
	Admin   *service.AdminService
}

// NewRouter builds the HTTP handler tree.
func NewRouter(dep Dependencies) http.Handler {
	h := &handlers{dep: dep}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Public
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("GET /api/users/{id}", h.profile)
	mux.HandleFunc("GET /api/users/{id}/feedback", h.userFeedback)

	// Authenticated
	authed := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(dep.JWT, fn)
	}
	mux.Handle("POST /api/items", authed(h.listItem))
	mux.Handle("GET /api/items/mine", authed(h.myItems))
	mux.Handle("DELETE /api/items/{id}", authed(h.removeItem))
	mux.Handle("GET /api/search", authed(h.search))
	mux.Handle("GET /api/traders", authed(h.findTraders))
	mux.Handle("GET /api/catalog", authed(h.browseCatalog))
	mux.Handle("GET /api/catalog/platforms", authed(h.platforms))
	mux.Handle("GET /api/catalog/cities", authed(h.cities))
	mux.Handle("POST /api/swaps", authed(h.proposeSwap))
	mux.Handle("GET /api/swaps/incoming", authed(h.incomingSwaps))
	mux.Handle("GET /api/swaps/{id}", authed(h.getSwap))
	mux.Handle("POST /api/swaps/{id}/decision", authed(h.decideSwap))
	mux.Handle("POST /api/feedback", authed(h.recordFeedback))
	mux.Handle("POST /api/feedback/{id}/photos", authed(h.attachPhoto))

	// Operator
	admin := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(dep.Guard, fn)
	}
	mux.Handle("GET /api/admin/users", admin(h.adminListUsers))
	mux.Handle("POST /api/admin/users/{ref}/ban", admin(h.adminBan))
	mux.Handle("POST /api/admin/users/{ref}/unban", admin(h.adminUnban))
	mux.Handle("GET /api/admin/users/{ref}/items", admin(h.adminUserItems))
	mux.Handle("DELETE /api/admin/items/{id}", admin(h.adminRemoveItem))
	mux.Handle("GET /api/admin/swaps", admin(h.adminListSwaps))
	mux.Handle("GET /api/admin/stats", admin(h.adminStats))

	return middleware.RequestID(middleware.Logging(middleware.CORS(mux)))
}
