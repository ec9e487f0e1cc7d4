package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shipdeck/shipdeck/internal/audit"
	"github.com/shipdeck/shipdeck/internal/auth"
	"github.com/shipdeck/shipdeck/internal/authz"
	"github.com/shipdeck/shipdeck/internal/dashboard"
	"github.com/shipdeck/shipdeck/internal/guard"
	"github.com/shipdeck/shipdeck/internal/masterdata/categories"
	"github.com/shipdeck/shipdeck/internal/masterdata/cities"
	"github.com/shipdeck/shipdeck/internal/masterdata/pincodes"
	"github.com/shipdeck/shipdeck/internal/masterdata/warehouses"
	"github.com/shipdeck/shipdeck/internal/menu"
	"github.com/shipdeck/shipdeck/internal/observability"
	"github.com/shipdeck/shipdeck/internal/orders"
	"github.com/shipdeck/shipdeck/internal/session"
	"github.com/shipdeck/shipdeck/internal/shared"
	"github.com/shipdeck/shipdeck/internal/staff"
	"github.com/shipdeck/shipdeck/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger       *slog.Logger
	Config       *Config
	SessionStore *session.Store
	CSRFManager  *shared.CSRFManager
	Guards       map[authz.Panel]guard.Guard

	AuthHandler       *auth.Handler
	MenuHandler       *menu.Handler
	DashboardHandler  *dashboard.Handler
	StaffHandler      *staff.Handler
	CategoriesHandler *categories.Handler
	CitiesHandler     *cities.Handler
	WarehousesHandler *warehouses.Handler
	PincodesHandler   *pincodes.Handler
	OrdersHandler     *orders.Handler
	AuditHandler      *audit.Handler
	JobHandler        *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Shipdeck defaults. Each
// panel gets a public auth group and a guarded group; the guarded
// group runs that panel's session checks before any handler.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:       params.Logger,
		Config:       params.Config,
		SessionStore: params.SessionStore,
		CSRFManager:  params.CSRFManager,
		Metrics:      params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	mountPanel := func(panel authz.Panel, protected func(chi.Router)) {
		r.Route("/"+string(panel), func(r chi.Router) {
			params.AuthHandler.MountRoutes(r, panel)
			r.Group(func(r chi.Router) {
				r.Use(params.Guards[panel].Protect)
				params.AuthHandler.MountSessionRoutes(r)
				params.MenuHandler.MountRoutes(r)
				params.DashboardHandler.MountRoutes(r)
				params.StaffHandler.MountRoutes(r, panel)
				protected(r)
			})
		})
	}

	mountPanel(authz.PanelAdmin, func(r chi.Router) {
		params.CategoriesHandler.MountRoutes(r)
		params.CitiesHandler.MountRoutes(r)
		params.WarehousesHandler.MountRoutes(r)
		params.PincodesHandler.MountRoutes(r)
		params.OrdersHandler.MountRoutes(r)
		if params.AuditHandler != nil {
			params.AuditHandler.MountRoutes(r)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})
	mountPanel(authz.PanelSupplier, func(r chi.Router) {
		params.WarehousesHandler.MountRoutes(r)
		params.PincodesHandler.MountRoutes(r)
		params.OrdersHandler.MountRoutes(r)
	})
	mountPanel(authz.PanelDropshipper, func(r chi.Router) {
		params.CategoriesHandler.MountRoutes(r)
	})

	return r
}
