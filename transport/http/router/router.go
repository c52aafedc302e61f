package router

import (
	"tms/internal/handlers/booking"
	"tms/internal/handlers/dispatch"
	"tms/internal/handlers/guide"
	"tms/internal/handlers/health"
	"tms/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Booking  booking.Handler
	Guide    guide.Handler
	Dispatch dispatch.Handler
	Health   health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	Auth           middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.App.Tracing)
	router.Use(r.App.CORS())
	router.Use(r.App.RateLimit())

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Health.Router(routerGroup)

		routerGroup.Group(func(protected chi.Router) {
			protected.Use(r.Auth.APIKey)
			protected.Use(r.Auth.Auth)
			protected.Use(r.Auth.RBAC)

			r.DomainHandlers.Booking.Router(protected)
			r.DomainHandlers.Guide.Router(protected)
			r.DomainHandlers.Dispatch.Router(protected)
		})
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, auth middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		Auth:           auth,
	}
}
