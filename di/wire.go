//go:build wireinject
// +build wireinject

package di

import (
	"tms/config"
	"tms/infras/jwt"
	"tms/infras/otel"
	"tms/infras/postgres"
	"tms/infras/redis"
	"tms/internal/dispatch"
	"tms/permissions"
	"tms/shared/cache"
	"tms/transport/http"
	"tms/transport/http/middleware"
	"tms/transport/http/router"

	bookingRepository "tms/internal/domains/booking/repository"
	bookingService "tms/internal/domains/booking/service"
	guideRepository "tms/internal/domains/guide/repository"
	guideService "tms/internal/domains/guide/service"

	bookingHandler "tms/internal/handlers/booking"
	dispatchHandler "tms/internal/handlers/dispatch"
	guideHandler "tms/internal/handlers/guide"
	healthHandler "tms/internal/handlers/health"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var dispatchRelay = wire.NewSet(
	dispatch.New,
	providePublisher,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var guideDomain = wire.NewSet(
	guideRepository.New,
	guideService.New,
)

var domains = wire.NewSet(
	bookingDomain,
	guideDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	guideHandler.New,
	dispatchHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		dispatchRelay,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
