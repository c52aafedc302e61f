package health

import (
	"net/http"
	"tms/infras/postgres"
	"tms/transport/http/response"

	"github.com/go-chi/chi/v5"
	goRedis "github.com/redis/go-redis/v9"
)

type Handler struct {
	db    *postgres.Connection
	redis *goRedis.Client
}

func New(db *postgres.Connection, redis *goRedis.Client) Handler {
	return Handler{
		db:    db,
		redis: redis,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

// Health reports whether the service can reach its dependencies.
// @Summary Health check
// @Description Ping the booking store and the cache.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message "Service healthy"
// @Failure 503 {object} response.Message "Service unhealthy"
// @Router /v1/health [get]
func (handler *Handler) Health(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	if err := handler.db.Read.PingContext(ctx); err != nil {
		response.WithUnhealthy(writer)

		return
	}

	if err := handler.db.Write.PingContext(ctx); err != nil {
		response.WithUnhealthy(writer)

		return
	}

	if err := handler.redis.Ping(ctx).Err(); err != nil {
		response.WithUnhealthy(writer)

		return
	}

	response.WithMessage(writer, http.StatusOK, "OK")
}
