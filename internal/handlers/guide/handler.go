package guide

import (
	"net/http"
	"tms/infras/otel"
	"tms/internal/domains/guide/service"
	"tms/shared/constant"
	gDto "tms/shared/dto"
	"tms/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Guide
	otel    otel.Otel
}

func New(service service.Guide, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/guides", func(routerGroup chi.Router) {
		routerGroup.Get("/available", handler.GetAvailableGuides)
	})
}

// GetAvailableGuides lists guides available in a date window.
// @Summary List available guides
// @Description Retrieve guides whose availability interval intersects the requested window, in directory order.
// @Tags Guide
// @Accept json
// @Produce json
// @Param start query string false "Window start (YYYY-MM-DD)"
// @Param end query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetAvailableGuidesResponse] "Available guides"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/guides/available [get]
// @Security BearerAuth
func (handler *Handler) GetAvailableGuides(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableGuides")
	defer scope.End()

	window := gDto.DateRange{}
	if err := window.FromRequest(request); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid date range parameters")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.ListAvailable(ctx, window)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list available guides")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
