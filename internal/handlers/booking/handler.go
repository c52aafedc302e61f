package booking

import (
	"net/http"
	"tms/infras/otel"
	"tms/internal/domains/booking/model/dto"
	"tms/internal/domains/booking/service"
	"tms/shared/constant"
	gDto "tms/shared/dto"
	"tms/shared/validator"
	"tms/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Get("/pending", handler.GetPendingBookings)
		routerGroup.Post("/{id}/assign", handler.AssignBooking)
		routerGroup.Patch("/{id}/finalize", handler.FinalizeBooking)
		routerGroup.Put("/{id}", handler.UpdateBooking)
	})
}

// GetPendingBookings lists pending bookings grouped with their candidate guides.
// @Summary List pending bookings with candidate guides
// @Description Retrieve pending bookings, optionally constrained to a date window, each grouped with the guides available for its stay.
// @Tags Booking
// @Accept json
// @Produce json
// @Param start query string false "Window start (YYYY-MM-DD)"
// @Param end query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetPendingBookingsResponse] "Grouped pending bookings"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/bookings/pending [get]
// @Security BearerAuth
func (handler *Handler) GetPendingBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPendingBookings")
	defer scope.End()

	window := gDto.DateRange{}
	if err := window.FromRequest(request); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid date range parameters")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.ListPending(ctx, window)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list pending bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// AssignBooking assigns a guide to a pending booking.
// @Summary Assign a guide to a booking
// @Description Move a pending booking to assigned and offer it to the guide's live connections. A booking that is no longer pending conflicts.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.AssignBookingRequest true "Assign Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/assign [post]
// @Security BearerAuth
func (handler *Handler) AssignBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignBooking")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.AssignBookingRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Assign(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to assign booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking " + id + " assigned to guide " + req.GuideID)

	response.WithJSON(writer, http.StatusOK, res)
}

// FinalizeBooking moves an assigned booking to its terminal state.
// @Summary Finalize a booking
// @Description Move an assigned booking to finalized. Finalized bookings accept no further transitions or patches.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/finalize [patch]
// @Security BearerAuth
func (handler *Handler) FinalizeBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".FinalizeBooking")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.Finalize(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to finalize booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateBooking applies a field-level patch to a booking.
// @Summary Update a booking
// @Description Patch headcount, stay dates or status while the booking is pending or assigned.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateBookingRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
