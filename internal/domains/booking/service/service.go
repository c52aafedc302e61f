package service

import (
	"context"
	"fmt"
	"tms/config"
	"tms/infras/otel"
	"tms/internal/dispatch"
	"tms/internal/domains/booking/model"
	"tms/internal/domains/booking/model/dto"
	"tms/internal/domains/booking/repository"
	guideModel "tms/internal/domains/guide/model"
	guideRepo "tms/internal/domains/guide/repository"
	"tms/shared"
	"tms/shared/cache"
	"tms/shared/constant"
	gDto "tms/shared/dto"
	"tms/shared/failure"
	"tms/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cachePendingBookings = "booking:pending"
)

// Booking is the single entry point the HTTP layer talks to: lifecycle
// transitions plus the dispatch notification that rides on a successful
// assignment.
type Booking interface {
	ListPending(ctx context.Context, window gDto.DateRange) (dto.GetPendingBookingsResponse, error)
	Assign(ctx context.Context, id string, req dto.AssignBookingRequest) (dto.BookingResponse, error)
	Finalize(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	guideRepo guideRepo.Guide
	relay     dispatch.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Booking, guideRepo guideRepo.Guide, relay dispatch.Publisher, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:      repo,
		guideRepo: guideRepo,
		relay:     relay,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) ListPending(ctx context.Context, window gDto.DateRange) (res dto.GetPendingBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListPending")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := pendingCacheKey(window)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for pending bookings")

		return res, nil
	}

	rows, err := s.repo.ListPendingCandidates(ctx, window)
	if err != nil {
		log.Error().Err(err).Msg("failed to list pending bookings")

		return res, failure.ServiceUnavailable("booking store unavailable") // nolint:wrapcheck
	}

	res.FromCandidates(rows)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save pending bookings to cache")
		}
	}()

	return res, nil
}

// Assign moves a pending booking to assigned and offers it to the guide's
// live connections. The status check and the write are one compare-and-set,
// so of two concurrent assigns exactly one wins; the loser gets a conflict.
// The offer is published only after the write persisted, and a publish that
// reaches nobody never rolls the assignment back.
func (s *serviceImpl) Assign(ctx context.Context, id string, req dto.AssignBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	guideExists, err := s.guideRepo.Exist(ctx, shared.FilterByID(req.GuideID, guideModel.FieldID, guideModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if guide exists")

		return res, failure.ServiceUnavailable("guide directory unavailable") // nolint:wrapcheck
	}

	if !guideExists {
		return res, failure.NotFound("guide not found") // nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldStatus:        constant.BookingStatusAssigned,
		model.FieldGuideID:       req.GuideID,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	affected, err := s.repo.UpdateChecked(ctx, fields, filterByIDAndStatus(id, constant.BookingStatusPending))
	if err != nil {
		log.Error().Err(err).Msg("failed to assign booking")

		return res, failure.ServiceUnavailable("booking store unavailable") // nolint:wrapcheck
	}

	if affected == 0 {
		return res, s.explainLostUpdate(ctx, id, "booking is not pending")
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	s.relay.Publish(dispatch.NewRequestEvent(booking.ID, req.GuideID, dispatch.TourDetails{
		TourID:       booking.TourID,
		CheckInDate:  timezone.Format(booking.CheckInDate, constant.DateOnlyFormat),
		CheckOutDate: timezone.Format(booking.CheckOutDate, constant.DateOnlyFormat),
		Headcount:    booking.Headcount,
	}, timezone.Now()))

	s.invalidatePending(ctx)

	res.FromModel(booking)

	return res, nil
}

// Finalize is the terminal transition. Once finalized a booking accepts no
// further assigns, finalizes, or patches.
func (s *serviceImpl) Finalize(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Finalize")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	fields := map[string]any{
		model.FieldStatus:        constant.BookingStatusFinalized,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	affected, err := s.repo.UpdateChecked(ctx, fields, filterByIDAndStatus(id, constant.BookingStatusAssigned))
	if err != nil {
		log.Error().Err(err).Msg("failed to finalize booking")

		return res, failure.ServiceUnavailable("booking store unavailable") // nolint:wrapcheck
	}

	if affected == 0 {
		return res, s.explainLostUpdate(ctx, id, "booking is not assigned")
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	s.invalidatePending(ctx)

	res.FromModel(booking)

	return res, nil
}

// Update applies a field-level patch while the booking is still pending or
// assigned. A status patch never moves the booking between states; unless it
// restates the current status it conflicts instead of silently transitioning.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	if req.Status != constant.Empty && !isKnownStatus(req.Status) {
		return res, failure.UnprocessableEntity(fmt.Sprintf("unknown booking status: %s", req.Status)) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	fields := shared.TransformFields(req, user)

	if req.CheckInDate != constant.Empty {
		checkIn, parseErr := timezone.Parse(constant.DateOnlyFormat, req.CheckInDate)
		if parseErr != nil {
			return res, failure.BadRequestFromString("invalid check_in_date format") // nolint:wrapcheck
		}

		fields[model.FieldCheckInDate] = checkIn
	}

	if req.CheckOutDate != constant.Empty {
		checkOut, parseErr := timezone.Parse(constant.DateOnlyFormat, req.CheckOutDate)
		if parseErr != nil {
			return res, failure.BadRequestFromString("invalid check_out_date format") // nolint:wrapcheck
		}

		fields[model.FieldCheckOutDate] = checkOut
	}

	// Patches touch pending and assigned bookings. A status patch may only
	// restate the row's current status: moving it is the job of assign and
	// finalize, never of a patch.
	allowed := []string{constant.BookingStatusPending, constant.BookingStatusAssigned}

	if req.Status != constant.Empty {
		if req.Status == constant.BookingStatusFinalized {
			return res, failure.Conflict("booking status changes only through assign or finalize") // nolint:wrapcheck
		}

		allowed = []string{req.Status}
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    allowed,
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}

	affected, err := s.repo.UpdateChecked(ctx, fields, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return res, failure.ServiceUnavailable("booking store unavailable") // nolint:wrapcheck
	}

	if affected == 0 {
		return res, s.explainLostUpdate(ctx, id, "booking status does not permit this update")
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	s.invalidatePending(ctx)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) getBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, failure.ServiceUnavailable("booking store unavailable") // nolint:wrapcheck
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// explainLostUpdate turns a zero-row compare-and-set into the caller-facing
// error: the id never existed, or the status expectation no longer holds
// (either stale to begin with or lost to a concurrent transition).
func (s *serviceImpl) explainLostUpdate(ctx context.Context, id, conflictMessage string) error {
	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return failure.ServiceUnavailable("booking store unavailable") // nolint:wrapcheck
	}

	if !exist {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return failure.Conflict(conflictMessage) // nolint:wrapcheck
}

func (s *serviceImpl) invalidatePending(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cachePendingBookings)
	}()
}

func filterByIDAndStatus(id, status string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				// The patch also writes a status column; the expectation needs
				// its own arg name so the two never share a binding.
				ArgName:  "expected_" + model.FieldStatus,
				Field:    model.FieldStatus,
				Value:    status,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

func pendingCacheKey(window gDto.DateRange) string {
	start, end := constant.Empty, constant.Empty

	if window.Start != nil {
		start = timezone.Format(*window.Start, constant.DateOnlyFormat)
	}

	if window.End != nil {
		end = timezone.Format(*window.End, constant.DateOnlyFormat)
	}

	return shared.BuildCacheKey(cachePendingBookings, start, end)
}

func isKnownStatus(status string) bool {
	switch status {
	case constant.BookingStatusPending, constant.BookingStatusAssigned, constant.BookingStatusFinalized:
		return true
	default:
		return false
	}
}
