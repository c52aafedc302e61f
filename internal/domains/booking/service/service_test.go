package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tms/config"
	"tms/infras/otel/mocks"
	"tms/internal/dispatch"
	dispatchMocks "tms/internal/dispatch/mocks"
	bookingMocks "tms/internal/domains/booking/mocks"
	"tms/internal/domains/booking/model"
	"tms/internal/domains/booking/model/dto"
	"tms/internal/domains/booking/service"
	guideMocks "tms/internal/domains/guide/mocks"
	cacheMocks "tms/shared/cache/mocks"
	"tms/shared/constant"
	gDto "tms/shared/dto"
	"tms/shared/failure"
	gModel "tms/shared/model"
	"tms/shared/timezone"
)

type serviceFixture struct {
	repo  *bookingMocks.MockBooking
	guide *guideMocks.MockGuide
	relay *dispatchMocks.MockPublisher
	cache *cacheMocks.MockRedisCache
	svc   service.Booking
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &serviceFixture{
		repo:  bookingMocks.NewMockBooking(ctrl),
		guide: guideMocks.NewMockGuide(ctrl),
		relay: dispatchMocks.NewMockPublisher(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.guide, f.relay, cfg, f.cache, mocks.NewOtel())

	// Cache writes and invalidations happen on detached goroutines; they are
	// not what these tests assert on.
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	t.Cleanup(func() {
		time.Sleep(20 * time.Millisecond)
	})

	return f
}

func (f *serviceFixture) expectCacheMiss() {
	f.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))
}

func pendingBooking(id string) model.Booking {
	checkIn, _ := timezone.Parse(constant.DateOnlyFormat, "2026-09-10")
	checkOut, _ := timezone.Parse(constant.DateOnlyFormat, "2026-09-12")

	return model.Booking{
		ID:           id,
		TourID:       "tour-1",
		TouristID:    "tourist-1",
		Headcount:    2,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		BookedAt:     timezone.Now(),
		Status:       constant.BookingStatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "system",
			ModifiedBy: "system",
		},
	}
}

func candidateRow(booking model.Booking, guideID, fullName string) model.Candidate {
	row := model.Candidate{Booking: booking}

	if guideID != "" {
		from, _ := timezone.Parse(constant.DateOnlyFormat, "2026-09-01")
		to, _ := timezone.Parse(constant.DateOnlyFormat, "2026-09-30")
		languages := "en,id"

		row.CandidateID = &guideID
		row.CandidateFullName = &fullName
		row.CandidateLanguages = &languages
		row.CandidateAvailableFrom = &from
		row.CandidateAvailableTo = &to
	}

	return row
}

func TestBookingService_ListPending(t *testing.T) {
	t.Run("groups candidates per booking preserving store order", func(t *testing.T) {
		f := newFixture(t)
		f.expectCacheMiss()

		first := pendingBooking("B1")
		second := pendingBooking("B2")

		rows := []model.Candidate{
			candidateRow(first, "G7", "Guide Seven"),
			candidateRow(first, "G9", "Guide Nine"),
			candidateRow(second, "", ""),
		}

		f.repo.EXPECT().
			ListPendingCandidates(gomock.Any(), gomock.Any()).
			Return(rows, nil)

		res, err := f.svc.ListPending(context.Background(), gDto.DateRange{})

		require.NoError(t, err)
		require.Len(t, res.Groups, 2)
		assert.Equal(t, 2, res.TotalBookings)

		assert.Equal(t, "B1", res.Groups[0].Booking.ID)
		require.Len(t, res.Groups[0].Candidates, 2)
		assert.Equal(t, "G7", res.Groups[0].Candidates[0].ID)
		assert.Equal(t, "G9", res.Groups[0].Candidates[1].ID)

		assert.Equal(t, "B2", res.Groups[1].Booking.ID)
		assert.Empty(t, res.Groups[1].Candidates)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := f.svc.ListPending(context.Background(), gDto.DateRange{})

		assert.NoError(t, err)
	})

	t.Run("store failure maps to service unavailable", func(t *testing.T) {
		f := newFixture(t)
		f.expectCacheMiss()

		f.repo.EXPECT().
			ListPendingCandidates(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))

		_, err := f.svc.ListPending(context.Background(), gDto.DateRange{})

		require.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
	})
}

func TestBookingService_Assign(t *testing.T) {
	req := dto.AssignBookingRequest{GuideID: "G7"}

	t.Run("pending booking is assigned and exactly one event published", func(t *testing.T) {
		f := newFixture(t)

		f.guide.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.repo.EXPECT().
			UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) {
				// The pending expectation binds under its own name; no written
				// column may shadow a filter argument.
				_, args := filter.GetWhereClause()
				assert.Equal(t, constant.BookingStatusPending, args["expected_status"])

				for col := range fields {
					assert.NotContains(t, args, col)
				}
			}).
			Return(int64(1), nil)

		assigned := pendingBooking("B1")
		assigned.Status = constant.BookingStatusAssigned
		guideID := "G7"
		assigned.GuideID = &guideID

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assigned, nil)

		f.relay.EXPECT().
			Publish(gomock.Any()).
			Do(func(event dispatch.Event) {
				assert.Equal(t, dispatch.EventTypeNewRequest, event.Type)
				assert.Equal(t, "B1", event.BookingID)
				assert.Equal(t, "G7", event.GuideID)
				assert.Equal(t, "tour-1", event.TourDetails.TourID)
			}).
			Times(1)

		res, err := f.svc.Assign(context.Background(), "B1", req)

		require.NoError(t, err)
		assert.Equal(t, constant.BookingStatusAssigned, res.Status)
		require.NotNil(t, res.GuideID)
		assert.Equal(t, "G7", *res.GuideID)
	})

	t.Run("unknown guide is not found", func(t *testing.T) {
		f := newFixture(t)

		f.guide.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		_, err := f.svc.Assign(context.Background(), "B1", req)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("lost race returns conflict and leaves state to the winner", func(t *testing.T) {
		f := newFixture(t)

		f.guide.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.repo.EXPECT().
			UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		_, err := f.svc.Assign(context.Background(), "B1", dto.AssignBookingRequest{GuideID: "G7"})

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("unknown booking is not found", func(t *testing.T) {
		f := newFixture(t)

		f.guide.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.repo.EXPECT().
			UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		_, err := f.svc.Assign(context.Background(), "B404", req)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("persistence failure publishes nothing", func(t *testing.T) {
		f := newFixture(t)

		f.guide.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		f.repo.EXPECT().
			UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), errors.New("write timeout"))

		// No Publish expectation: any call fails the test.
		_, err := f.svc.Assign(context.Background(), "B1", req)

		require.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
	})
}

func TestBookingService_Finalize(t *testing.T) {
	t.Run("assigned booking becomes finalized", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, constant.BookingStatusAssigned, args["expected_status"])

				for col := range fields {
					assert.NotContains(t, args, col)
				}
			}).
			Return(int64(1), nil)

		finalized := pendingBooking("B1")
		finalized.Status = constant.BookingStatusFinalized

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(finalized, nil)

		res, err := f.svc.Finalize(context.Background(), "B1")

		require.NoError(t, err)
		assert.Equal(t, constant.BookingStatusFinalized, res.Status)
	})

	t.Run("booking not in assigned state conflicts", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		_, err := f.svc.Finalize(context.Background(), "B1")

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestBookingService_Update(t *testing.T) {
	t.Run("empty patch is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(context.Background(), dto.UpdateBookingRequest{}, "B1")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown status value is unprocessable", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(context.Background(), dto.UpdateBookingRequest{Status: "cancelled"}, "B1")

		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("patch on a finalized booking conflicts", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		_, err := f.svc.Update(context.Background(), dto.UpdateBookingRequest{Headcount: 4}, "B1")

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("patching status to assigned cannot promote a pending booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, _ map[string]any, filter gDto.FilterGroup) {
				// Only rows already assigned may match; a pending row must not.
				_, args := filter.GetWhereClause()
				assert.Equal(t, constant.BookingStatusAssigned, args["status_0"])
				assert.NotContains(t, args, "status_1")
			}).
			Return(int64(0), nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		_, err := f.svc.Update(context.Background(), dto.UpdateBookingRequest{Status: constant.BookingStatusAssigned}, "B1")

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("patching status to finalized conflicts without touching the store", func(t *testing.T) {
		f := newFixture(t)

		// No repository expectations: the patch is refused before any write.
		_, err := f.svc.Update(context.Background(), dto.UpdateBookingRequest{Status: constant.BookingStatusFinalized}, "B1")

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("reverting assigned to pending is not a defined transition", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), nil)

		f.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		_, err := f.svc.Update(context.Background(), dto.UpdateBookingRequest{Status: constant.BookingStatusPending}, "B1")

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("headcount and date patch succeeds on a pending booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) {
				assert.Equal(t, 4, fields[model.FieldHeadcount])
				assert.Contains(t, fields, model.FieldCheckOutDate)
				assert.Contains(t, fields, constant.FieldModifiedAt)
			}).
			Return(int64(1), nil)

		updated := pendingBooking("B1")
		updated.Headcount = 4

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(updated, nil)

		res, err := f.svc.Update(context.Background(), dto.UpdateBookingRequest{
			Headcount:    4,
			CheckOutDate: "2026-09-13",
		}, "B1")

		require.NoError(t, err)
		assert.Equal(t, 4, res.Headcount)
	})
}
