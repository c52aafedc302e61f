package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tms/infras/otel"
	"tms/infras/postgres"
	"tms/internal/domains/booking/model"
	"tms/shared/constant"
	gDto "tms/shared/dto"
	gRepo "tms/shared/repository"
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	UpdateChecked(ctx context.Context, mod map[string]any, filter gDto.FilterGroup) (int64, error)
	ListPendingCandidates(ctx context.Context, window gDto.DateRange) ([]model.Candidate, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	candidates gRepo.Repository[model.Candidate]
	db         *postgres.Connection
	otel       otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, db, otel),
		candidates: gRepo.NewRepository[model.Candidate](model.EntityName+"_candidate", model.TableName, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ListPendingCandidates returns the flat join of pending bookings whose stay
// window intersects the requested window with the guides available for each.
// Bookings come back oldest first; the LEFT JOIN keeps bookings that matched
// no guide (NULL candidate columns).
func (repo *repositoryImpl) ListPendingCandidates(ctx context.Context, window gDto.DateRange) ([]model.Candidate, error) {
	filters := []any{
		gDto.Filter{
			ArgName:  model.TableName + "_" + model.FieldStatus,
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    constant.BookingStatusPending,
			Table:    model.TableName,
		},
	}
	filters = append(filters, window.IntersectionFilters(model.FieldCheckInDate, model.FieldCheckOutDate, model.TableName)...)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldBookedAt,
		SortDir: gDto.SortDirAsc,
	}

	return repo.candidates.GetAll(ctx, params, filter)
}
