package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tms/infras/otel"
	"tms/infras/postgres"
	"tms/internal/domains/guide/model"
	gDto "tms/shared/dto"
	gRepo "tms/shared/repository"
)

type Guide interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Guide, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	ListAvailable(ctx context.Context, window gDto.DateRange) ([]model.Guide, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Guide]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Guide {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Guide](model.EntityName, model.TableName, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ListAvailable returns guides whose availability interval intersects the
// window, in directory order. An open window returns the full directory.
func (repo *repositoryImpl) ListAvailable(ctx context.Context, window gDto.DateRange) ([]model.Guide, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  window.IntersectionFilters(model.FieldAvailableFrom, model.FieldAvailableTo, model.TableName),
	}

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldFullName,
		SortDir: gDto.SortDirAsc,
	}

	return repo.GetAll(ctx, params, filter)
}
