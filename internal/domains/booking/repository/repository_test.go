package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tms/infras/otel/mocks"
	"tms/infras/postgres"
	"tms/internal/domains/booking/model"
	"tms/internal/domains/booking/repository"
	"tms/shared/constant"
	gDto "tms/shared/dto"
)

func newMockedRepository(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func transitionFilter(id, expected string) gDto.FilterGroup {
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
				ArgName:  "expected_" + model.FieldStatus,
				Field:    model.FieldStatus,
				Value:    expected,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

// The transition update writes the status column and filters on it at the
// same time; the expected status must reach the database as its own binding,
// never shadowed by the value being written.
func TestBookingRepository_UpdateCheckedBindsExpectedStatusSeparately(t *testing.T) {
	repo, mock := newMockedRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1  WHERE (bookings.id = $2 AND bookings.status = $3)")).
		WithArgs(constant.BookingStatusAssigned, "B1", constant.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.UpdateChecked(
		context.Background(),
		map[string]any{model.FieldStatus: constant.BookingStatusAssigned},
		transitionFilter("B1", constant.BookingStatusPending),
	)

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_UpdateCheckedReportsZeroOnLostRace(t *testing.T) {
	repo, mock := newMockedRepository(t)

	mock.ExpectExec("UPDATE bookings SET").
		WithArgs(constant.BookingStatusFinalized, "B1", constant.BookingStatusAssigned).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.UpdateChecked(
		context.Background(),
		map[string]any{model.FieldStatus: constant.BookingStatusFinalized},
		transitionFilter("B1", constant.BookingStatusAssigned),
	)

	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_UpdateCheckedRejectsShadowedFilterArg(t *testing.T) {
	repo, mock := newMockedRepository(t)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    "B1",
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				// No ArgName: the filter binds under the column name and
				// collides with the written status value.
				Field:    model.FieldStatus,
				Value:    constant.BookingStatusPending,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	_, err := repo.UpdateChecked(
		context.Background(),
		map[string]any{model.FieldStatus: constant.BookingStatusAssigned},
		filter,
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "shadows a filter argument")
	assert.NoError(t, mock.ExpectationsWereMet(), "the statement must be refused before reaching the database")
}
