package dto

import (
	"net/http"
	"time"
	"tms/shared/constant"
	"tms/shared/failure"
	"tms/shared/timezone"
)

// DateRange is an optional inclusive [start, end] window used to constrain
// interval-intersection queries. Both bounds are nil when the caller did not
// supply a window.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// FromRequest parses the start/end query parameters (YYYY-MM-DD).
func (d *DateRange) FromRequest(r *http.Request) error {
	queryParams := r.URL.Query()

	if start := queryParams.Get(constant.RequestParamStart); start != "" {
		parsed, err := timezone.Parse(constant.DateOnlyFormat, start)
		if err != nil {
			return failure.InvalidDateRangeParam
		}

		d.Start = &parsed
	}

	if end := queryParams.Get(constant.RequestParamEnd); end != "" {
		parsed, err := timezone.Parse(constant.DateOnlyFormat, end)
		if err != nil {
			return failure.InvalidDateRangeParam
		}

		d.End = &parsed
	}

	if d.Start != nil && d.End != nil && d.End.Before(*d.Start) {
		return failure.InvalidDateRangeParam
	}

	return nil
}

// IsZero reports whether no window was supplied.
func (d *DateRange) IsZero() bool {
	return d.Start == nil && d.End == nil
}

// IntersectionFilters returns filters matching rows whose [startField, endField]
// interval intersects this window. An open bound adds no filter.
func (d *DateRange) IntersectionFilters(startField, endField, table string) []any {
	filters := []any{}

	if d.End != nil {
		filters = append(filters, Filter{
			ArgName:  table + "_" + startField,
			Field:    startField,
			Operator: FilterOperatorLessEq,
			Value:    *d.End,
			Table:    table,
		})
	}

	if d.Start != nil {
		filters = append(filters, Filter{
			ArgName:  table + "_" + endField,
			Field:    endField,
			Operator: FilterOperatorGreaterEq,
			Value:    *d.Start,
			Table:    table,
		})
	}

	return filters
}
