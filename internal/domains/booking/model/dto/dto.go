package dto

import (
	"tms/internal/domains/booking/model"
	"tms/shared/constant"
	gDto "tms/shared/dto"
	"tms/shared/timezone"
)

type AssignBookingRequest struct {
	GuideID string `json:"guide_id" validate:"required"`
}

// UpdateBookingRequest is a field-level patch. Only non-zero fields are
// applied. Status changes travel through the same patch but are checked
// against the known lifecycle values before anything is written.
type UpdateBookingRequest struct {
	Headcount    int    `db:"headcount" json:"headcount"  validate:"omitempty,gte=1"`
	CheckInDate  string `json:"check_in_date"             validate:"omitempty,datetime=2006-01-02"`
	CheckOutDate string `json:"check_out_date"            validate:"omitempty,datetime=2006-01-02"`
	Status       string `db:"status"    json:"status"     validate:"omitempty"`
}

type BookingResponse struct {
	ID           string   `json:"id"`
	TourID       string   `json:"tour_id"`
	TouristID    string   `json:"tourist_id"`
	Headcount    int      `json:"headcount"`
	CheckInDate  string   `json:"check_in_date"`
	CheckOutDate string   `json:"check_out_date"`
	BookedAt     string   `json:"booked_at"`
	Status       string   `json:"status"`
	GuideID      *string  `json:"guide_id,omitempty"`
	TotalAmount  *float64 `json:"total_amount,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.TourID = model.TourID
	r.TouristID = model.TouristID
	r.Headcount = model.Headcount
	r.CheckInDate = timezone.Format(model.CheckInDate, constant.DateOnlyFormat)
	r.CheckOutDate = timezone.Format(model.CheckOutDate, constant.DateOnlyFormat)
	r.BookedAt = timezone.Format(model.BookedAt, constant.DateFormat)
	r.Status = model.Status
	r.GuideID = model.GuideID
	r.TotalAmount = model.TotalAmount
	r.Metadata.FromModel(model.Metadata)
}

type GuideCandidateResponse struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	Languages     string `json:"languages"`
	AvailableFrom string `json:"available_from"`
	AvailableTo   string `json:"available_to"`
}

// BookingGroup pairs a pending booking with the guides available for its
// stay window. Candidates may be empty; that is a valid group, not an error.
type BookingGroup struct {
	Booking    BookingResponse          `json:"booking"`
	Candidates []GuideCandidateResponse `json:"candidates"`
}

type GetPendingBookingsResponse struct {
	Groups        []BookingGroup `json:"groups"`
	TotalBookings int            `json:"total_bookings"`
}

// FromCandidates partitions the flat join rows by booking id, preserving the
// order rows were returned in, both across bookings and within each group.
func (r *GetPendingBookingsResponse) FromCandidates(rows []model.Candidate) {
	r.Groups = []BookingGroup{}

	groupIndex := map[string]int{}

	for _, row := range rows {
		idx, seen := groupIndex[row.ID]
		if !seen {
			group := BookingGroup{Candidates: []GuideCandidateResponse{}}
			group.Booking.FromModel(row.Booking)

			r.Groups = append(r.Groups, group)
			idx = len(r.Groups) - 1
			groupIndex[row.ID] = idx
		}

		// A NULL candidate id is the LEFT JOIN telling us no guide is
		// available for this booking's window.
		if row.CandidateID == nil {
			continue
		}

		candidate := GuideCandidateResponse{
			ID: *row.CandidateID,
		}

		if row.CandidateFullName != nil {
			candidate.FullName = *row.CandidateFullName
		}

		if row.CandidateLanguages != nil {
			candidate.Languages = *row.CandidateLanguages
		}

		if row.CandidateAvailableFrom != nil {
			candidate.AvailableFrom = timezone.Format(*row.CandidateAvailableFrom, constant.DateOnlyFormat)
		}

		if row.CandidateAvailableTo != nil {
			candidate.AvailableTo = timezone.Format(*row.CandidateAvailableTo, constant.DateOnlyFormat)
		}

		r.Groups[idx].Candidates = append(r.Groups[idx].Candidates, candidate)
	}

	r.TotalBookings = len(r.Groups)
}
