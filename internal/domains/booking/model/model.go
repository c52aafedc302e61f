package model

import (
	"time"
	guideModel "tms/internal/domains/guide/model"
	"tms/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldTourID       = "tour_id"
	FieldTouristID    = "tourist_id"
	FieldHeadcount    = "headcount"
	FieldCheckInDate  = "check_in_date"
	FieldCheckOutDate = "check_out_date"
	FieldBookedAt     = "booked_at"
	FieldStatus       = "status"
	FieldGuideID      = "guide_id"
	FieldTotalAmount  = "total_amount"
)

// Booking is the durable record this core transitions through
// pending -> assigned -> finalized. Rows are created by the booking-intake
// flow and are never deleted, only transitioned.
type Booking struct {
	ID           string    `db:"id"`
	TourID       string    `db:"tour_id"`
	TouristID    string    `db:"tourist_id"`
	Headcount    int       `db:"headcount"`
	CheckInDate  time.Time `db:"check_in_date"`
	CheckOutDate time.Time `db:"check_out_date"`
	BookedAt     time.Time `db:"booked_at"`
	Status       string    `db:"status"`
	GuideID      *string   `db:"guide_id"`
	TotalAmount  *float64  `db:"total_amount"`
	model.Metadata
}

// Candidate is one row of the pending-list query: a booking joined with a
// guide whose availability interval intersects the booking's stay. The join
// is a LEFT JOIN so a booking without any available guide still produces a
// row, with the guide columns NULL.
type Candidate struct {
	Booking
	CandidateID            *string    `db:"candidate_id"             column:"id"             table:"guides"`
	CandidateFullName      *string    `db:"candidate_full_name"      column:"full_name"      table:"guides"`
	CandidateLanguages     *string    `db:"candidate_languages"      column:"languages"      table:"guides"`
	CandidateAvailableFrom *time.Time `db:"candidate_available_from" column:"available_from" table:"guides"`
	CandidateAvailableTo   *time.Time `db:"candidate_available_to"   column:"available_to"   table:"guides"`
}

// GetJoinQuery wires the availability join used by the pending-list query.
func (Candidate) GetJoinQuery() string {
	return "LEFT JOIN " + guideModel.TableName +
		" ON " + guideModel.TableName + "." + guideModel.FieldAvailableFrom + " <= " + TableName + "." + FieldCheckOutDate +
		" AND " + guideModel.TableName + "." + guideModel.FieldAvailableTo + " >= " + TableName + "." + FieldCheckInDate
}
