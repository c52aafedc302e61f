package dispatch

import (
	"time"
)

const EventTypeNewRequest = "new-request"

// TourDetails is the slice of the booking a guide needs to act on an offer.
type TourDetails struct {
	TourID       string `json:"tourId"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Headcount    int    `json:"headcount"`
}

// Event is an assignment offer pushed to a guide's live connections. The
// field names are a wire contract consumed by the guide apps; they do not
// follow the service's snake_case convention and must not be renamed.
type Event struct {
	Type        string      `json:"type"`
	BookingID   string      `json:"bookingId"`
	GuideID     string      `json:"guideId"`
	TourDetails TourDetails `json:"tourDetails"`
	IssuedAt    time.Time   `json:"issuedAt"`
}

// NewRequestEvent builds the offer event published when a booking is assigned.
func NewRequestEvent(bookingID, guideID string, details TourDetails, issuedAt time.Time) Event {
	return Event{
		Type:        EventTypeNewRequest,
		BookingID:   bookingID,
		GuideID:     guideID,
		TourDetails: details,
		IssuedAt:    issuedAt,
	}
}
