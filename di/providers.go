package di

import (
	"tms/internal/dispatch"
)

// providePublisher narrows the relay to the write-only interface the booking
// service depends on.
func providePublisher(relay dispatch.Relay) dispatch.Publisher {
	return relay
}
