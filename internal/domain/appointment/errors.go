package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrSlotUnavailable         = errors.New("requested time slot is no longer available")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrProviderUnassigned      = errors.New("appointment has no provider assigned")
	ErrInvalidDuration         = errors.New("appointment duration must be positive")
)
