package scheduling

import "errors"

// Booking and status-change rejections surfaced to callers. Handlers
// map these onto HTTP statuses.
var (
	ErrBadTimeFormat     = errors.New("appointment time must be HH:MM in 24-hour format")
	ErrPastDate          = errors.New("appointment date cannot be in the past")
	ErrUnavailableDay    = errors.New("doctor is not available on the requested day")
	ErrUnavailableTime   = errors.New("requested time is outside the doctor's working hours")
	ErrSlotTaken         = errors.New("doctor already has an appointment at this time")
	ErrInvalidTransition = errors.New("appointment status does not allow this change")

	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)
