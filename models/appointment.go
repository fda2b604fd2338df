package models

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of a booked appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusAttended  AppointmentStatus = "attended"
)

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle step. cancelled and attended are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

// Active reports whether the appointment still occupies its slot.
func (s AppointmentStatus) Active() bool {
	return s != StatusCancelled
}

// PatientAppointment is the patient-side copy of an appointment. The
// doctor keeps a mirrored copy of the same booking; both records share
// AppointmentUID so status changes can be synced across the two sides.
type PatientAppointment struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	AppointmentUID uuid.UUID         `gorm:"type:uuid;index" json:"appointment_uid"`
	PatientID      uint              `gorm:"index;not null" json:"patient_id"`
	DoctorID       uint              `json:"doctor_id"`
	DoctorName     string            `json:"doctor_name"`
	Date           time.Time         `json:"appointment_date"`
	TimeSlot       string            `json:"appointment_time"`
	Status         AppointmentStatus `gorm:"default:pending" json:"appointment_status"`
	ReminderSent   bool              `gorm:"default:false" json:"reminder_sent"`
}

// DoctorAppointment is the doctor-side copy of an appointment.
type DoctorAppointment struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	AppointmentUID uuid.UUID         `gorm:"type:uuid;index" json:"appointment_uid"`
	DoctorID       uint              `gorm:"index;not null" json:"doctor_id"`
	PatientID      uint              `json:"patient_id"`
	PatientName    string            `json:"patient_name"`
	Date           time.Time         `json:"appointment_date"`
	TimeSlot       string            `json:"appointment_time"`
	Status         AppointmentStatus `gorm:"default:pending" json:"appointment_status"`
	ReminderSent   bool              `gorm:"default:false" json:"reminder_sent"`
}

// StartsAt combines the calendar date and the HH:MM slot into the
// absolute start instant of the appointment.
func (a PatientAppointment) StartsAt() time.Time {
	return combineDateTime(a.Date, a.TimeSlot)
}

// StartsAt combines the calendar date and the HH:MM slot into the
// absolute start instant of the appointment.
func (a DoctorAppointment) StartsAt() time.Time {
	return combineDateTime(a.Date, a.TimeSlot)
}

func combineDateTime(date time.Time, slot string) time.Time {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, date.Location())
}
