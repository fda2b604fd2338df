package scheduling

import (
	"time"

	"github.com/StackAlchemist/healthbridge-api/models"
)

// FindConflict scans a doctor's existing appointments for a
// non-cancelled entry at the exact same date and time slot.
// Appointments are point events: only an exact match clashes.
func FindConflict(appointments []models.DoctorAppointment, date time.Time, slot string) error {
	for _, a := range appointments {
		if sameDay(a.Date, date) && a.TimeSlot == slot && a.Status.Active() {
			return ErrSlotTaken
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
