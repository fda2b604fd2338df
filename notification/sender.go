package notification

import (
	"context"
	"fmt"
	"time"
)

// Sender delivers a text message to a phone number and returns the
// provider's message id. Destinations must already be in international
// format; see NormalizePhone.
type Sender interface {
	Send(ctx context.Context, body, to string) (messageID string, err error)
}

// ReminderMessage formats the SMS sent one hour before an appointment.
func ReminderMessage(patientName, doctorName, specialization string, startsAt time.Time) string {
	return fmt.Sprintf(
		"Hello %s, this is a reminder of your appointment with Dr. %s (%s) on %s at %s. Please arrive 10 minutes early.",
		patientName,
		doctorName,
		specialization,
		startsAt.Format("Monday, 02 Jan 2006"),
		startsAt.Format("15:04"),
	)
}
