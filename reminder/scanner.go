package reminder

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/StackAlchemist/healthbridge-api/models"
	"github.com/StackAlchemist/healthbridge-api/notification"
)

// Candidate pairs a patient-side appointment with its owning patient.
type Candidate struct {
	Appointment models.PatientAppointment
	Patient     models.Patient
}

// CandidateStore fetches appointments that may need a reminder and
// records delivered ones.
type CandidateStore interface {
	// PendingReminders returns patient-side appointments with status
	// pending or confirmed whose reminder flag is unset. A coarse
	// pre-filter: the scanner narrows by start time in memory.
	PendingReminders(ctx context.Context) ([]Candidate, error)
	MarkPatientReminded(ctx context.Context, appointmentID uint) error
	// MarkDoctorReminded flags the mirrored doctor-side copy, matched
	// by patient id plus the exact slot.
	MarkDoctorReminded(ctx context.Context, doctorID, patientID uint, date time.Time, slot string) error
}

// DoctorLookup resolves the counterpart doctor for a reminder.
type DoctorLookup interface {
	GetDoctor(ctx context.Context, id uint) (*models.Doctor, error)
}

// Scanner finds appointments starting in one hour and sends each
// patient a single SMS reminder.
type Scanner struct {
	store   CandidateStore
	doctors DoctorLookup
	sender  notification.Sender
	logger  zerolog.Logger
	now     func() time.Time
	running atomic.Bool
}

// NewScanner wires a reminder scanner.
func NewScanner(store CandidateStore, doctors DoctorLookup, sender notification.Sender, logger zerolog.Logger) *Scanner {
	return &Scanner{
		store:   store,
		doctors: doctors,
		sender:  sender,
		logger:  logger,
		now:     time.Now,
	}
}

// RunCycle executes one scan. Appointments starting inside
// [now+60min, now+61min) are dispatched concurrently; the cycle waits
// for all of them. A cycle invoked while a previous one is still in
// flight returns immediately without scanning. Returns the number of
// reminders delivered.
func (s *Scanner) RunCycle(ctx context.Context) (int, error) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn().Msg("reminder cycle still running, skipping")
		return 0, nil
	}
	defer s.running.Store(false)

	now := s.now()
	windowStart := now.Add(time.Hour)
	windowEnd := windowStart.Add(time.Minute)

	candidates, err := s.store.PendingReminders(ctx)
	if err != nil {
		return 0, err
	}

	var matched []Candidate
	for _, c := range candidates {
		appt := c.Appointment
		if appt.ReminderSent || appt.Status == models.StatusCancelled || appt.Status == models.StatusAttended {
			continue
		}
		startsAt := appt.StartsAt()
		if !startsAt.Before(windowStart) && startsAt.Before(windowEnd) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return 0, nil
	}

	s.logger.Info().Int("matched", len(matched)).Msg("appointments in reminder window")

	// Fan out one dispatch per appointment; a failure in one must not
	// abort the others or the cycle.
	var wg sync.WaitGroup
	var delivered atomic.Int32
	for _, c := range matched {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			sent, err := s.dispatch(ctx, c)
			if err != nil {
				s.logger.Error().Err(err).
					Uint("appointment_id", c.Appointment.ID).
					Uint("patient_id", c.Patient.PatientID).
					Msg("reminder dispatch failed")
				return
			}
			if sent {
				delivered.Add(1)
			}
		}()
	}
	wg.Wait()

	return int(delivered.Load()), nil
}

// dispatch sends one reminder. It reports whether an SMS actually went
// out; unresolvable candidates are skipped without error.
func (s *Scanner) dispatch(ctx context.Context, c Candidate) (bool, error) {
	appt := c.Appointment

	doctor, err := s.doctors.GetDoctor(ctx, appt.DoctorID)
	if err != nil || doctor == nil {
		s.logger.Warn().
			Uint("doctor_id", appt.DoctorID).
			Uint("patient_id", c.Patient.PatientID).
			Msg("skipping reminder, doctor not found")
		return false, nil
	}
	if c.Patient.Phone == "" {
		s.logger.Warn().
			Uint("patient_id", c.Patient.PatientID).
			Msg("skipping reminder, patient has no phone")
		return false, nil
	}

	to := notification.NormalizePhone(c.Patient.Phone)
	body := notification.ReminderMessage(c.Patient.Name, doctor.Name, doctor.Specialization, appt.StartsAt())

	messageID, err := s.sender.Send(ctx, body, to)
	if err != nil {
		// Flag stays unset so the next cycle retries.
		return false, err
	}

	s.logger.Info().
		Str("message_id", messageID).
		Uint("appointment_id", appt.ID).
		Str("to", to).
		Msg("reminder sent")

	if err := s.store.MarkPatientReminded(ctx, appt.ID); err != nil {
		// The SMS went out but the flag write failed; the next cycle
		// will send again. Accepted over losing reminders outright.
		return false, err
	}
	if err := s.store.MarkDoctorReminded(ctx, appt.DoctorID, appt.PatientID, appt.Date, appt.TimeSlot); err != nil {
		s.logger.Warn().Err(err).
			Uint("appointment_id", appt.ID).
			Msg("could not flag doctor-side copy")
	}
	return true, nil
}
