package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/StackAlchemist/healthbridge-api/models"
	"github.com/StackAlchemist/healthbridge-api/reminder"
)

// Reminders feeds the reminder scanner from the patient-side
// appointment mirror.
type Reminders struct {
	db *gorm.DB
}

func NewReminders(db *gorm.DB) *Reminders {
	return &Reminders{db: db}
}

// PendingReminders returns every unreminded pending or confirmed
// appointment together with its patient. The start-time window is
// narrowed in memory by the scanner.
func (r *Reminders) PendingReminders(ctx context.Context) ([]reminder.Candidate, error) {
	var appointments []models.PatientAppointment
	err := r.db.WithContext(ctx).
		Where("status IN ? AND reminder_sent = ?",
			[]models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}, false).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	if len(appointments) == 0 {
		return nil, nil
	}

	patientIDs := make([]uint, 0, len(appointments))
	seen := make(map[uint]bool)
	for _, a := range appointments {
		if !seen[a.PatientID] {
			seen[a.PatientID] = true
			patientIDs = append(patientIDs, a.PatientID)
		}
	}

	var patients []models.Patient
	if err := r.db.WithContext(ctx).Find(&patients, "patient_id IN ?", patientIDs).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Patient, len(patients))
	for _, p := range patients {
		byID[p.PatientID] = p
	}

	candidates := make([]reminder.Candidate, 0, len(appointments))
	for _, a := range appointments {
		patient, ok := byID[a.PatientID]
		if !ok {
			continue
		}
		candidates = append(candidates, reminder.Candidate{Appointment: a, Patient: patient})
	}
	return candidates, nil
}

func (r *Reminders) MarkPatientReminded(ctx context.Context, appointmentID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.PatientAppointment{}).
		Where("id = ?", appointmentID).
		Update("reminder_sent", true).Error
}

// MarkDoctorReminded flags the mirrored doctor-side copy. No error if
// the copy cannot be matched; the two sides may disagree on ids for
// rows predating shared uids.
func (r *Reminders) MarkDoctorReminded(ctx context.Context, doctorID, patientID uint, date time.Time, slot string) error {
	return r.db.WithContext(ctx).
		Model(&models.DoctorAppointment{}).
		Where("doctor_id = ? AND patient_id = ? AND date = ? AND time_slot = ?",
			doctorID, patientID, date, slot).
		Update("reminder_sent", true).Error
}
