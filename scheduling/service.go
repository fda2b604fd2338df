package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/StackAlchemist/healthbridge-api/models"
)

// PatientStore loads patient records.
type PatientStore interface {
	GetPatient(ctx context.Context, id uint) (*models.Patient, error)
}

// DoctorStore loads doctor records with their appointment list.
type DoctorStore interface {
	GetDoctor(ctx context.Context, id uint) (*models.Doctor, error)
}

// AppointmentStore persists the two mirrored appointment copies. Pair
// operations must write both rows in one transaction. Lookups return
// (nil, nil) when no row matches.
type AppointmentStore interface {
	CreatePair(ctx context.Context, doctorCopy *models.DoctorAppointment, patientCopy *models.PatientAppointment) error
	SavePair(ctx context.Context, doctorCopy *models.DoctorAppointment, patientCopy *models.PatientAppointment) error
	DoctorCopy(ctx context.Context, doctorID uint, uid uuid.UUID) (*models.DoctorAppointment, error)
	PatientCopy(ctx context.Context, patientID uint, uid uuid.UUID) (*models.PatientAppointment, error)
	DoctorCopyBySlot(ctx context.Context, doctorID, patientID uint, date time.Time, slot string) (*models.DoctorAppointment, error)
	PatientCopyBySlot(ctx context.Context, patientID, doctorID uint, date time.Time, slot string) (*models.PatientAppointment, error)
}

// Service owns booking and the appointment status lifecycle. Every
// status change is applied to both mirrored copies.
type Service struct {
	patients     PatientStore
	doctors      DoctorStore
	appointments AppointmentStore
	logger       zerolog.Logger
	now          func() time.Time
}

// NewService wires a scheduling service.
func NewService(patients PatientStore, doctors DoctorStore, appointments AppointmentStore, logger zerolog.Logger) *Service {
	return &Service{
		patients:     patients,
		doctors:      doctors,
		appointments: appointments,
		logger:       logger,
		now:          time.Now,
	}
}

// Book validates a requested slot against the doctor's availability and
// existing appointments, then creates both mirrored copies with one
// shared appointment uid, status pending.
func (s *Service) Book(ctx context.Context, patientID, doctorID uint, date time.Time, slot string) (*models.PatientAppointment, error) {
	if !ValidTimeSlot(slot) {
		return nil, ErrBadTimeFormat
	}
	date = Midnight(date)
	if date.Before(Midnight(s.now())) {
		return nil, ErrPastDate
	}

	patient, err := s.patients.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	doctor, err := s.doctors.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	if err := CheckAvailability(doctor.DayNames(), doctor.AvailableStart, doctor.AvailableEnd, date, slot); err != nil {
		return nil, err
	}
	if err := FindConflict(doctor.Appointments, date, slot); err != nil {
		return nil, err
	}

	uid := uuid.New()
	doctorCopy := &models.DoctorAppointment{
		AppointmentUID: uid,
		DoctorID:       doctor.DoctorID,
		PatientID:      patient.PatientID,
		PatientName:    patient.Name,
		Date:           date,
		TimeSlot:       slot,
		Status:         models.StatusPending,
	}
	patientCopy := &models.PatientAppointment{
		AppointmentUID: uid,
		PatientID:      patient.PatientID,
		DoctorID:       doctor.DoctorID,
		DoctorName:     doctor.Name,
		Date:           date,
		TimeSlot:       slot,
		Status:         models.StatusPending,
	}

	if err := s.appointments.CreatePair(ctx, doctorCopy, patientCopy); err != nil {
		return nil, fmt.Errorf("book appointment: %w", err)
	}

	s.logger.Info().
		Str("appointment_uid", uid.String()).
		Uint("patient_id", patient.PatientID).
		Uint("doctor_id", doctor.DoctorID).
		Str("slot", slot).
		Msg("appointment booked")

	return patientCopy, nil
}

// Approve confirms a pending appointment from the doctor's side and
// syncs the patient's copy.
func (s *Service) Approve(ctx context.Context, doctorID uint, uid uuid.UUID) error {
	return s.transitionFromDoctor(ctx, doctorID, uid, models.StatusConfirmed)
}

// CancelByDoctor cancels a pending or confirmed appointment from the
// doctor's side and syncs the patient's copy.
func (s *Service) CancelByDoctor(ctx context.Context, doctorID uint, uid uuid.UUID) error {
	return s.transitionFromDoctor(ctx, doctorID, uid, models.StatusCancelled)
}

// CancelByPatient cancels from the patient's side and syncs the
// doctor's copy.
func (s *Service) CancelByPatient(ctx context.Context, patientID uint, uid uuid.UUID) error {
	patientCopy, err := s.appointments.PatientCopy(ctx, patientID, uid)
	if err != nil {
		return fmt.Errorf("load patient copy: %w", err)
	}
	if patientCopy == nil {
		return ErrAppointmentNotFound
	}
	if !patientCopy.Status.CanTransitionTo(models.StatusCancelled) {
		return ErrInvalidTransition
	}

	doctorCopy, err := s.appointments.DoctorCopy(ctx, patientCopy.DoctorID, uid)
	if err != nil {
		return fmt.Errorf("load doctor copy: %w", err)
	}
	if doctorCopy == nil {
		// The copies may not share an id if the row predates shared
		// uids; fall back to matching the slot itself.
		doctorCopy, err = s.appointments.DoctorCopyBySlot(ctx, patientCopy.DoctorID, patientID, patientCopy.Date, patientCopy.TimeSlot)
		if err != nil {
			return fmt.Errorf("load doctor copy by slot: %w", err)
		}
	}

	patientCopy.Status = models.StatusCancelled
	if doctorCopy != nil {
		doctorCopy.Status = models.StatusCancelled
	} else {
		s.logger.Warn().
			Str("appointment_uid", uid.String()).
			Uint("patient_id", patientID).
			Msg("doctor copy missing, cancelling patient side only")
	}

	if err := s.appointments.SavePair(ctx, doctorCopy, patientCopy); err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	return nil
}

func (s *Service) transitionFromDoctor(ctx context.Context, doctorID uint, uid uuid.UUID, next models.AppointmentStatus) error {
	doctorCopy, err := s.appointments.DoctorCopy(ctx, doctorID, uid)
	if err != nil {
		return fmt.Errorf("load doctor copy: %w", err)
	}
	if doctorCopy == nil {
		return ErrAppointmentNotFound
	}
	if !doctorCopy.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}

	patientCopy, err := s.appointments.PatientCopy(ctx, doctorCopy.PatientID, uid)
	if err != nil {
		return fmt.Errorf("load patient copy: %w", err)
	}
	if patientCopy == nil {
		patientCopy, err = s.appointments.PatientCopyBySlot(ctx, doctorCopy.PatientID, doctorID, doctorCopy.Date, doctorCopy.TimeSlot)
		if err != nil {
			return fmt.Errorf("load patient copy by slot: %w", err)
		}
	}

	doctorCopy.Status = next
	if patientCopy != nil {
		patientCopy.Status = next
	} else {
		s.logger.Warn().
			Str("appointment_uid", uid.String()).
			Uint("doctor_id", doctorID).
			Str("status", string(next)).
			Msg("patient copy missing, updating doctor side only")
	}

	if err := s.appointments.SavePair(ctx, doctorCopy, patientCopy); err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}

	s.logger.Info().
		Str("appointment_uid", uid.String()).
		Uint("doctor_id", doctorID).
		Str("status", string(next)).
		Msg("appointment status updated")
	return nil
}
