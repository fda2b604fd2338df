package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/StackAlchemist/healthbridge-api/models"
	"github.com/StackAlchemist/healthbridge-api/scheduling"
)

// Appointments persists the two mirrored appointment copies. Pair
// writes run inside one transaction so a booking or status change
// never lands on only one side.
type Appointments struct {
	db *gorm.DB
}

func NewAppointments(db *gorm.DB) *Appointments {
	return &Appointments{db: db}
}

func (r *Appointments) CreatePair(ctx context.Context, doctorCopy *models.DoctorAppointment, patientCopy *models.PatientAppointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doctorCopy).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// The partial unique index caught a racing booking for
				// the same slot.
				return scheduling.ErrSlotTaken
			}
			return err
		}
		return tx.Create(patientCopy).Error
	})
}

func (r *Appointments) SavePair(ctx context.Context, doctorCopy *models.DoctorAppointment, patientCopy *models.PatientAppointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if doctorCopy != nil {
			if err := tx.Save(doctorCopy).Error; err != nil {
				return err
			}
		}
		if patientCopy != nil {
			if err := tx.Save(patientCopy).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Appointments) DoctorCopy(ctx context.Context, doctorID uint, uid uuid.UUID) (*models.DoctorAppointment, error) {
	var appt models.DoctorAppointment
	err := r.db.WithContext(ctx).
		First(&appt, "doctor_id = ? AND appointment_uid = ?", doctorID, uid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (r *Appointments) PatientCopy(ctx context.Context, patientID uint, uid uuid.UUID) (*models.PatientAppointment, error) {
	var appt models.PatientAppointment
	err := r.db.WithContext(ctx).
		First(&appt, "patient_id = ? AND appointment_uid = ?", patientID, uid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (r *Appointments) DoctorCopyBySlot(ctx context.Context, doctorID, patientID uint, date time.Time, slot string) (*models.DoctorAppointment, error) {
	var appt models.DoctorAppointment
	err := r.db.WithContext(ctx).
		First(&appt, "doctor_id = ? AND patient_id = ? AND date = ? AND time_slot = ?",
			doctorID, patientID, date, slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (r *Appointments) PatientCopyBySlot(ctx context.Context, patientID, doctorID uint, date time.Time, slot string) (*models.PatientAppointment, error) {
	var appt models.PatientAppointment
	err := r.db.WithContext(ctx).
		First(&appt, "patient_id = ? AND doctor_id = ? AND date = ? AND time_slot = ?",
			patientID, doctorID, date, slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}
