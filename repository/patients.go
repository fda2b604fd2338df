package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/StackAlchemist/healthbridge-api/models"
	"github.com/StackAlchemist/healthbridge-api/scheduling"
)

// Patients is the gorm-backed patient store.
type Patients struct {
	db *gorm.DB
}

func NewPatients(db *gorm.DB) *Patients {
	return &Patients{db: db}
}

func (r *Patients) GetPatient(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).First(&patient, "patient_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduling.ErrPatientNotFound
		}
		return nil, err
	}
	return &patient, nil
}
