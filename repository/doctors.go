package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/StackAlchemist/healthbridge-api/models"
	"github.com/StackAlchemist/healthbridge-api/scheduling"
)

// Doctors is the gorm-backed doctor store. GetDoctor preloads the
// doctor's appointment mirror so conflict checks see the full list.
type Doctors struct {
	db *gorm.DB
}

func NewDoctors(db *gorm.DB) *Doctors {
	return &Doctors{db: db}
}

func (r *Doctors) GetDoctor(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).
		Preload("Appointments").
		First(&doctor, "doctor_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduling.ErrDoctorNotFound
		}
		return nil, err
	}
	return &doctor, nil
}
