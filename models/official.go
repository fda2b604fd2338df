package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Official is an NHIS officer who vets and approves doctors.
type Official struct {
	OfficialID uint   `gorm:"primaryKey" json:"id"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" gorm:"unique" validate:"required,email"`
	Password   string `json:"password" validate:"required"`

	Approvals []Approval `gorm:"foreignKey:OfficialID" json:"approvals,omitempty"`
}

// Approval records a doctor approved by an NHIS official.
type Approval struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OfficialID     uint      `gorm:"index;not null" json:"official_id"`
	DoctorID       uint      `json:"doctor_id"`
	DoctorName     string    `json:"doctor_name"`
	DoctorEmail    string    `json:"doctor_email"`
	Specialization string    `json:"specialization"`
	ApprovedAt     time.Time `gorm:"autoCreateTime" json:"approved_at"`
}

type OfficialClaims struct {
	OfficialID uint   `json:"official_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}
