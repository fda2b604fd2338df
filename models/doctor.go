package models

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type Doctor struct {
	DoctorID       uint   `gorm:"primaryKey" json:"id"`
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" gorm:"unique" validate:"required,email"`
	Password       string `json:"password" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Specialization string `json:"specialization" validate:"required"`
	Experience     int    `json:"experience"`
	PhotoURL       string `json:"photo_url"`
	Approved       bool   `json:"approved"`

	// Hospital the doctor practices at, kept denormalized on the record.
	HospitalName    string `json:"hospital_name"`
	HospitalAddress string `json:"hospital_address"`
	HospitalPhone   string `json:"hospital_phone"`

	// Weekly availability: a set of weekday names sharing one
	// start/end window, e.g. "Monday,Wednesday,Friday" 09:00-17:00.
	AvailableDays  string `json:"available_days"`
	AvailableStart string `json:"available_start"`
	AvailableEnd   string `json:"available_end"`

	Appointments []DoctorAppointment `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
	Patients     []PatientLink       `gorm:"foreignKey:DoctorID" json:"patients,omitempty"`
}

// DayNames splits the stored availability days into a slice, dropping
// empty entries left by stray commas.
func (d Doctor) DayNames() []string {
	var days []string
	for _, day := range strings.Split(d.AvailableDays, ",") {
		if day = strings.TrimSpace(day); day != "" {
			days = append(days, day)
		}
	}
	return days
}

// PatientLink is a doctor's quick-lookup summary of a patient they
// have seen.
type PatientLink struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	DoctorID    uint   `gorm:"index;not null" json:"doctor_id"`
	PatientID   uint   `json:"patient_id"`
	PatientName string `json:"patient_name"`
}

type DoctorClaims struct {
	DoctorID    uint   `json:"id"`
	DoctorEmail string `json:"email"`
	jwt.RegisteredClaims
}
