package models

import "github.com/golang-jwt/jwt/v5"

type Patient struct {
	PatientID uint   `gorm:"primaryKey" json:"id"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" gorm:"unique" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`

	Appointments []PatientAppointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
	History      []HistoryEntry       `gorm:"foreignKey:PatientID" json:"history,omitempty"`
}

type VerifyOTP struct {
	Phone string `json:"phone"`
	Otp   string `json:"otp"`
}

type PatientClaims struct {
	PatientID uint   `json:"patient_id"`
	Phone     string `json:"phone"`
	jwt.RegisteredClaims
}
