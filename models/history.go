package models

import "time"

// HistoryEntry is one record in a patient's medical history, written
// by the treating doctor.
type HistoryEntry struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	PatientID    uint       `gorm:"index;not null" json:"patient_id"`
	Complaint    string     `json:"complaint" validate:"required"`
	Description  string     `json:"description"`
	Diagnostics  string     `json:"diagnostics"`
	Treatments   string     `json:"treatments"`
	Medicines    []Medicine `gorm:"foreignKey:HistoryEntryID" json:"medicines,omitempty"`
	SideEffects  string     `json:"side_effects"`
	Precautions  string     `json:"precautions"`
	Surgeries    string     `json:"surgeries"`
	Practitioner uint       `json:"practitioner"`
	Date         time.Time  `gorm:"autoCreateTime" json:"date"`
	Status       string     `gorm:"default:pending" json:"status"`
	Comments     string     `gorm:"default:No Comments" json:"comments"`
}

// Medicine is a prescribed medicine attached to a history entry.
type Medicine struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	HistoryEntryID uint   `gorm:"index;not null" json:"history_entry_id"`
	Name           string `json:"name"`
	Usage          string `json:"usage"`
	Dosage         string `json:"dosage"`
}
