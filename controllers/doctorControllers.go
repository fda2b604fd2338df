package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/StackAlchemist/healthbridge-api/authentication"
	"github.com/StackAlchemist/healthbridge-api/configuration"
	"github.com/StackAlchemist/healthbridge-api/models"
	"github.com/StackAlchemist/healthbridge-api/objectstore"
	"github.com/StackAlchemist/healthbridge-api/scheduling"
)

// DoctorSignup registers a new doctor, pending NHIS approval.
func DoctorSignup(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"Status":  "Failed",
			"message": "Binding error",
			"data":    err.Error(),
		})
		return
	}

	if err := validate.Struct(doctor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"Status":  "Failed",
			"message": "Please fill all the mandatory fields",
			"data":    err.Error(),
		})
		return
	}

	var existingDoctor models.Doctor
	if err := configuration.DB.Where("email = ?", doctor.Email).First(&existingDoctor).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "Failed",
			"message": "Email already in use",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	if err := configuration.DB.Where("phone = ?", doctor.Phone).First(&existingDoctor).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "Failed",
			"message": "Phone number already in use",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(doctor.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
		return
	}
	doctor.Password = string(hashedPassword)

	doctor.Approved = false
	if doctor.PhotoURL == "" {
		doctor.PhotoURL = objectstore.DefaultPhotoURL
	}

	if err := configuration.DB.Create(&doctor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create doctor"})
		return
	}

	token, err := authentication.GenerateDoctorToken(doctor.Email, doctor.DoctorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"Status":  "Success",
		"Message": "Doctor registered, awaiting NHIS approval",
		"token":   token,
		"data": gin.H{
			"id":             doctor.DoctorID,
			"name":           doctor.Name,
			"email":          doctor.Email,
			"specialization": doctor.Specialization,
		},
	})
}

// DoctorLogin verifies credentials and returns a JWT
func DoctorLogin(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.BindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doctor models.Doctor
	if err := configuration.DB.Where("email = ?", loginReq.Email).First(&doctor).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doctor.Password), []byte(loginReq.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := authentication.GenerateDoctorToken(doctor.Email, doctor.DoctorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"message": "Login successful",
		"token":   token,
	})
}

// UploadDoctorPhoto stores a profile photo and saves its public URL
func UploadDoctorPhoto(c *gin.Context) {
	doctorID, ok := c.Get("doctorID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read photo"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("doctors/%d/%s", doctorID, fileHeader.Filename)
	url, err := Uploader.Upload(c.Request.Context(), key, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	if err := configuration.DB.Model(&models.Doctor{}).Where("doctor_id = ?", doctorID).Update("photo_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo url"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":    "Success",
		"photo_url": url,
	})
}

var weekdays = map[string]bool{
	"Sunday": true, "Monday": true, "Tuesday": true, "Wednesday": true,
	"Thursday": true, "Friday": true, "Saturday": true,
}

// SaveAvailability sets the doctor's weekly availability: a set of
// weekday names sharing a single start/end window.
func SaveAvailability(c *gin.Context) {
	var availReq struct {
		AvailableDays  []string `json:"available_days" binding:"required"`
		AvailableStart string   `json:"available_start" binding:"required"`
		AvailableEnd   string   `json:"available_end" binding:"required"`
	}
	if err := c.BindJSON(&availReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doctorID, ok := c.Get("doctorID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	for _, day := range availReq.AvailableDays {
		if !weekdays[day] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%q is not a weekday name", day)})
			return
		}
	}
	if !scheduling.ValidTimeSlot(availReq.AvailableStart) || !scheduling.ValidTimeSlot(availReq.AvailableEnd) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Availability times must be HH:MM in 24-hour format"})
		return
	}
	if !scheduling.WindowOrdered(availReq.AvailableStart, availReq.AvailableEnd) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Availability window must start before it ends"})
		return
	}

	var doctor models.Doctor
	if err := configuration.DB.First(&doctor, "doctor_id = ?", doctorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor id not found"})
		return
	}
	if !doctor.Approved {
		c.JSON(http.StatusForbidden, gin.H{"error": "Doctor has not been approved yet"})
		return
	}

	updates := map[string]any{
		"available_days":  strings.Join(availReq.AvailableDays, ","),
		"available_start": availReq.AvailableStart,
		"available_end":   availReq.AvailableEnd,
	}
	if err := configuration.DB.Model(&doctor).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Availability saved",
	})
}

// GetDoctorAppointments lists the doctor's appointment mirror,
// optionally narrowed to one date.
func GetDoctorAppointments(c *gin.Context) {
	doctorID, ok := c.Get("doctorID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	query := configuration.DB.Where("doctor_id = ?", doctorID)
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
			return
		}
		query = query.Where("date = ?", scheduling.Midnight(date))
	}

	var appointments []models.DoctorAppointment
	if err := query.Order("date, time_slot").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status": "Success",
		"Data":   appointments,
	})
}

// ApproveAppointment confirms a pending appointment
func ApproveAppointment(c *gin.Context) {
	doctorID, ok := c.Get("doctorID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment id"})
		return
	}

	if err := Scheduler.Approve(c.Request.Context(), doctorID.(uint), uid); err != nil {
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Appointment confirmed",
	})
}

// DoctorCancelAppointment cancels an appointment from the doctor side
func DoctorCancelAppointment(c *gin.Context) {
	doctorID, ok := c.Get("doctorID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment id"})
		return
	}

	if err := Scheduler.CancelByDoctor(c.Request.Context(), doctorID.(uint), uid); err != nil {
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Appointment cancelled",
	})
}

// AddHistoryEntry writes a medical history record for a patient the
// doctor has seen, linking the patient to the doctor for quick lookup.
func AddHistoryEntry(c *gin.Context) {
	doctorID, ok := c.Get("doctorID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var entry models.HistoryEntry
	if err := c.BindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "complaint is required"})
		return
	}
	entry.Practitioner = doctorID.(uint)

	var patient models.Patient
	if err := configuration.DB.First(&patient, "patient_id = ?", entry.PatientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	if err := configuration.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save history entry"})
		return
	}

	if err := linkPatient(configuration.DB, doctorID.(uint), patient); err != nil {
		// The history entry is already saved; a missing link only
		// degrades the doctor's patient list.
		log.Warn().Err(err).
			Uint("patient_id", patient.PatientID).
			Msg("could not link patient to doctor")
	}

	c.JSON(http.StatusCreated, gin.H{
		"Status":  "Success",
		"Message": "History entry added",
		"Data":    entry,
	})
}

// linkPatient records the doctor's quick-lookup entry for a patient,
// once.
func linkPatient(db *gorm.DB, doctorID uint, patient models.Patient) error {
	var link models.PatientLink
	err := db.Where("doctor_id = ? AND patient_id = ?", doctorID, patient.PatientID).First(&link).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	link = models.PatientLink{
		DoctorID:    doctorID,
		PatientID:   patient.PatientID,
		PatientName: patient.Name,
	}
	return db.Create(&link).Error
}

// GetLinkedPatients lists patients the doctor has treated
func GetLinkedPatients(c *gin.Context) {
	doctorID, ok := c.Get("doctorID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Doctor not authenticated"})
		return
	}

	var links []models.PatientLink
	if err := configuration.DB.Where("doctor_id = ?", doctorID).Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status": "Success",
		"Data":   links,
	})
}

// DoctorSummary is the public view of an approved doctor
type DoctorSummary struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Experience     int    `json:"experience"`
	PhotoURL       string `json:"photo_url"`
	HospitalName   string `json:"hospital_name"`
	AvailableDays  string `json:"available_days"`
	AvailableStart string `json:"available_start"`
	AvailableEnd   string `json:"available_end"`
}

// ListDoctors lists all approved doctors
func ListDoctors(c *gin.Context) {
	var doctors []models.Doctor
	if err := configuration.DB.Where("approved = ?", true).Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't get doctors details"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status": "Success",
		"Data":   summarize(doctors),
	})
}

// GetDoctorsBySpeciality lists approved doctors with the speciality
func GetDoctorsBySpeciality(c *gin.Context) {
	speciality := c.Param("specialization")

	var doctors []models.Doctor
	if err := configuration.DB.Where("specialization = ? AND approved = ?", speciality, true).Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't get doctors details"})
		return
	}
	if len(doctors) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No doctors found with the specified speciality"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status": "Success",
		"Data":   summarize(doctors),
	})
}

func summarize(doctors []models.Doctor) []DoctorSummary {
	summaries := make([]DoctorSummary, 0, len(doctors))
	for _, d := range doctors {
		summaries = append(summaries, DoctorSummary{
			ID:             d.DoctorID,
			Name:           d.Name,
			Specialization: d.Specialization,
			Experience:     d.Experience,
			PhotoURL:       d.PhotoURL,
			HospitalName:   d.HospitalName,
			AvailableDays:  d.AvailableDays,
			AvailableStart: d.AvailableStart,
			AvailableEnd:   d.AvailableEnd,
		})
	}
	return summaries
}
