package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/StackAlchemist/healthbridge-api/authentication"
	"github.com/StackAlchemist/healthbridge-api/configuration"
	"github.com/StackAlchemist/healthbridge-api/models"
	"github.com/StackAlchemist/healthbridge-api/notification"
)

var validate = validator.New()

// PatientSignup validates a new patient, sends an OTP to their phone
// and parks the record in redis until the OTP is verified.
func PatientSignup(c *gin.Context) {
	var patient models.Patient
	if err := c.BindJSON(&patient); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validate.Struct(patient); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"Status":  "Failed",
			"message": "Please fill all the mandatory fields",
			"data":    err.Error(),
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(patient.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	patient.Password = string(hashedPassword)

	var existingPatient models.Patient
	if err := configuration.DB.Where("phone = ? OR email = ?", patient.Phone, patient.Email).First(&existingPatient).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Patient already exists"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "database error"})
		return
	}

	if err := SendOTP(notification.NormalizePhone(patient.Phone)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send OTP", "data": err.Error()})
		return
	}

	patientData, err := json.Marshal(&patient)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to marshal patient", "data": err.Error()})
		return
	}
	key := fmt.Sprintf("user:%s", patient.Phone)
	if err := configuration.SetRedis(key, patientData, time.Minute*5); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Status": false, "Message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Message": "Otp generated successfully. Proceed to verification"})
}

// PatientVerifyOTP checks the OTP and creates the parked patient record.
func PatientVerifyOTP(c *gin.Context) {
	var otpReq models.VerifyOTP
	if err := c.BindJSON(&otpReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"Status": false, "Message": "Failed to parse JSON data"})
		return
	}
	if otpReq.Otp == "" || otpReq.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"Status": false, "Message": "Phone and OTP are required"})
		return
	}

	if err := CheckOTP(notification.NormalizePhone(otpReq.Phone), otpReq.Otp); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"Status": false, "Message": "Wrong OTP provided"})
		return
	}

	key := fmt.Sprintf("user:%s", otpReq.Phone)
	patientData, err := configuration.GetRedis(key)
	if err != nil {
		c.JSON(http.StatusGone, gin.H{"Status": false, "Message": "Signup expired, please register again"})
		return
	}

	var patient models.Patient
	if err := json.Unmarshal([]byte(patientData), &patient); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"Status": false, "Message": "Internal server error"})
		return
	}

	if err := configuration.DB.Create(&patient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create patient"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"Status":  "Success",
		"Message": "Patient registered successfully",
		"data": gin.H{
			"id":    patient.PatientID,
			"name":  patient.Name,
			"email": patient.Email,
		},
	})
}

// PatientLogin verifies credentials and returns a JWT
func PatientLogin(c *gin.Context) {
	var loginReq struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.BindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingPatient models.Patient
	if err := configuration.DB.Where("phone = ?", loginReq.Phone).First(&existingPatient).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone number or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existingPatient.Password), []byte(loginReq.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid phone number or password"})
		return
	}

	token, err := authentication.GeneratePatientToken(existingPatient.PatientID, loginReq.Phone)
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

// BookAppointment books a slot with a doctor for the logged-in patient
func BookAppointment(c *gin.Context) {
	var bookingReq struct {
		DoctorID        uint   `json:"doctor_id" binding:"required"`
		AppointmentDate string `json:"appointment_date" binding:"required"`
		AppointmentTime string `json:"appointment_time" binding:"required"`
	}
	if err := c.BindJSON(&bookingReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patientID, ok := c.Get("patientID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient not authenticated"})
		return
	}

	date, err := time.Parse("2006-01-02", bookingReq.AppointmentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	appointment, err := Scheduler.Book(c.Request.Context(), patientID.(uint), bookingReq.DoctorID, date, bookingReq.AppointmentTime)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"Status":  "Success",
		"Message": "Appointment booked successfully",
		"Data":    appointment,
	})
}

// GetMyAppointments lists the patient's own appointment mirror
func GetMyAppointments(c *gin.Context) {
	patientID, ok := c.Get("patientID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient not authenticated"})
		return
	}

	var appointments []models.PatientAppointment
	if err := configuration.DB.Where("patient_id = ?", patientID).Order("date, time_slot").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status": "Success",
		"Data":   appointments,
	})
}

// PatientCancelAppointment cancels one of the patient's appointments
func PatientCancelAppointment(c *gin.Context) {
	patientID, ok := c.Get("patientID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient not authenticated"})
		return
	}

	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment id"})
		return
	}

	if err := Scheduler.CancelByPatient(c.Request.Context(), patientID.(uint), uid); err != nil {
		respondSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Appointment cancelled successfully",
	})
}

// GetMyHistory lists the patient's medical history entries
func GetMyHistory(c *gin.Context) {
	patientID, ok := c.Get("patientID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Patient not authenticated"})
		return
	}

	var history []models.HistoryEntry
	if err := configuration.DB.Preload("Medicines").Where("patient_id = ?", patientID).Order("date desc").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status": "Success",
		"Data":   history,
	})
}
