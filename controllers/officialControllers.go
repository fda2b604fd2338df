package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/StackAlchemist/healthbridge-api/authentication"
	"github.com/StackAlchemist/healthbridge-api/configuration"
	"github.com/StackAlchemist/healthbridge-api/models"
)

// OfficialSignup registers a new NHIS official
func OfficialSignup(c *gin.Context) {
	var official models.Official
	if err := c.BindJSON(&official); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validate.Struct(official); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"Status":  "Failed",
			"message": "Please fill all the mandatory fields",
			"data":    err.Error(),
		})
		return
	}

	var existing models.Official
	if err := configuration.DB.Where("email = ?", official.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(official.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
		return
	}
	official.Password = string(hashedPassword)

	if err := configuration.DB.Create(&official).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create official"})
		return
	}

	token, err := authentication.GenerateOfficialToken(official.Email, official.OfficialID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"Status":  "Success",
		"Message": "Official registered successfully",
		"token":   token,
		"data": gin.H{
			"id":    official.OfficialID,
			"name":  official.Name,
			"email": official.Email,
		},
	})
}

// OfficialLogin verifies credentials and returns a JWT
func OfficialLogin(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.BindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var official models.Official
	if err := configuration.DB.Where("email = ?", loginReq.Email).First(&official).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(official.Password), []byte(loginReq.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := authentication.GenerateOfficialToken(official.Email, official.OfficialID)
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

// ApproveDoctor marks a doctor approved, records the approval against
// the official and mails the doctor a notice.
func ApproveDoctor(c *gin.Context) {
	officialID, ok := c.Get("officialID")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Official not authenticated"})
		return
	}

	var approveReq struct {
		DoctorID uint `json:"doctor_id" binding:"required"`
	}
	if err := c.BindJSON(&approveReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doctor models.Doctor
	if err := configuration.DB.First(&doctor, "doctor_id = ?", approveReq.DoctorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}
	if doctor.Approved {
		c.JSON(http.StatusConflict, gin.H{"error": "Doctor has already been approved"})
		return
	}

	var official models.Official
	if err := configuration.DB.First(&official, "official_id = ?", officialID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Official not found"})
		return
	}

	approval := models.Approval{
		OfficialID:     official.OfficialID,
		DoctorID:       doctor.DoctorID,
		DoctorName:     doctor.Name,
		DoctorEmail:    doctor.Email,
		Specialization: doctor.Specialization,
	}

	err := configuration.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&doctor).Update("approved", true).Error; err != nil {
			return err
		}
		return tx.Create(&approval).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Approval failed"})
		return
	}

	notice := fmt.Sprintf(
		"Dear Dr. %s,\n\nYour NHIS registration has been approved by %s. You can now publish your availability and receive bookings.",
		doctor.Name, official.Name,
	)
	if err := SendEmail("NHIS approval", notice, doctor.Email); err != nil {
		// Approval stands; the mail is a courtesy.
		log.Warn().Err(err).Str("email", doctor.Email).Msg("could not send approval notice")
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Approved successfully",
	})
}
