package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/StackAlchemist/healthbridge-api/configuration"
	"github.com/StackAlchemist/healthbridge-api/models"
)

// AppointmentSummaryPDF renders a printable letter for one of the
// patient's appointments.
func AppointmentSummaryPDF(c *gin.Context) {
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

	var appointment models.PatientAppointment
	if err := configuration.DB.First(&appointment, "patient_id = ? AND appointment_uid = ?", patientID, uid).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}

	var patient models.Patient
	if err := configuration.DB.First(&patient, "patient_id = ?", patientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	summary, err := generateAppointmentPDF(appointment, patient)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=appointment-%s.pdf", uid))
	c.Data(http.StatusOK, "application/pdf", summary)
}

func generateAppointmentPDF(appointment models.PatientAppointment, patient models.Patient) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 64, 128)
	pdf.CellFormat(0, 10, "HealthBridge - Hospital Appointment Booking", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Appointment Summary", "1", 1, "C", false, 0, "")
	addDetail(pdf, "Appointment ID", appointment.AppointmentUID.String(), true)
	addDetail(pdf, "Patient Name", patient.Name, true)
	addDetail(pdf, "Doctor Name", appointment.DoctorName, true)
	addDetail(pdf, "Date", appointment.Date.Format("2006-01-02"), true)
	addDetail(pdf, "Time", appointment.TimeSlot, true)
	addDetail(pdf, "Status", string(appointment.Status), false)

	pdf.SetY(pdf.GetY() + 10)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, "Please arrive 10 minutes before your appointment time and bring a valid means of identification.", "", "L", false)
	pdf.SetY(pdf.GetY() + 12)
	pdf.CellFormat(0, 10, "This is a computer generated document", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// addDetail adds a labelled row to the PDF
func addDetail(pdf *gofpdf.Fpdf, label, value string, isHeader bool) {
	if isHeader {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(255, 255, 255)
	} else {
		pdf.SetFont("Arial", "", 10)
		pdf.SetFillColor(240, 240, 240)
	}
	pdf.CellFormat(45, 10, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 10, value, "1", 1, "", false, 0, "")
}
