package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StackAlchemist/healthbridge-api/scheduling"
)

// respondSchedulingError maps scheduling rejections onto HTTP statuses.
func respondSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrBadTimeFormat),
		errors.Is(err, scheduling.ErrPastDate),
		errors.Is(err, scheduling.ErrUnavailableDay),
		errors.Is(err, scheduling.ErrUnavailableTime):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, scheduling.ErrPatientNotFound),
		errors.Is(err, scheduling.ErrDoctorNotFound),
		errors.Is(err, scheduling.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, scheduling.ErrSlotTaken),
		errors.Is(err, scheduling.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
