package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/StackAlchemist/healthbridge-api/authentication"
	"github.com/StackAlchemist/healthbridge-api/controllers"
)

// SetupRoutes builds the gin engine with all role-grouped routes
func SetupRoutes() *gin.Engine {
	r := gin.Default()

	// public routes
	r.POST("/patient/signup", controllers.PatientSignup)
	r.POST("/patient/verify", controllers.PatientVerifyOTP)
	r.POST("/patient/login", controllers.PatientLogin)
	r.POST("/doctor/signup", controllers.DoctorSignup)
	r.POST("/doctor/login", controllers.DoctorLogin)
	r.POST("/official/signup", controllers.OfficialSignup)
	r.POST("/official/login", controllers.OfficialLogin)
	r.GET("/doctors", controllers.ListDoctors)
	r.GET("/doctors/:specialization", controllers.GetDoctorsBySpeciality)

	patient := r.Group("/patient")
	patient.Use(authentication.PatientAuthMiddleware())
	{
		patient.POST("/book/appointment", controllers.BookAppointment)
		patient.GET("/appointments", controllers.GetMyAppointments)
		patient.POST("/cancel/appointment/:uid", controllers.PatientCancelAppointment)
		patient.GET("/appointment/:uid/summary.pdf", controllers.AppointmentSummaryPDF)
		patient.GET("/history", controllers.GetMyHistory)
	}

	doctor := r.Group("/doctor")
	doctor.Use(authentication.DoctorAuthMiddleware())
	{
		doctor.POST("/update/availability", controllers.SaveAvailability)
		doctor.POST("/photo", controllers.UploadDoctorPhoto)
		doctor.GET("/appointments", controllers.GetDoctorAppointments)
		doctor.POST("/approve/appointment/:uid", controllers.ApproveAppointment)
		doctor.POST("/cancel/appointment/:uid", controllers.DoctorCancelAppointment)
		doctor.POST("/add/history", controllers.AddHistoryEntry)
		doctor.GET("/patients", controllers.GetLinkedPatients)
	}

	official := r.Group("/official")
	official.Use(authentication.OfficialAuthMiddleware())
	{
		official.POST("/approve/doctor", controllers.ApproveDoctor)
	}

	return r
}
