package configuration

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/StackAlchemist/healthbridge-api/models"
)

// DB holds the connection to the database
var DB *gorm.DB

// ConfigDB initializes the database connection and runs migrations
func ConfigDB() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Msg("no .env file found, relying on environment")
	}
	dsn := os.Getenv("DB")

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to the database")
	}

	if err := DB.AutoMigrate(
		&models.Patient{},
		&models.Doctor{},
		&models.Official{},
		&models.Approval{},
		&models.PatientAppointment{},
		&models.DoctorAppointment{},
		&models.PatientLink{},
		&models.HistoryEntry{},
		&models.Medicine{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// A slot may hold at most one non-cancelled appointment. Enforced
	// here because two racing bookings can both pass the in-memory
	// conflict check before either row lands.
	if err := DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_doctor_slot_active
		 ON doctor_appointments (doctor_id, date, time_slot)
		 WHERE status <> 'cancelled'`,
	).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to create slot uniqueness index")
	}
}
