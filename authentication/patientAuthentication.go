package authentication

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/StackAlchemist/healthbridge-api/models"
)

// GeneratePatientToken issues a signed token for a logged-in patient
func GeneratePatientToken(patientID uint, phone string) (string, error) {
	claims := &models.PatientClaims{
		PatientID: patientID,
		Phone:     phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey("patient"))
}

// AuthenticatePatient verifies a patient token and returns its claims
func AuthenticatePatient(tokenString string) (string, uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.PatientClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey("patient"), nil
	})
	if err != nil {
		return "", 0, err
	}

	if claims, ok := token.Claims.(*models.PatientClaims); ok && token.Valid {
		return claims.Phone, claims.PatientID, nil
	}
	return "", 0, errors.New("invalid token")
}

// PatientAuthMiddleware guards patient routes
func PatientAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing the authorization header"})
			return
		}

		authHeader := strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer"))
		phone, patientID, err := AuthenticatePatient(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set("patientID", patientID)
		c.Set("patientPhone", phone)
	}
}
