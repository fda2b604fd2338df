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

// GenerateDoctorToken issues a signed token for a logged-in doctor
func GenerateDoctorToken(doctorEmail string, doctorID uint) (string, error) {
	claims := &models.DoctorClaims{
		DoctorID:    doctorID,
		DoctorEmail: doctorEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey("doctor"))
}

// AuthenticateDoctor verifies a doctor token and returns its claims
func AuthenticateDoctor(tokenString string) (string, uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.DoctorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey("doctor"), nil
	})
	if err != nil {
		return "", 0, err
	}

	if claims, ok := token.Claims.(*models.DoctorClaims); ok && token.Valid {
		return claims.DoctorEmail, claims.DoctorID, nil
	}
	return "", 0, errors.New("invalid token")
}

// DoctorAuthMiddleware guards doctor routes
func DoctorAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing the authorization header"})
			return
		}

		authHeader := strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer"))
		email, id, err := AuthenticateDoctor(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set("doctorID", id)
		c.Set("doctorEmail", email)
	}
}
