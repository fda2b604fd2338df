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

// GenerateOfficialToken issues a signed token for an NHIS official
func GenerateOfficialToken(email string, officialID uint) (string, error) {
	claims := &models.OfficialClaims{
		OfficialID: officialID,
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey("official"))
}

// AuthenticateOfficial verifies an official token and returns its claims
func AuthenticateOfficial(tokenString string) (string, uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.OfficialClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey("official"), nil
	})
	if err != nil {
		return "", 0, err
	}

	if claims, ok := token.Claims.(*models.OfficialClaims); ok && token.Valid {
		return claims.Email, claims.OfficialID, nil
	}
	return "", 0, errors.New("invalid token")
}

// OfficialAuthMiddleware guards NHIS official routes
func OfficialAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing the authorization header"})
			return
		}

		authHeader := strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer"))
		email, id, err := AuthenticateOfficial(authHeader)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set("officialID", id)
		c.Set("officialEmail", email)
	}
}
