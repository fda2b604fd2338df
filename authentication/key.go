package authentication

import "os"

// jwtKey derives the signing key for a role from JWT_SECRET. Each role
// signs with a distinct key so tokens cannot cross role boundaries.
func jwtKey(role string) []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secretKey"
	}
	return []byte(secret + ":" + role)
}
