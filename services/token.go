package services

import (
	"fmt"
	"os"

	"github.com/dgrijalva/jwt-go"
)

// GetUserIDFromToken verifies a bearer token and returns the caller's user
// id and role. Token issuance lives in the identity service, not here.
func GetUserIDFromToken(tokenString string) (uint, int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return 0, 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, 0, fmt.Errorf("invalid token")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, 0, fmt.Errorf("missing user_id claim")
	}
	roleFloat, ok := claims["role"].(float64)
	if !ok {
		return 0, 0, fmt.Errorf("missing role claim")
	}

	return uint(userIDFloat), int(roleFloat), nil
}
