package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignToken issues the HS256 login token carried in the Bearer cookie.
func SignToken(userID int, username string) (string, error) {
	jwtSecret := os.Getenv("JWT_SECRET")

	claims := jwt.MapClaims{
		"uid":  userID,
		"user": username,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return "", ErrorHandler(err, "failed to sign login token")
	}

	return tokenString, nil
}
