package jwtutil

import (
	"github.com/golang-jwt/jwt/v5"
	"rental-service/pkg/config"
)

var secret = []byte("rentalservicesecretkey")

// Initialize sets the signing key from configuration
func Initialize(cfg *config.JWTConfig) {
	if cfg.SigningKey != "" {
		secret = []byte(cfg.SigningKey)
	}
}

// OperatorClaims represents the JWT claims for a store operator
type OperatorClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	// Role gates UI surfaces only; the service itself does not enforce
	// per-role permissions.
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*OperatorClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
