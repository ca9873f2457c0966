package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"engrave-backend/internal/timeutil"
)

// Claims are the admin session claims. This service has a single admin role.
type Claims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret          string
	issuer          string
	expirationHours int
}

func NewJWTManager(secret, issuer string, expirationHours int) *JWTManager {
	if expirationHours <= 0 {
		expirationHours = 24
	}
	return &JWTManager{secret: secret, issuer: issuer, expirationHours: expirationHours}
}

// GenerateToken creates a new admin session token.
func (j *JWTManager) GenerateToken(username string) (string, error) {
	now := timeutil.Now()
	expirationTime := now.Add(time.Duration(j.expirationHours) * time.Hour)

	claims := &Claims{
		Username: username,
		IsAdmin:  true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secret))
}

// ValidateToken verifies a token and returns the claims.
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(j.secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !claims.IsAdmin {
		return nil, errors.New("not an admin token")
	}

	return claims, nil
}
