package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/mealprepai/backend/internal/types"
)

// AuthService issues and validates the HS256 bearer tokens that guard the
// API when a JWT secret is configured. There is no user store; tokens are
// minted out of band.
type AuthService struct {
	jwtSecret string
}

// NewAuthService creates an AuthService signing with the given secret.
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: jwtSecret}
}

// GenerateToken issues a signed token for the given claims, valid for a day.
func (s *AuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	mapClaims := jwt.MapClaims{
		"user_id":  claims.UserID.String(),
		"username": claims.Username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a token string.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	username, _ := claims["username"].(string)

	return &types.TokenClaims{
		UserID:   userID,
		Username: username,
	}, nil
}
