package utils

import (
	"fmt"
	"time"

	"marketplace-server/internal/config"
	"marketplace-server/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims.
type Claims struct {
	ParticipantID uint                   `json:"id"`
	Kind          models.ParticipantKind `json:"userType"`
	Email         string                 `json:"email"`
	Name          string                 `json:"name"`
	jwt.RegisteredClaims
}

// Participant returns the authenticated participant named by the claims.
func (c *Claims) Participant() models.Participant {
	return models.Participant{ID: c.ParticipantID, Kind: c.Kind}
}

// GenerateToken generates an access token for a user or pro.
func GenerateToken(identity models.Identity, cfg *config.Config) (string, error) {
	now := time.Now()
	p := identity.Participant()
	claims := &Claims{
		ParticipantID: p.ID,
		Kind:          p.Kind,
		Email:         identity.GetEmail(),
		Name:          identity.DisplayName(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.JWTExpirationMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   p.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// TokenIssuer binds GenerateToken to cfg.
func TokenIssuer(cfg *config.Config) func(models.Identity) (string, error) {
	return func(identity models.Identity) (string, error) {
		return GenerateToken(identity, cfg)
	}
}

// ValidateToken validates a JWT token.
func ValidateToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if !claims.Participant().Valid() {
		return nil, fmt.Errorf("token does not name a user or pro")
	}

	return claims, nil
}
