package service

import (
	"errors"
	"fmt"

	"reportam/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// AdminRole is the only role accepted on admin tokens that carry a role claim
const AdminRole = "admin"

// AdminClaims are the claims of an administrator bearer token. Tokens are
// issued by the admin auth service with the admin ID in "id".
type AdminClaims struct {
	AdminID string `json:"id"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	ValidateAdminToken(tokenString string) (*AdminClaims, error)
}

type authService struct {
	jwtSecret string
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{jwtSecret: cfg.JWTSecret}
}

// ValidateAdminToken parses an HS256 admin token and returns its claims
func (s *authService) ValidateAdminToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.AdminID == "" {
		claims.AdminID = claims.Subject
	}
	if claims.AdminID == "" {
		return nil, fmt.Errorf("%w: missing admin id", ErrInvalidToken)
	}
	if claims.Role != "" && claims.Role != AdminRole {
		return nil, fmt.Errorf("%w: role %q is not allowed", ErrInvalidToken, claims.Role)
	}

	return claims, nil
}
