package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of a session token
const TokenTTL = 24 * time.Hour

var (
	// ErrMissingEmail is returned when a payload to sign carries no email
	ErrMissingEmail = errors.New("token payload must include an email")
	// ErrInvalidToken covers every verification failure
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the verified content of a session token
type Identity struct {
	Email  string
	Claims jwt.MapClaims
}

// TokenService signs and verifies session tokens with a shared HMAC secret
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService for the given secret
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// GenerateJWT signs the identity payload; any exp/iat sent by the caller is replaced
func (s *TokenService) GenerateJWT(payload map[string]interface{}) (string, error) {
	email, _ := payload["email"].(string)
	if strings.TrimSpace(email) == "" {
		return "", ErrMissingEmail
	}

	now := s.now()
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(TokenTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature and expiry and returns the embedded identity
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingEmail)
	}
	return &Identity{Email: email, Claims: claims}, nil
}
