package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity contained in a token.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var (
	errMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

const defaultTokenTTL = 30 * time.Minute

// SignJWT signs the given claims with HS256 using the configured secret.
func SignJWT(userID, email, name, role string) (string, error) {
	secret, err := secretKey()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("sub is required")
	}

	now := time.Now().UTC()
	claims := Claims{
		Email: email,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL())),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyJWT validates a token and returns its claims.
func VerifyJWT(raw string) (Claims, error) {
	secret, err := secretKey()
	if err != nil {
		return Claims{}, err
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func secretKey() ([]byte, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return nil, errMissingSecret
	}
	return []byte(secret), nil
}

func tokenTTL() time.Duration {
	raw := strings.TrimSpace(os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"))
	if raw == "" {
		return defaultTokenTTL
	}
	var minutes int
	if _, err := fmt.Sscanf(raw, "%d", &minutes); err != nil || minutes <= 0 {
		return defaultTokenTTL
	}
	return time.Duration(minutes) * time.Minute
}
