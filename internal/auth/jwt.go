package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the identity carried by a verified token.
type Claims struct {
	UserID uint
	Role   string
}

// Issuer signs and verifies access and refresh tokens.
type Issuer struct {
	secret        []byte
	refreshSecret []byte
	ttl           time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewIssuer(secret, refreshSecret string, ttl, refreshTTL time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is not set")
	}
	if refreshSecret == "" {
		refreshSecret = secret
	}

	return &Issuer{
		secret:        []byte(secret),
		refreshSecret: []byte(refreshSecret),
		ttl:           ttl,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

// TTL is the lifetime of access tokens, used for the auth cookie.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

func (i *Issuer) GenerateJWT(userID uint, role string) (string, error) {
	return i.sign(i.secret, tokenTypeAccess, userID, role, i.ttl)
}

func (i *Issuer) GenerateRefreshJWT(userID uint, role string) (string, error) {
	return i.sign(i.refreshSecret, tokenTypeRefresh, userID, role, i.refreshTTL)
}

func (i *Issuer) VerifyJWT(tokenString string) (*Claims, error) {
	return i.verify(i.secret, tokenTypeAccess, tokenString)
}

func (i *Issuer) VerifyRefreshJWT(tokenString string) (*Claims, error) {
	return i.verify(i.refreshSecret, tokenTypeRefresh, tokenString)
}

func (i *Issuer) sign(secret []byte, typ string, userID uint, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"typ":     typ,
		"exp":     i.now().Add(ttl).Unix(),
		"iat":     i.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (i *Issuer) verify(secret []byte, typ string, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(i.now))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return nil, fmt.Errorf("Invalid token claims")
	}

	if t, _ := claims["typ"].(string); t != typ {
		return nil, fmt.Errorf("Invalid token type")
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok || userIDFloat <= 0 {
		return nil, fmt.Errorf("Invalid user ID in token claims")
	}

	role, _ := claims["role"].(string)

	return &Claims{UserID: uint(userIDFloat), Role: role}, nil
}
