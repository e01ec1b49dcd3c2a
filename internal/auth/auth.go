package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/publica-project/publica/internal"
)

// User is the auth domain model. Salt and hash never leave this package.
type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	RoleID     int64     `json:"role_id"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Claims is the signed token payload: identity plus expiry. Validity is
// entirely signature + expiry; nothing is stored server-side, so a leaked
// token can only be invalidated by rotating the secret or waiting it out.
type Claims struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	RoleID int64  `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies identity tokens with a server secret.
type TokenIssuer struct {
	secret     []byte
	expiryDays int
}

func NewTokenIssuer(secret string, expiryDays int) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		expiryDays: expiryDays,
	}
}

// Issue builds and signs a token for the user. The expiry is the current
// time plus the configured day count, expressed as truncated Unix seconds.
func (t *TokenIssuer) Issue(user *User) (string, error) {
	expiry := time.Now().AddDate(0, 0, t.expiryDays)

	claims := &Claims{
		Email:  user.Email,
		Name:   user.Name,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(time.Unix(expiry.Unix(), 0)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature and expiry and returns the claims.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, internal.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, internal.ErrTokenMalformed
		default:
			return nil, internal.ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, internal.ErrTokenInvalid
	}
	return claims, nil
}

// Identity converts verified claims into the request-scoped identity.
func (c *Claims) Identity() (*internal.Identity, error) {
	var userID int64
	if _, err := fmt.Sscanf(c.Subject, "%d", &userID); err != nil {
		return nil, internal.ErrTokenInvalid
	}
	return &internal.Identity{
		UserID: userID,
		Email:  c.Email,
		Name:   c.Name,
		RoleID: c.RoleID,
	}, nil
}
