// Package auth issues and verifies the signed bearer credentials consumed by
// the authorization chain.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Claims is the token payload: subject is the user id, role decides which
// gates apply, and org carries the admin's organization when present.
type Claims struct {
	jwt.RegisteredClaims
	Role           string `json:"role"`
	OrganizationID string `json:"org,omitempty"`
}

// Identity is the decoded caller attached to the request context.
type Identity struct {
	UserID         uuid.UUID
	Role           string
	OrganizationID *uuid.UUID
}

// Tokens signs and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a Tokens with the given signing secret and lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the given user. organizationID is nil for
// superadmins.
func (t *Tokens) Issue(userID uuid.UUID, role string, organizationID *uuid.UUID) (string, error) {
	now := t.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Role: role,
	}
	if organizationID != nil {
		claims.OrganizationID = organizationID.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the decoded identity.
func (t *Tokens) Verify(raw string) (*Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(token *jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Role == "" {
		return nil, ErrInvalidToken
	}

	identity := &Identity{UserID: userID, Role: claims.Role}
	if claims.OrganizationID != "" {
		orgID, err := uuid.Parse(claims.OrganizationID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		identity.OrganizationID = &orgID
	}
	return identity, nil
}
