// Package auth implements bearer-token authentication for the vault.
//
// Tokens are JWTs signed with Ed25519 (EdDSA). The Issuer holds the private
// key and mints tokens at login; the Authenticator holds only the public key
// and verifies inbound tokens. Key provisioning is external; this package
// just consumes a PEM-encoded key pair.
package auth

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/dmitrijs2005/locksmith/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the verified claim set of a token. The registered `sub` claim
// carries the user's email and is the canonical identity.
type Claims struct {
	jwt.RegisteredClaims
}

// Subject returns the identity claim. ok is false when the claim is absent
// or empty; callers must treat that as an unauthenticated request rather
// than an empty identity.
func (c *Claims) Subject() (subject string, ok bool) {
	if c.RegisteredClaims.Subject == "" {
		return "", false
	}
	return c.RegisteredClaims.Subject, true
}

// TokenID returns the unique token identifier (`jti`) used by the
// revocation list.
func (c *Claims) TokenID() (id string, ok bool) {
	if c.RegisteredClaims.ID == "" {
		return "", false
	}
	return c.RegisteredClaims.ID, true
}

// Remaining reports how long the token is still valid. Zero when the token
// carries no expiry.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Time.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Issuer mints signed tokens. It is safe for concurrent use; the private
// key is read-only after construction.
type Issuer struct {
	priv     ed25519.PrivateKey
	validity time.Duration
}

// NewIssuer constructs an Issuer signing with priv; minted tokens expire
// after validity.
func NewIssuer(priv ed25519.PrivateKey, validity time.Duration) *Issuer {
	return &Issuer{priv: priv, validity: validity}
}

// Issue mints a token whose `sub` claim is subject. Every token carries a
// fresh `jti` so it can be individually revoked later.
func (i *Issuer) Issue(subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(i.priv)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Authenticator verifies inbound tokens against the service's public key.
// Verification is purely functional over the token bytes and the key: no
// I/O, no side effects.
type Authenticator struct {
	pub ed25519.PublicKey
}

// NewAuthenticator constructs an Authenticator trusting pub.
func NewAuthenticator(pub ed25519.PublicKey) *Authenticator {
	return &Authenticator{pub: pub}
}

// Verify parses and validates a bearer string. Every failure (malformed
// token, wrong signature, unexpected algorithm, expired claims) maps to
// ErrInvalidToken so callers surface a uniform unauthorized outcome.
func (a *Authenticator) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return a.pub, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
