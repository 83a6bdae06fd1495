package jwtx

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer signs session claims.
type Signer interface {
	KID() string
	Sign(SessionClaims) (string, error)
}

// Verifier parses and validates a session token.
type Verifier interface {
	Verify(token string) (SessionClaims, error)
}

// EdDSAKey is an Ed25519 keypair usable as both Signer and Verifier.
type EdDSAKey struct {
	kid string
	key ed25519.PrivateKey
	pub ed25519.PublicKey

	issuer   string
	audience []string
	leeway   time.Duration
	now      func() time.Time
}

// NewEdDSAKey loads a PKCS8 PEM Ed25519 private key.
func NewEdDSAKey(kid string, pemKey []byte, issuer string, audience []string) (*EdDSAKey, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM for Ed25519 key")
	}
	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("jwtx: expected PRIVATE KEY, got %q", block.Type)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse PKCS8: %w", err)
	}
	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("jwtx: not an Ed25519 private key")
	}

	return &EdDSAKey{
		kid:      kid,
		key:      key,
		pub:      key.Public().(ed25519.PublicKey),
		issuer:   issuer,
		audience: audience,
		leeway:   5 * time.Second,
		now:      time.Now,
	}, nil
}

func (k *EdDSAKey) KID() string { return k.kid }

// Sign encodes claims as a compact JWS with the kid header set.
func (k *EdDSAKey) Sign(claims SessionClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = k.kid
	return t.SignedString(k.key)
}

// Verify checks the signature, issuer, audience and lifetime of token.
func (k *EdDSAKey) Verify(token string) (SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims SessionClaims
	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if kid, _ := t.Header["kid"].(string); kid != k.kid {
			return nil, fmt.Errorf("jwtx: unknown kid %q", kid)
		}
		return k.pub, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return SessionClaims{}, ErrMalformed
	case err != nil:
		return SessionClaims{}, fmt.Errorf("%w: %v", ErrInvalidSig, err)
	}

	if err := claims.ValidateIssuer(k.issuer); err != nil {
		return SessionClaims{}, err
	}
	if err := claims.ValidateAudience(k.audience); err != nil {
		return SessionClaims{}, err
	}
	if err := claims.ValidateTime(k.now().UTC(), k.leeway); err != nil {
		return SessionClaims{}, err
	}
	if claims.SID == "" {
		return SessionClaims{}, ErrNoSession
	}
	return claims, nil
}
