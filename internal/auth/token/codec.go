// Package token signs and verifies the stateless access tokens issued by the
// auth service. A token carries only {sub, exp}.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified content of a token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Reason classifies a decoding failure for logs. Callers must not branch
// on it for anything user-visible.
type Reason string

const (
	ReasonMalformed Reason = "malformed"
	ReasonSignature Reason = "signature"
	ReasonExpired   Reason = "expired"
	ReasonClaims    Reason = "claims"
)

// DecodeError wraps every decoding failure. It matches common.ErrInvalidToken.
type DecodeError struct {
	Reason Reason
	Err    error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("invalid token (%s): %v", e.Reason, e.Err) }

func (e *DecodeError) Is(target error) bool { return target == common.ErrInvalidToken }

func (e *DecodeError) Unwrap() error { return e.Err }

// ReasonOf returns the failure reason of err, or "" when err is not a
// decoding failure.
func ReasonOf(err error) Reason {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Reason
	}
	return ""
}

// Codec mints and decodes tokens with one shared HMAC secret.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec validates the algorithm name (HS256, HS384 or HS512) and
// the secret.
func NewCodec(secret, algorithm string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	if ttl <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("token: unsupported algorithm %q", algorithm)
	}
	return &Codec{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime given to every minted token.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Mint signs {sub: subject, exp: now+ttl}.
func (c *Codec) Mint(subject string) (string, time.Time, error) {
	exp := c.now().Add(c.ttl).Truncate(time.Second)

	tok := jwt.NewWithClaims(c.method, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	s, err := tok.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token: sign: %w", err)
	}
	return s, exp, nil
}

// Decode verifies signature, algorithm and expiry. Every failure is a
// *DecodeError.
func (c *Codec) Decode(raw string) (*Claims, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, &DecodeError{Reason: classify(err), Err: err}
	}

	if claims.Subject == "" {
		return nil, &DecodeError{Reason: ReasonClaims, Err: errors.New("missing subject")}
	}

	return &Claims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func classify(err error) Reason {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	default:
		return ReasonClaims
	}
}
