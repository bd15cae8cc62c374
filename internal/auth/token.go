package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of every token issued at login. It is not configurable.
const DefaultTTL = time.Hour

// Verification failures, checked in this order: structure, signature, expiry.
var (
	ErrMalformed    = errors.New("token is malformed")
	ErrBadSignature = errors.New("token signature is invalid")
	ErrExpired      = errors.New("token has expired")
)

// TokenClaims is what a verified token asserts.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenManager issues and verifies HMAC-signed JWTs.
type TokenManager struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	issuer string
	now    func() time.Time
}

// TokenOption tunes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenManager) { t.now = now }
}

// NewTokenManager creates a manager with the provided secret, HMAC algorithm
// (HS256, HS384 or HS512) and issuer.
func NewTokenManager(secret, algorithm, issuer string, opts ...TokenOption) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	method, err := hmacMethod(algorithm)
	if err != nil {
		return nil, err
	}
	t := &TokenManager{
		secret: []byte(secret),
		method: method,
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func hmacMethod(algorithm string) (*jwt.SigningMethodHMAC, error) {
	switch strings.ToUpper(strings.TrimSpace(algorithm)) {
	case "", jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
}

// Algorithm reports the configured JWS algorithm name.
func (t *TokenManager) Algorithm() string {
	return t.method.Alg()
}

// Issue signs a token for subjectID that expires ttl from now.
func (t *TokenManager) Issue(subjectID string, ttl time.Duration) (string, error) {
	if subjectID == "" {
		return "", errors.New("token subject is empty")
	}
	now := t.now()
	claims := jwt.RegisteredClaims{
		Issuer:    t.issuer,
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(ttl))),
	}
	return jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
}

// Verify checks structure, then signature, then expiry, and only then trusts
// the decoded claims.
func (t *TokenManager) Verify(tokenString string) (TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) && t.signatureMismatch(tokenString) {
			return TokenClaims{}, fmt.Errorf("%w: %v", ErrBadSignature, err)
		}
		return TokenClaims{}, classify(err)
	}
	if claims.Subject == "" {
		return TokenClaims{}, fmt.Errorf("%w: missing subject", ErrMalformed)
	}
	return TokenClaims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

// signatureMismatch reports whether a token the parser could not decode is
// still a three-part JWS with a readable header whose signature does not
// match. The payload is never decoded here.
func (t *TokenManager) signatureMismatch(tokenString string) bool {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return false
	}
	rawHeader, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	var header map[string]any
	if err := json.Unmarshal(rawHeader, &header); err != nil {
		return false
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	return t.method.Verify(parts[0]+"."+parts[1], sig, t.secret) != nil
}

// ceilSecond rounds up to a whole second, since exp is encoded in seconds.
func ceilSecond(ts time.Time) time.Time {
	truncated := ts.Truncate(time.Second)
	if truncated.Before(ts) {
		return truncated.Add(time.Second)
	}
	return truncated
}
