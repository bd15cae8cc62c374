package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// Hash schemes accepted by NewPasswordHasher.
const (
	SchemeBcrypt = "bcrypt"
	SchemePBKDF2 = "pbkdf2_sha256"
)

const (
	pbkdf2Prefix            = SchemePBKDF2 + "$"
	defaultPBKDF2Iterations = 600000
	pbkdf2KeyLen            = sha256.Size
	pbkdf2SaltLen           = 16
)

var (
	ErrUnsupportedScheme = errors.New("unsupported password hash scheme")
	ErrPasswordTooLong   = errors.New("password exceeds 72 bytes")
)

// PasswordHasher produces salted, self-describing password hashes and
// verifies plaintexts against hashes in any of the formats it understands:
// bcrypt ($2a$, $2b$, $2y$), Django-style pbkdf2_sha256 and sha-crypt ($5$, $6$).
type PasswordHasher struct {
	scheme           string
	bcryptCost       int
	pbkdf2Iterations int
}

// HasherOption tunes a PasswordHasher.
type HasherOption func(*PasswordHasher)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) HasherOption {
	return func(h *PasswordHasher) { h.bcryptCost = cost }
}

// WithPBKDF2Iterations overrides the pbkdf2 work factor for new hashes.
func WithPBKDF2Iterations(n int) HasherOption {
	return func(h *PasswordHasher) { h.pbkdf2Iterations = n }
}

// NewPasswordHasher returns a hasher that writes new hashes with scheme.
func NewPasswordHasher(scheme string, opts ...HasherOption) (*PasswordHasher, error) {
	h := &PasswordHasher{
		scheme:           scheme,
		bcryptCost:       bcrypt.DefaultCost,
		pbkdf2Iterations: defaultPBKDF2Iterations,
	}
	for _, opt := range opts {
		opt(h)
	}
	switch scheme {
	case SchemeBcrypt:
		if h.bcryptCost < bcrypt.MinCost || h.bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range [%d,%d]", h.bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}
	case SchemePBKDF2:
		if h.pbkdf2Iterations <= 0 {
			return nil, fmt.Errorf("pbkdf2 iterations must be positive, got %d", h.pbkdf2Iterations)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	return h, nil
}

// Hash returns a freshly salted hash of plaintext.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	switch h.scheme {
	case SchemePBKDF2:
		return h.hashPBKDF2(plaintext)
	default:
		hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.bcryptCost)
		if err != nil {
			if errors.Is(err, bcrypt.ErrPasswordTooLong) {
				return "", ErrPasswordTooLong
			}
			return "", err
		}
		return string(hash), nil
	}
}

// Verify reports whether plaintext matches encoded. Unknown formats never match.
func (h *PasswordHasher) Verify(plaintext, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)) == nil
	case strings.HasPrefix(encoded, pbkdf2Prefix):
		return verifyPBKDF2(plaintext, encoded)
	case strings.HasPrefix(encoded, sha512_crypt.MagicPrefix):
		return sha512_crypt.New().Verify(encoded, []byte(plaintext)) == nil
	case strings.HasPrefix(encoded, sha256_crypt.MagicPrefix):
		return sha256_crypt.New().Verify(encoded, []byte(plaintext)) == nil
	default:
		return false
	}
}

func (h *PasswordHasher) hashPBKDF2(plaintext string) (string, error) {
	raw := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	salt := base64.RawURLEncoding.EncodeToString(raw)
	key := pbkdf2.Key([]byte(plaintext), []byte(salt), h.pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return fmt.Sprintf("%s%d$%s$%s", pbkdf2Prefix, h.pbkdf2Iterations, salt, base64.StdEncoding.EncodeToString(key)), nil
}

// verifyPBKDF2 understands pbkdf2_sha256$<iterations>$<salt>$<base64 key>.
func verifyPBKDF2(plaintext, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 {
		return false
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(plaintext), []byte(parts[2]), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
