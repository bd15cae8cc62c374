package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/brewerybook/internal/apperror"
	"github.com/hongminglow/brewerybook/internal/auth"
	"github.com/hongminglow/brewerybook/internal/models"
	"github.com/hongminglow/brewerybook/internal/storage/memory"
)

type brokenStore struct {
	*memory.Store
	err error
}

func (b brokenStore) CreateUser(context.Context, models.User) (models.User, error) {
	return models.User{}, b.err
}

func (b brokenStore) FindByUsername(context.Context, string) (models.User, error) {
	return models.User{}, b.err
}

type brokenIssuer struct{}

func (brokenIssuer) Issue(string, time.Duration) (string, error) {
	return "", errors.New("signer offline")
}

func newService(t *testing.T) (*Service, *memory.Store, *auth.TokenManager) {
	t.Helper()
	store := memory.NewUserStore()
	hasher, err := auth.NewPasswordHasher(auth.SchemeBcrypt, auth.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	tokens, err := auth.NewTokenManager("k", "HS256", "test")
	require.NoError(t, err)
	return NewService(store, hasher, tokens, auth.DefaultTTL), store, tokens
}

func requireKind(t *testing.T, err error, kind apperror.Kind) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.FromError(err)
	require.Equal(t, kind, appErr.Kind, "error: %v", err)
	return appErr
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	svc, store, _ := newService(t)

	u, err := svc.Register(context.Background(), "  alice ", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEmpty(t, u.ID)

	stored, err := store.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1")))
}

func TestRegister_Duplicate(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "pw2")
	appErr := requireKind(t, err, apperror.DuplicateUsername)
	assert.Equal(t, "Username already exists", appErr.Message)
	assert.Equal(t, 1, store.Len())
}

func TestRegister_MissingFields(t *testing.T) {
	svc, store, _ := newService(t)
	for _, tc := range []struct{ user, pass string }{{"", "pw"}, {"   ", "pw"}, {"alice", ""}} {
		_, err := svc.Register(context.Background(), tc.user, tc.pass)
		requireKind(t, err, apperror.Validation)
	}
	assert.Equal(t, 0, store.Len())
}

func TestRegister_PasswordTooLong(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Register(context.Background(), "alice", strings.Repeat("x", 100))
	requireKind(t, err, apperror.Validation)
}

func TestRegister_StoreFailure(t *testing.T) {
	_, _, tokens := newService(t)
	hasher, err := auth.NewPasswordHasher(auth.SchemeBcrypt, auth.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	svc := NewService(brokenStore{Store: memory.NewUserStore(), err: errors.New("db down")}, hasher, tokens, time.Hour)

	_, err = svc.Register(context.Background(), "alice", "pw")
	appErr := requireKind(t, err, apperror.Internal)
	assert.NotContains(t, appErr.Message, "db down")
}

func TestLogin_Flows(t *testing.T) {
	svc, _, tokens := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "wrong")
	wrongPw := requireKind(t, err, apperror.InvalidCredentials)

	_, err = svc.Login(ctx, "ghost", "pw1")
	unknown := requireKind(t, err, apperror.InvalidCredentials)
	assert.Equal(t, wrongPw.Message, unknown.Message)
	assert.Equal(t, "Invalid credentials", unknown.Message)

	token, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.WithinDuration(t, time.Now().Add(auth.DefaultTTL), claims.ExpiresAt, 2*time.Second)
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Login(context.Background(), "", "")
	requireKind(t, err, apperror.Validation)
}

func TestLogin_StoreFailure(t *testing.T) {
	_, _, tokens := newService(t)
	hasher, err := auth.NewPasswordHasher(auth.SchemeBcrypt, auth.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	svc := NewService(brokenStore{Store: memory.NewUserStore(), err: errors.New("db down")}, hasher, tokens, time.Hour)

	_, err = svc.Login(context.Background(), "alice", "pw")
	requireKind(t, err, apperror.Internal)
}

func TestLogin_IssuerFailure(t *testing.T) {
	store := memory.NewUserStore()
	hasher, err := auth.NewPasswordHasher(auth.SchemeBcrypt, auth.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	svc := NewService(store, hasher, brokenIssuer{}, time.Hour)

	_, err = svc.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "pw")
	requireKind(t, err, apperror.Internal)
}
