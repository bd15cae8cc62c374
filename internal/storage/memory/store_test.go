package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/brewerybook/internal/models"
	"github.com/hongminglow/brewerybook/internal/storage"
)

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()

	created, err := s.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byName, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created, byName)

	byID, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)
}

func TestCreateUser_DuplicateKeepsFirstRecord(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()

	first, err := s.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "first"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "second"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	got, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.PasswordHash, got.PasswordHash)
	assert.Equal(t, 1, s.Len())
}

func TestFind_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()

	_, err := s.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()

	u, err := s.CreateUser(ctx, models.User{Username: "bob", PasswordHash: "h"})
	require.NoError(t, err)

	s.Delete(u.ID)

	_, err = s.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreateUser_ConcurrentSameUsername(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.CreateUser(ctx, models.User{Username: "race", PasswordHash: fmt.Sprintf("h%d", i)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case err == storage.ErrAlreadyExists:
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
	assert.Equal(t, 1, s.Len())
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewUserStore().CreateUser(ctx, models.User{Username: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
