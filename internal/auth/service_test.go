package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careplus/pharmacy-api/internal/kvstore"
)

func newTestService() *Service {
	store := kvstore.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, log, "test-secret", time.Hour)
}

func TestLogin_FabricatesUserFromEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, token, err := svc.Login(ctx, "sara@example.com", "anything-at-all")
	require.NoError(t, err)
	assert.Equal(t, "sara", user.FirstName)
	assert.Equal(t, "sara@example.com", user.Email)
	assert.NotEmpty(t, token)

	stored, err := svc.CurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, stored.Email)
}

func TestLogin_RequiresNonEmptyPair(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, _, err = svc.Login(ctx, "a@b.co", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestRegister(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, Registration{
		Email: "omar@example.com", FirstName: "Omar", LastName: "H", Phone: "01234567890",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Omar", user.FirstName)
	assert.Equal(t, "01234567890", user.Phone)
}

func TestUpdateProfile_MergesPatch(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	user, _, err := svc.Login(ctx, "sara@example.com", "pw")
	require.NoError(t, err)

	last := "Mahmoud"
	phone := "01555555555"
	updated, err := svc.UpdateProfile(ctx, user.ID, ProfilePatch{LastName: &last, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "sara", updated.FirstName, "untouched fields survive")
	assert.Equal(t, "Mahmoud", updated.LastName)
	assert.Equal(t, "01555555555", updated.Phone)
}

func TestUpdateProfile_NoUser(t *testing.T) {
	svc := newTestService()
	name := "x"
	_, err := svc.UpdateProfile(context.Background(), 42, ProfilePatch{FirstName: &name})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLogout_DestroysUser(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	user, _, err := svc.Login(ctx, "sara@example.com", "pw")
	require.NoError(t, err)

	svc.Logout(ctx, user.ID)
	_, err = svc.CurrentUser(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
