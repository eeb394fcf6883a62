package service

import (
	"context"
	"strings"
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.Register(ctx, RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "hunter2abc", Bio: "hi",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "hunter2abc", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2abc")))

	cases := []struct {
		name string
		in   RegisterInput
		code string
	}{
		{"username taken", RegisterInput{Username: "alice", Email: "other@example.com", Password: "hunter2abc"}, "CONFLICT"},
		{"email taken", RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "hunter2abc"}, "CONFLICT"},
		{"username too short", RegisterInput{Username: "ab", Email: "ab@example.com", Password: "hunter2abc"}, "VALIDATION_ERROR"},
		{"bad email", RegisterInput{Username: "carol", Email: "not-an-email", Password: "hunter2abc"}, "VALIDATION_ERROR"},
		{"weak password", RegisterInput{Username: "carol", Email: "carol@example.com", Password: "short"}, "VALIDATION_ERROR"},
		{"password without digits", RegisterInput{Username: "carol", Email: "carol@example.com", Password: "allletters"}, "VALIDATION_ERROR"},
		{"bio too long", RegisterInput{Username: "carol", Email: "carol@example.com", Password: "hunter2abc", Bio: strings.Repeat("b", 501)}, "VALIDATION_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.users.Register(ctx, tc.in)
			assert.Equal(t, tc.code, appCode(t, err))
		})
	}
}

func TestUserService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.users.Register(ctx, RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "hunter2abc",
	})
	require.NoError(t, err)
	require.Nil(t, registered.LastLogin)

	user, err := env.users.Login(ctx, "alice", "hunter2abc")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	require.NotNil(t, user.LastLogin)

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.users.Login(ctx, "alice", "wrongwrong1")
		assert.Equal(t, "UNAUTHORIZED", appCode(t, err))
		assert.Contains(t, err.Error(), "Invalid username or password")
	})

	t.Run("unknown username reads the same", func(t *testing.T) {
		_, err := env.users.Login(ctx, "nobody", "hunter2abc")
		assert.Equal(t, "UNAUTHORIZED", appCode(t, err))
		assert.Contains(t, err.Error(), "Invalid username or password")
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, env.db.Model(&models.User{}).
			Where("id = ?", registered.ID).UpdateColumn("is_active", false).Error)

		_, err := env.users.Login(ctx, "alice", "hunter2abc")
		assert.Equal(t, "FORBIDDEN", appCode(t, err))
	})
}

func TestUserService_Profile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "alice")

	got, err := env.users.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = env.users.GetProfile(ctx, "missing")
	assert.Equal(t, "NOT_FOUND", appCode(t, err))

	updated, err := env.users.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID, Bio: "new bio"})
	require.NoError(t, err)
	assert.Equal(t, "new bio", updated.Bio)

	// empty bio leaves the profile unchanged
	updated, err = env.users.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, "new bio", updated.Bio)

	_, err = env.users.UpdateProfile(ctx, UpdateProfileInput{
		UserID: user.ID, Bio: strings.Repeat("b", 501),
	})
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
}
