package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenviki-prog/Cooking-Recipes/pkg/helpers"
)

func newUserFixture() (*UserService, *fakeUserRepo, *memSessionStore, *fakeAvatarStorage) {
	users := newFakeUserRepo()
	sessions := newMemSessionStore()
	avatars := &fakeAvatarStorage{}
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	svc := NewUserService(users, sessions, jwt, avatars, nil, nil, false)
	return svc, users, sessions, avatars
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, users, _, _ := newUserFixture()
		u, err := svc.Register(ctx, "olena", "secret123", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "olena", u.Username)
		assert.True(t, helpers.CompareHashAndPassword(u.PasswordHash, "secret123"))
		assert.Len(t, users.users, 1)
	})

	t.Run("password mismatch creates no user", func(t *testing.T) {
		svc, users, _, _ := newUserFixture()
		_, err := svc.Register(ctx, "olena", "secret123", "secret124")
		assert.ErrorIs(t, err, ErrPasswordMismatch)
		assert.Empty(t, users.users)
	})

	t.Run("too short password creates no user", func(t *testing.T) {
		svc, users, _, _ := newUserFixture()
		_, err := svc.Register(ctx, "olena", "12345", "12345")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
		assert.Empty(t, users.users)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc, users, _, _ := newUserFixture()
		_, err := svc.Register(ctx, "olena", "secret123", "secret123")
		require.NoError(t, err)
		_, err = svc.Register(ctx, "olena", "another1", "another1")
		assert.ErrorIs(t, err, ErrUsernameTaken)
		assert.Len(t, users.users, 1)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions, _ := newUserFixture()
	u, err := svc.Register(ctx, "olena", "secret123", "secret123")
	require.NoError(t, err)

	t.Run("success issues tokens bound to a live session", func(t *testing.T) {
		got, pair, err := svc.Login(ctx, "olena", "secret123")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID)

		sess, err := sessions.Get(ctx, claims.SessionID)
		require.NoError(t, err)
		assert.Equal(t, u.ID, sess.UserID)
		assert.Equal(t, "olena", sess.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "olena", "wrong-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_Refresh(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions, _ := newUserFixture()
	_, err := svc.Register(ctx, "olena", "secret123", "secret123")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "olena", "secret123")
	require.NoError(t, err)

	oldClaims, err := svc.JWT.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	newPair, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newPair.AccessToken)

	// The old session is revoked during rotation.
	_, err = sessions.Get(ctx, oldClaims.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	newClaims, err := svc.JWT.ParseAccessToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.NotEqual(t, oldClaims.SessionID, newClaims.SessionID)
	_, err = sessions.Get(ctx, newClaims.SessionID)
	assert.NoError(t, err)

	t.Run("replayed refresh token is rejected", func(t *testing.T) {
		_, err := svc.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, newPair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions, _ := newUserFixture()
	_, err := svc.Register(ctx, "olena", "secret123", "secret123")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "olena", "secret123")
	require.NoError(t, err)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.SessionID))
	_, err = sessions.Get(ctx, claims.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*UserService, *memSessionStore, *fakeAvatarStorage, string, string) {
		t.Helper()
		svc, _, sessions, avatars := newUserFixture()
		u, err := svc.Register(ctx, "olena", "secret123", "secret123")
		require.NoError(t, err)
		sid, err := sessions.Create(ctx, u.ID, u.Username)
		require.NoError(t, err)
		return svc, sessions, avatars, u.ID, sid
	}

	t.Run("edits fields", func(t *testing.T) {
		svc, _, _, uid, sid := setup(t)
		u, err := svc.UpdateProfile(ctx, sid, uid, UpdateProfileInput{
			Username: "olena",
			Email:    "olena@example.com",
			Goals:    "навчитися готувати",
		})
		require.NoError(t, err)
		assert.Equal(t, "olena@example.com", u.Email)
		assert.Equal(t, "навчитися готувати", u.Goals)
	})

	t.Run("rename updates the live session", func(t *testing.T) {
		svc, sessions, _, uid, sid := setup(t)
		u, err := svc.UpdateProfile(ctx, sid, uid, UpdateProfileInput{Username: "olenka"})
		require.NoError(t, err)
		assert.Equal(t, "olenka", u.Username)

		sess, err := sessions.Get(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, "olenka", sess.Username)

		_, err = svc.Authenticate(ctx, "olenka", "secret123")
		assert.NoError(t, err)
	})

	t.Run("rename to a taken username is rejected", func(t *testing.T) {
		svc, _, _, uid, sid := setup(t)
		_, err := svc.Register(ctx, "taras", "secret123", "secret123")
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, sid, uid, UpdateProfileInput{Username: "taras"})
		assert.ErrorIs(t, err, ErrUsernameTaken)

		u, err := svc.GetProfile(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "olena", u.Username)
	})

	t.Run("avatar upload stores the file and sets the url", func(t *testing.T) {
		svc, _, avatars, uid, sid := setup(t)
		u, err := svc.UpdateProfile(ctx, sid, uid, UpdateProfileInput{
			Username: "olena",
			Avatar: &AvatarUpload{
				Reader:      strings.NewReader("png-bytes"),
				Filename:    "me.PNG",
				ContentType: "image/png",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, avatars.saved)
		assert.True(t, strings.HasPrefix(u.AvatarURL, "/static/avatars/"+uid+"_"))
		assert.True(t, strings.HasSuffix(u.AvatarURL, ".png"))
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*UserService, string) {
		t.Helper()
		svc, _, _, _ := newUserFixture()
		u, err := svc.Register(ctx, "olena", "secret123", "secret123")
		require.NoError(t, err)
		return svc, u.ID
	}

	t.Run("success", func(t *testing.T) {
		svc, uid := setup(t)
		require.NoError(t, svc.ChangePassword(ctx, uid, "secret123", "newpass456", "newpass456"))

		_, err := svc.Authenticate(ctx, "olena", "newpass456")
		assert.NoError(t, err)
		_, err = svc.Authenticate(ctx, "olena", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, uid := setup(t)
		err := svc.ChangePassword(ctx, uid, "not-it", "newpass456", "newpass456")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		svc, uid := setup(t)
		err := svc.ChangePassword(ctx, uid, "secret123", "newpass456", "newpass457")
		assert.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("too short", func(t *testing.T) {
		svc, uid := setup(t)
		err := svc.ChangePassword(ctx, uid, "secret123", "short", "short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)

		_, err = svc.Authenticate(ctx, "olena", "secret123")
		assert.NoError(t, err)
	})
}
