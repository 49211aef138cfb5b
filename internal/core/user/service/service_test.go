package userapp_test

import (
	"context"
	"testing"
	"time"

	"yatube/internal/adapters/database"
	"yatube/internal/core/post"
	userEntity "yatube/internal/core/user"
	userapp "yatube/internal/core/user/service"
	"yatube/internal/testutil"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*userapp.UserService, *gorm.DB) {
	db := testutil.NewDB(t)
	svc := userapp.NewUserService(
		database.NewUserRepositoryDatabase(db),
		testutil.NewMemorySessions(),
		[]byte("test-secret"),
		time.Hour,
		zaptest.NewLogger(t),
	)
	svc.HashCost = bcrypt.MinCost
	return svc, db
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	u, err := svc.RegisterUser(ctx, "HasNoName", "s3cret-pass", "Leo", "Tolstoy")
	require.NoError(t, err)
	assert.Equal(t, "HasNoName", u.Username)
	assert.Equal(t, "Leo Tolstoy", u.FullName)
	assert.NotEmpty(t, u.ID)

	_, err = svc.RegisterUser(ctx, "HasNoName", "another-pass", "", "")
	assert.ErrorIs(t, err, userEntity.ErrUsernameTaken)

	_, err = svc.RegisterUser(ctx, "bad name!", "s3cret-pass", "", "")
	assert.ErrorIs(t, err, userapp.ErrInvalidUsername)

	_, err = svc.RegisterUser(ctx, "shorty", "short", "", "")
	assert.ErrorIs(t, err, userapp.ErrWeakPassword)
}

func TestLoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	_, err := svc.RegisterUser(ctx, "reader", "s3cret-pass", "", "")
	require.NoError(t, err)

	_, err = svc.LoginUser(ctx, "reader", "wrong-pass")
	assert.ErrorIs(t, err, userEntity.ErrInvalidCredentials)
	_, err = svc.LoginUser(ctx, "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, userEntity.ErrInvalidCredentials)

	res, err := svc.LoginUser(ctx, "reader", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Greater(t, res.ExpiresAt, time.Now().Unix())

	identity, session, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "reader", identity.Username)
	assert.False(t, identity.IsAnonymous())
	require.NotNil(t, session)
	assert.NotEmpty(t, session.ID)

	_, _, err = svc.Authenticate(ctx, res.Token+"tampered")
	assert.ErrorIs(t, err, userapp.ErrInvalidSession)
	_, _, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, userapp.ErrInvalidSession)
}

func TestAuthenticate_RejectsForeignKey(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	_, err := svc.RegisterUser(ctx, "reader", "s3cret-pass", "", "")
	require.NoError(t, err)

	other := userapp.NewUserService(database.NewUserRepositoryDatabase(db), testutil.NewMemorySessions(), []byte("other-secret"), time.Hour, zaptest.NewLogger(t))
	res, err := other.LoginUser(ctx, "reader", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = svc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, userapp.ErrInvalidSession)
}

func TestLogoutRevokesSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	_, err := svc.RegisterUser(ctx, "leaver", "s3cret-pass", "", "")
	require.NoError(t, err)
	res, err := svc.LoginUser(ctx, "leaver", "s3cret-pass")
	require.NoError(t, err)

	_, session, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, session))

	_, _, err = svc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, userapp.ErrInvalidSession)

	assert.NoError(t, svc.Logout(ctx, nil))
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	u, err := svc.RegisterUser(ctx, "author", "s3cret-pass", "", "")
	require.NoError(t, err)
	res, err := svc.LoginUser(ctx, "author", "s3cret-pass")
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, "author")
	require.NoError(t, err)
	require.NoError(t, db.Create(&post.Post{Text: "mine", AuthorID: mustUUID(t, profile.ID)}).Error)

	profile, err = svc.GetProfile(ctx, "author")
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.PostsCount)

	require.NoError(t, svc.DeleteUser(ctx, u.Username))

	var count int64
	require.NoError(t, db.Model(&post.Post{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.GetProfile(ctx, "author")
	assert.ErrorIs(t, err, userEntity.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteUser(ctx, "author"), userEntity.ErrNotFound)

	// the session of a deleted user no longer authenticates
	_, _, err = svc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, userapp.ErrInvalidSession)
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.FromString(s)
	require.NoError(t, err)
	return id
}
