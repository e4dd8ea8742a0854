package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Nikolyamba/authsystem/db"
	"github.com/Nikolyamba/authsystem/forms"
	"github.com/Nikolyamba/authsystem/kv"
	"github.com/Nikolyamba/authsystem/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// fakeDB is an in-memory db.Database for service tests
type fakeDB struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by email
}

var _ db.Database = (*fakeDB)(nil)

func newFakeDB() *fakeDB {
	return &fakeDB{users: make(map[string]models.User)}
}

func (f *fakeDB) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[email]
	return ok, nil
}

func (f *fakeDB) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[email]
	if !ok {
		return models.User{}, db.ErrNotFound
	}
	return user, nil
}

func (f *fakeDB) FindByID(_ context.Context, id models.UserID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, db.ErrNotFound
}

func (f *fakeDB) CreateUser(_ context.Context, user db.CreateUser) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Email]; ok {
		return models.User{}, db.ErrDuplicate
	}
	dbuser := models.User{
		ID:         models.UserID(bson.NewObjectID()),
		CreatedAt:  time.Now().Unix(),
		UpdatedAt:  time.Now().Unix(),
		Name:       user.Name,
		Surname:    user.Surname,
		Patronymic: user.Patronymic,
		Email:      user.Email,
		Password:   user.PwdHash,
		IsActive:   true,
	}
	f.users[user.Email] = dbuser
	return dbuser, nil
}

func (f *fakeDB) deactivate(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.users[email]
	user.IsActive = false
	f.users[email] = user
}

func (f *fakeDB) remove(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, email)
}

type authFixture struct {
	auth  *AuthService
	db    *fakeDB
	redis *miniredis.Miniredis
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := kv.NewRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	database := newFakeDB()
	tokens := NewTokenService("test-secret", 15*time.Minute, 30*24*time.Hour)

	return &authFixture{
		auth:  NewAuthService(database, store, tokens),
		db:    database,
		redis: mr,
	}
}

func registerForm(email string) forms.RegisterForm {
	return forms.RegisterForm{
		Name:           "Ivan",
		Surname:        "Petrov",
		Email:          email,
		Password:       "password1",
		RepeatPassword: "password1",
	}
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)
	require.NotEmpty(t, token.RefreshToken)

	_, loginToken, err := fx.auth.Login(ctx, forms.LoginForm{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)

	authed, err := fx.auth.Authenticate(ctx, loginToken.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	_, _, err = fx.auth.Register(ctx, registerForm("a@b.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	fx := newAuthFixture(t)

	form := registerForm("a@b.com")
	form.RepeatPassword = "password2"

	_, _, err := fx.auth.Register(context.Background(), form)
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	_, _, errWrongPassword := fx.auth.Login(ctx, forms.LoginForm{Email: "a@b.com", Password: "wrong-password"})
	_, _, errUnknownEmail := fx.auth.Login(ctx, forms.LoginForm{Email: "nobody@b.com", Password: "password1"})

	assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword, errUnknownEmail)
}

func TestLoginInactiveAccount(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	fx.db.deactivate("a@b.com")

	_, _, err = fx.auth.Login(ctx, forms.LoginForm{Email: "a@b.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInactiveAccount)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	access, err := fx.auth.Refresh(ctx, token.RefreshToken)
	require.NoError(t, err)

	authed, err := fx.auth.Authenticate(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	// no rotation: the same refresh token stays usable
	_, err = fx.auth.Refresh(ctx, token.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, token, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	_, err = fx.auth.Refresh(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRefreshAfterLogoutRevoked(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, token, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	require.NoError(t, fx.auth.Logout(ctx, token.RefreshToken))

	// signature and expiry are still fine, only the store entry is gone
	_, err = fx.auth.Refresh(ctx, token.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshAfterStoreExpiry(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, token, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	fx.redis.FastForward(30*24*time.Hour + time.Second)

	// natural TTL expiry looks exactly like an explicit logout
	_, err = fx.auth.Refresh(ctx, token.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshInvalidToken(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.auth.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshStoreUnavailable(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, token, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	fx.redis.Close()

	_, err = fx.auth.Refresh(ctx, token.RefreshToken)
	assert.ErrorIs(t, err, kv.ErrUnavailable)
	assert.NotErrorIs(t, err, ErrTokenRevoked)
}

func TestLogoutIdempotent(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, token, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	require.NoError(t, fx.auth.Logout(ctx, token.RefreshToken))
	require.NoError(t, fx.auth.Logout(ctx, token.RefreshToken))
}

func TestLogoutUndecodableTokenSucceeds(t *testing.T) {
	fx := newAuthFixture(t)

	assert.NoError(t, fx.auth.Logout(context.Background(), "garbage"))
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, token, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	_, err = fx.auth.Authenticate(ctx, token.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticateExpiredAccessToken(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := kv.NewRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	database := newFakeDB()
	// access tokens issued already expired
	tokens := NewTokenService("test-secret", -time.Minute, 30*24*time.Hour)
	auth := NewAuthService(database, store, tokens)

	ctx := context.Background()
	_, token, err := auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	_, err = auth.Authenticate(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticateDeletedSubject(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, token, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	fx.db.remove("a@b.com")

	_, err = fx.auth.Authenticate(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRevocationEntryWrittenPerLogin(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := fx.auth.Register(ctx, registerForm("a@b.com"))
	require.NoError(t, err)

	_, _, err = fx.auth.Login(ctx, forms.LoginForm{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)
	_, _, err = fx.auth.Login(ctx, forms.LoginForm{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)

	// register + two logins = three live entries under distinct jtis
	assert.Len(t, fx.redis.Keys(), 3)
}
