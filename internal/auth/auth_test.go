package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-system/internal/domain"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byUID   map[string]*domain.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.NotFound("user", email)
}

func (f *fakeUserRepo) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	if u, ok := f.byUID[uid]; ok {
		return u, nil
	}
	return nil, domain.NotFound("user", uid)
}

func testService(ttl time.Duration) (AuthServiceInterface, *SessionStore) {
	u := &domain.User{
		UID:          "uid-1",
		Email:        "op@elcobre.cl",
		Name:         "María Rojas",
		Role:         "operador",
		PasswordHash: HashPassword("hunter2"),
	}
	repo := &fakeUserRepo{
		byEmail: map[string]*domain.User{u.Email: u},
		byUID:   map[string]*domain.User{u.UID: u},
	}
	store := NewSessionStore(ttl)
	return NewAuthService(repo, store), store
}

func TestLogin(t *testing.T) {
	svc, _ := testService(time.Hour)

	sess, err := svc.Login(context.Background(), "op@elcobre.cl", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "operador", sess.Role)
	assert.NotEmpty(t, sess.Token)

	got, ok := svc.Authenticate(sess.Token)
	require.True(t, ok)
	assert.Equal(t, "uid-1", got.UID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := testService(time.Hour)

	var verr *domain.ValidationError
	_, err := svc.Login(context.Background(), "op@elcobre.cl", "wrong")
	require.ErrorAs(t, err, &verr)

	// unknown email reports the same validation error, not a not-found
	_, err = svc.Login(context.Background(), "nobody@elcobre.cl", "hunter2")
	require.ErrorAs(t, err, &verr)
}

func TestExchangeToken(t *testing.T) {
	svc, _ := testService(time.Hour)

	sess, err := svc.ExchangeToken(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "María Rojas", sess.Name)

	var nf *domain.NotFoundError
	_, err = svc.ExchangeToken(context.Background(), "uid-unknown")
	require.ErrorAs(t, err, &nf)
}

func TestLogout(t *testing.T) {
	svc, _ := testService(time.Hour)
	sess, err := svc.Login(context.Background(), "op@elcobre.cl", "hunter2")
	require.NoError(t, err)

	svc.Logout(sess.Token)
	_, ok := svc.Authenticate(sess.Token)
	assert.False(t, ok)
}

func TestSessionExpiry(t *testing.T) {
	store := NewSessionStore(time.Minute)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	sess := store.Create(&domain.User{UID: "uid-1", Role: "operador"})
	_, ok := store.Get(sess.Token)
	require.True(t, ok)

	store.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok = store.Get(sess.Token)
	assert.False(t, ok)
}
