package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diagnosis/visitor-portal/internal/domain"
	"github.com/diagnosis/visitor-portal/pkg/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	m := NewManager(store, Options{
		TTL:         7 * 24 * time.Hour,
		SignUpTTL:   time.Hour,
		RememberTTL: 30 * 24 * time.Hour,
	})
	return m, store
}

// carry copies the cookies set on rec into a new request.
func carry(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		req.AddCookie(c)
	}
	return req
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func token(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestLoad_NewSessionWithoutCookie(t *testing.T) {
	m, _ := newManager()

	s, err := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Authenticated())
}

func TestSaveLoad_RoundTripsTokenAndFlashes(t *testing.T) {
	m, _ := newManager()
	ctx := context.Background()

	s, _ := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	s.Token = "opaque-token"
	s.AddFlash(FlashSuccess, "Login successful")

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(ctx, rec, s))

	c := cookie(rec, "portal_session")
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, s.ID, c.Value)
	assert.Greater(t, c.MaxAge, 0)

	loaded, err := m.Load(carry(rec))
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.True(t, loaded.Authenticated())
	assert.Equal(t, []Flash{{Kind: FlashSuccess, Message: "Login successful"}}, loaded.PopFlashes())
	assert.Empty(t, loaded.Flashes)
}

func TestLoad_UnknownIDStartsFresh(t *testing.T) {
	m, _ := newManager()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: "gone"})

	s, err := m.Load(req)
	require.NoError(t, err)
	assert.NotEqual(t, "gone", s.ID)
	assert.False(t, s.Authenticated())
}

func TestSave_TTLFollowsTokenExpiry(t *testing.T) {
	m, _ := newManager()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s := &Session{ID: "s1", Token: token(t, now.Add(2*time.Hour))}
	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(context.Background(), rec, s))

	c := cookie(rec, "portal_session")
	require.NotNil(t, c)
	assert.Equal(t, int((2 * time.Hour).Seconds()), c.MaxAge)
}

func TestSave_ExpiredTokenIsDropped(t *testing.T) {
	m, _ := newManager()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s := &Session{ID: "s1", Token: token(t, now.Add(-time.Minute))}
	require.NoError(t, m.Save(context.Background(), httptest.NewRecorder(), s))
	assert.False(t, s.Authenticated())
}

func TestPendingSignUp_Lifecycle(t *testing.T) {
	m, store := newManager()
	ctx := context.Background()
	p := domain.PendingSignUp{FullName: "Ada", OfficialMail: "ada@corp.test", PhoneNumber: "0800", Password: "Abcdefg1!"}

	none, err := m.PendingSignUp(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Nil(t, none)

	rec := httptest.NewRecorder()
	require.NoError(t, m.StashSignUp(ctx, rec, p))

	c := cookie(rec, "portal_signup")
	require.NotNil(t, c)
	assert.NotContains(t, c.Value, "Abcdefg1!")
	assert.True(t, c.Expires.IsZero())
	assert.Zero(t, c.MaxAge)

	req := carry(rec)
	got, err := m.PendingSignUp(req)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p, *got)

	cleared := httptest.NewRecorder()
	require.NoError(t, m.ClearSignUp(cleared, req))
	assert.Equal(t, -1, cookie(cleared, "portal_signup").MaxAge)

	_, err = store.Get(ctx, signUpKey(c.Value))
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := m.PendingSignUp(req)
	require.NoError(t, err)
	assert.Nil(t, after)
}

func TestRememberEmail(t *testing.T) {
	m, _ := newManager()
	assert.Empty(t, m.RememberedEmail(httptest.NewRequest(http.MethodGet, "/", nil)))

	rec := httptest.NewRecorder()
	m.RememberEmail(rec, "ada@corp.test")

	c := cookie(rec, "portal_email")
	require.NotNil(t, c)
	assert.Equal(t, int((30 * 24 * time.Hour).Seconds()), c.MaxAge)
	assert.Equal(t, "ada@corp.test", m.RememberedEmail(carry(rec)))
}

func TestRenew_DropsOldID(t *testing.T) {
	m, store := newManager()
	ctx := context.Background()

	s, _ := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	s.AddFlash(FlashSuccess, "hi")
	require.NoError(t, m.Save(ctx, httptest.NewRecorder(), s))
	old := s.ID
	_, err := store.Get(ctx, sessionKey(old))
	require.NoError(t, err)

	require.NoError(t, m.Renew(ctx, s))
	assert.NotEqual(t, old, s.ID)
	_, err = store.Get(ctx, sessionKey(old))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSave_SkipsEmptyNewSession(t *testing.T) {
	m, store := newManager()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		s, err := m.Load(httptest.NewRequest(http.MethodGet, "/login", nil))
		require.NoError(t, err)
		s.PopFlashes()

		rec := httptest.NewRecorder()
		require.NoError(t, m.Save(ctx, rec, s))
		assert.Nil(t, cookie(rec, "portal_session"))
	}
	assert.Empty(t, store.entries)
}

func TestSave_StoredSessionIsRewrittenWhenEmptied(t *testing.T) {
	m, store := newManager()
	ctx := context.Background()

	s, _ := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	s.AddFlash(FlashError, "Please login to access the dashboard")
	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(ctx, rec, s))
	require.Len(t, store.entries, 1)

	loaded, err := m.Load(carry(rec))
	require.NoError(t, err)
	loaded.PopFlashes()
	require.NoError(t, m.Save(ctx, httptest.NewRecorder(), loaded))

	again, err := m.Load(carry(rec))
	require.NoError(t, err)
	assert.Equal(t, s.ID, again.ID)
	assert.Empty(t, again.Flashes)
}

func TestSave_ExpiredTokenOnlySessionIsNotStored(t *testing.T) {
	m, store := newManager()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s := &Session{ID: "s1", Token: token(t, now)}
	require.NoError(t, m.Save(context.Background(), httptest.NewRecorder(), s))
	assert.False(t, s.Authenticated())
	assert.Empty(t, store.entries)
}
