package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/stash/internal/identity"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newManager(secret, issuer string) *JWTManager {
	m := NewJWTManager(secret, issuer, time.Hour)
	m.now = func() time.Time { return fixedNow }

	return m
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := newManager("0123456789abcdef0123456789abcdef", "stash")

	token, expires, err := m.Generate(&identity.Session{Email: " Ama@X.com", Name: "Ama"})
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(time.Hour), expires)

	session, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, &identity.Session{Email: "ama@x.com", Name: "Ama"}, session)
}

func TestJWTManager_Validate_Rejects(t *testing.T) {
	m := newManager("0123456789abcdef0123456789abcdef", "stash")

	valid, _, err := m.Generate(&identity.Session{Email: "ama@x.com"})
	require.NoError(t, err)

	otherSecret, _, err := newManager("another-secret-another-secret-xx", "stash").Generate(&identity.Session{Email: "ama@x.com"})
	require.NoError(t, err)

	otherIssuer, _, err := newManager("0123456789abcdef0123456789abcdef", "finance").Generate(&identity.Session{Email: "ama@x.com"})
	require.NoError(t, err)

	expired := newManager("0123456789abcdef0123456789abcdef", "stash")
	expired.now = func() time.Time { return fixedNow.Add(2 * time.Hour) }

	type testCase struct {
		name    string
		manager *JWTManager
		token   string
	}

	tests := []testCase{
		{name: "Empty", manager: m, token: ""},
		{name: "Garbage", manager: m, token: "not.a.token"},
		{name: "WrongSecret", manager: m, token: otherSecret},
		{name: "WrongIssuer", manager: m, token: otherIssuer},
		{name: "Expired", manager: expired, token: valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.manager.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestMiddleware(t *testing.T) {
	m := newManager("0123456789abcdef0123456789abcdef", "stash")

	token, _, err := m.Generate(&identity.Session{Email: "ama@x.com", Name: "Ama"})
	require.NoError(t, err)

	var got *identity.Session

	handler := Middleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromContext(r.Context())
	}))

	type testCase struct {
		name       string
		header     string
		wantStatus int
		wantEmail  string
	}

	tests := []testCase{
		{name: "Valid", header: "Bearer " + token, wantStatus: http.StatusOK, wantEmail: "ama@x.com"},
		{name: "LowercaseScheme", header: "bearer " + token, wantStatus: http.StatusOK, wantEmail: "ama@x.com"},
		{name: "Missing", wantStatus: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Token " + token, wantStatus: http.StatusUnauthorized},
		{name: "Invalid", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantEmail == "" {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.wantEmail, got.Email)
		})
	}
}
