package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// dummyHandler is a placeholder that records if it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

func TestBearerAuth(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := issuedAt
	clock := func() time.Time { return now }

	secret := []byte("test-secret")
	iss := token.NewIssuer(secret, 7*24*time.Hour, token.WithClock(clock))
	valid, _, err := iss.Issue("alice")
	require.NoError(t, err)

	foreign, _, err := token.NewIssuer([]byte("other"), time.Hour, token.WithClock(clock)).Issue("alice")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		advance    time.Duration
		wantCode   int
		wantBody   string
		wantUserID string
	}{
		{name: "valid token", header: "Bearer " + valid, wantCode: http.StatusOK, wantUserID: "alice"},
		{name: "lower-case scheme", header: "bearer " + valid, wantCode: http.StatusOK, wantUserID: "alice"},
		{name: "one second before expiry", header: "Bearer " + valid, advance: 7*24*time.Hour - time.Second, wantCode: http.StatusOK, wantUserID: "alice"},
		{name: "no header", header: "", wantCode: http.StatusUnauthorized, wantBody: `{"message":"No token provided"}`},
		{name: "empty bearer", header: "Bearer ", wantCode: http.StatusUnauthorized, wantBody: `{"message":"No token provided"}`},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantCode: http.StatusUnauthorized, wantBody: `{"message":"Invalid token"}`},
		{name: "garbage", header: "Bearer not.a.jwt", wantCode: http.StatusUnauthorized, wantBody: `{"message":"Invalid token"}`},
		{name: "foreign signature", header: "Bearer " + foreign, wantCode: http.StatusUnauthorized, wantBody: `{"message":"Invalid token"}`},
		{name: "expired", header: "Bearer " + valid, advance: 7*24*time.Hour + time.Second, wantCode: http.StatusUnauthorized, wantBody: `{"message":"Token expired"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now = issuedAt.Add(tt.advance)

			dummy := &dummyHandler{}
			h := BearerAuth(iss, zap.NewNop())(dummy)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/vitals", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				require.True(t, dummy.called, "expected next handler to be called")
				assert.Equal(t, tt.wantUserID, GetUserIDFromContext(dummy.ctx))
				return
			}
			assert.False(t, dummy.called, "next handler must not run without a valid token")
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "  Bearer   abc  ", want: "abc"},
		{header: "Bearer", wantErr: token.ErrMissingToken},
		{header: "", wantErr: token.ErrMissingToken},
		{header: "abc", wantErr: token.ErrInvalidToken},
		{header: "Token abc", wantErr: token.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := bearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	// нет значения
	empty := GetUserIDFromContext(context.Background())
	if empty != "" {
		t.Errorf("expected empty string for missing user, got '%s'", empty)
	}
	// есть значение
	val := GetUserIDFromContext(WithUserID(context.Background(), "bob"))
	if val != "bob" {
		t.Errorf("expected 'bob', got '%s'", val)
	}
}
