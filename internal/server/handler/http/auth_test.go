package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/VitalsKeeper/internal/models"
	"github.com/atinyakov/VitalsKeeper/internal/service"
	"github.com/sebdah/goldie/v2"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	user        models.UserSummary
	token       string
	registerErr error
	loginErr    error

	gotName, gotEmail, gotPassword string
}

func (f *fakeAuthService) Register(_ context.Context, name, email, password string) (models.UserSummary, error) {
	f.gotName, f.gotEmail, f.gotPassword = name, email, password
	return f.user, f.registerErr
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (string, models.UserSummary, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.loginErr != nil {
		return "", models.UserSummary{}, f.loginErr
	}
	return f.token, f.user, nil
}

var jayanth = models.UserSummary{ID: "u-1", Name: "Jayanth", Email: "jayanth@example.com"}

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func readBody(t *testing.T, res *http.Response) []byte {
	t.Helper()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return b
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		golden         string
		expectedSubstr string
	}{
		{
			name:         "created",
			body:         `{"name":"Jayanth","email":"jayanth@example.com","password":"123456"}`,
			service:      &fakeAuthService{user: jayanth},
			expectedCode: http.StatusCreated,
			golden:       "register_created",
		},
		{
			name:         "duplicate email",
			body:         `{"name":"Jayanth","email":"jayanth@example.com","password":"123456"}`,
			service:      &fakeAuthService{registerErr: service.ErrDuplicateIdentity},
			expectedCode: http.StatusBadRequest,
			golden:       "register_duplicate",
		},
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "Invalid request body",
		},
		{
			name:           "missing fields",
			body:           `{"email":"a@example.com"}`,
			service:        &fakeAuthService{registerErr: service.ErrValidation},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "required",
		},
		{
			name:           "password too long",
			body:           `{"name":"A","email":"a@example.com","password":"x"}`,
			service:        &fakeAuthService{registerErr: service.ErrPasswordTooLong},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "Password must be at most 72 bytes",
		},
		{
			name:         "storage failure",
			body:         `{"name":"A","email":"a@example.com","password":"pw"}`,
			service:      &fakeAuthService{registerErr: errors.Join(service.ErrStorage, errors.New("pq: connection refused"))},
			expectedCode: http.StatusInternalServerError,
			golden:       "server_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service}
			h.Register(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %q", ct)
			}

			body := readBody(t, res)
			if tt.golden != "" {
				newGoldie(t).Assert(t, tt.golden, body)
			}
			if !bytes.Contains(body, []byte(tt.expectedSubstr)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, body)
			}
		})
	}
}

func TestAuthHandler_RegisterPassesFields(t *testing.T) {
	svc := &fakeAuthService{user: jayanth}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		bytes.NewBufferString(`{"name":"Jayanth","email":"jayanth@example.com","password":"123456"}`))

	(&AuthHandler{AuthService: svc}).Register(rec, req)

	if svc.gotName != "Jayanth" || svc.gotEmail != "jayanth@example.com" || svc.gotPassword != "123456" {
		t.Errorf("service got (%q, %q, %q)", svc.gotName, svc.gotEmail, svc.gotPassword)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("123456")) {
		t.Error("response must not echo the password")
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeAuthService
		expectedCode int
		golden       string
	}{
		{
			name:         "success",
			body:         `{"email":"jayanth@example.com","password":"123456"}`,
			service:      &fakeAuthService{user: jayanth, token: "signed-token"},
			expectedCode: http.StatusOK,
			golden:       "login_success",
		},
		{
			name:         "wrong password",
			body:         `{"email":"jayanth@example.com","password":"nope"}`,
			service:      &fakeAuthService{loginErr: service.ErrInvalidCredentials},
			expectedCode: http.StatusBadRequest,
			golden:       "login_invalid",
		},
		{
			name:         "unknown email",
			body:         `{"email":"ghost@example.com","password":"123456"}`,
			service:      &fakeAuthService{loginErr: service.ErrInvalidCredentials},
			expectedCode: http.StatusBadRequest,
			golden:       "login_invalid",
		},
		{
			name:         "storage failure",
			body:         `{"email":"jayanth@example.com","password":"123456"}`,
			service:      &fakeAuthService{loginErr: errors.New("issue token: boom")},
			expectedCode: http.StatusInternalServerError,
			golden:       "server_error",
		},
		{
			name:         "invalid JSON",
			body:         `{`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(tt.body))

			h := &AuthHandler{AuthService: tt.service}
			h.Login(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("%s: expected status %d, got %d", tt.name, tt.expectedCode, res.StatusCode)
			}
			if tt.golden != "" {
				newGoldie(t).Assert(t, tt.golden, readBody(t, res))
			}
		})
	}
}
