package http

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/service"
	"github.com/scenictrip/backend/internal/util"
)

type userRepoStub struct {
	seq   int64
	users map[string]*domain.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[string]*domain.User)}
}

func (r *userRepoStub) Create(_ context.Context, username, email string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	r.seq++
	user := &domain.User{
		ID:           r.seq,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		PasswordSalt: passwordSalt,
		Role:         "user",
		CreatedAt:    time.Now().UTC(),
	}
	r.users[email] = user
	return user, nil
}

func (r *userRepoStub) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (r *userRepoStub) FindByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func postJSON(t *testing.T, e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandlerLoginStatusMapping(t *testing.T) {
	e := echo.New()
	auth := service.NewAuthService(newUserRepoStub(), util.NewJWTManager("handler-secret", time.Hour))
	handler := &AuthHandler{auth: auth}

	c, rec := postJSON(t, e, "/api/v1/auth/sign-up", `{"username":"alex","email":"alex@example.com","password":"trustno1pass"}`)
	if err := handler.signUp(c); err != nil {
		t.Fatalf("signUp returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for sign-up, got %d", rec.Code)
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"success", `{"email":"alex@example.com","password":"trustno1pass"}`, http.StatusOK},
		{"unknown email", `{"email":"nobody@example.com","password":"trustno1pass"}`, http.StatusNotFound},
		{"wrong password", `{"email":"alex@example.com","password":"wrongpassword"}`, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		c, rec := postJSON(t, e, "/api/v1/auth/login", tc.body)
		if err := handler.login(c); err != nil {
			t.Fatalf("%s: login returned error: %v", tc.name, err)
		}
		if rec.Code != tc.want {
			t.Fatalf("%s: expected status %d, got %d", tc.name, tc.want, rec.Code)
		}
	}
}
