package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/auth/models"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/httpx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	gotEmail    string
	gotPassword string
	gotFullName *string
	gotHeader   string

	resp   *models.AuthResponse
	claims *models.AuthClaims
	err    error
}

func (f *fakeUsers) Register(ctx context.Context, email, password string, fullName *string) (*models.AuthResponse, error) {
	f.gotEmail, f.gotPassword, f.gotFullName = email, password, fullName
	return f.resp, f.err
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.resp, f.err
}

func (f *fakeUsers) VerifyHeader(ctx context.Context, header string) (*models.AuthClaims, error) {
	f.gotHeader = header
	return f.claims, f.err
}

func newServer(f *fakeUsers) *echo.Echo {
	e := httpx.New(logging.Discard())
	NewHandler(f).Register(e)
	return e
}

func do(e *echo.Echo, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sampleResponse() *models.AuthResponse {
	return &models.AuthResponse{
		User: models.UserView{ID: "u1", Email: "a@example.com", Role: "user", CreatedAt: time.Unix(0, 0).UTC()},
		Token: models.TokenView{AccessToken: "tok", TokenType: "bearer", ExpiresIn: 1800},
	}
}

func TestRegister_Created(t *testing.T) {
	f := &fakeUsers{resp: sampleResponse()}
	rec := do(newServer(f), http.MethodPost, "/register",
		`{"email":"a@example.com","password":"password123","full_name":"Alice"}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "a@example.com", f.gotEmail)
	require.NotNil(t, f.gotFullName)
	assert.Equal(t, "Alice", *f.gotFullName)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	tok := body["token"].(map[string]any)
	assert.Equal(t, "tok", tok["access_token"])
	assert.Equal(t, "bearer", tok["token_type"])
	assert.Equal(t, float64(1800), tok["expires_in"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "u1", user["id"])
	assert.Contains(t, user, "full_name")
}

func TestRegister_ErrorStatuses(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{common.NewValidationError("password", "password must be at least 8 characters"), http.StatusUnprocessableEntity},
		{common.ErrConflict, http.StatusConflict},
	}
	for _, tt := range tests {
		rec := do(newServer(&fakeUsers{err: tt.err}), http.MethodPost, "/auth/register", `{"email":"a@b.c","password":"x"}`, nil)
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
	}

	rec := do(newServer(&fakeUsers{}), http.MethodPost, "/register", `{"email":`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLogin(t *testing.T) {
	f := &fakeUsers{resp: sampleResponse()}
	rec := do(newServer(f), http.MethodPost, "/login", `{"email":"a@example.com","password":"password123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "password123", f.gotPassword)

	rec = do(newServer(&fakeUsers{err: common.ErrUnauthorized}), http.MethodPost, "/login", `{"email":"a@example.com","password":"x"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerify(t *testing.T) {
	f := &fakeUsers{claims: &models.AuthClaims{UserID: "u1", Username: "a@example.com", Email: "a@example.com", Role: "admin"}}
	rec := do(newServer(f), http.MethodGet, "/verify", "", map[string]string{"Authorization": "Bearer tok"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer tok", f.gotHeader)

	var got models.AuthClaims
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, "a@example.com", got.Username)
}

func TestVerify_AllFailuresLookTheSame(t *testing.T) {
	var bodies []string
	for _, hdr := range []string{"", "Basic x", "Bearer bad"} {
		rec := do(newServer(&fakeUsers{err: common.ErrUnauthorized}), http.MethodGet, "/verify", "", map[string]string{"Authorization": hdr})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[1], bodies[2])
}
