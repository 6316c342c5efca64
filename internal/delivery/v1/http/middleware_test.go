package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rkhn-textiles/pos-backend/internal/cfg"
	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...any)            {}
func (noopLogger) Infof(format string, args ...any)             {}
func (noopLogger) Warnf(format string, args ...any)             {}
func (noopLogger) Errorf(err error, format string, args ...any) {}

func signToken(t *testing.T, secret, email string) string {
	t.Helper()

	claims := UserClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func authRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return &resp
}

func TestAuthMiddlewareRoles(t *testing.T) {
	authCfg := &cfg.AuthCfg{JWTSecret: "secret", AdminEmail: "admin@shop.example"}
	m := NewAuthMiddleware(authCfg, noopLogger{})

	var session *domain.Session
	handler := m.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ = domain.SessionFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authRequest(signToken(t, "secret", "Admin@Shop.example")))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, session)
	assert.Equal(t, domain.RoleAdmin, session.Role)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authRequest(signToken(t, "secret", "seller@shop.example")))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, session)
	assert.Equal(t, domain.RoleSeller, session.Role)
	assert.Equal(t, "seller@shop.example", session.Email)
}

// Разные причины отказа дают разные сообщения: битый токен, токен без
// владельца и отсутствующий заголовок различимы для клиента.
func TestAuthMiddlewareRejections(t *testing.T) {
	authCfg := &cfg.AuthCfg{JWTSecret: "secret", AdminEmail: "admin@shop.example"}
	m := NewAuthMiddleware(authCfg, noopLogger{})

	handler := m.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not be reached")
	}))

	tests := []struct {
		name    string
		token   string
		wantMsg string
	}{
		{"forged signature", signToken(t, "wrong-secret", "seller@shop.example"), e.ErrInvalidCredential.Error()},
		{"token without email", signToken(t, "secret", ""), e.ErrUserNotFound.Error()},
		{"missing header", "", e.ErrAuthFailed.Error()},
		{"not a token", "not-a-jwt", e.ErrInvalidCredential.Error()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authRequest(tc.token))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			resp := decodeError(t, rec)
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
			assert.Equal(t, tc.wantMsg, resp.Message)
		})
	}
}

func TestRequireAdminRejectsSeller(t *testing.T) {
	authCfg := &cfg.AuthCfg{JWTSecret: "secret", AdminEmail: "admin@shop.example"}
	m := NewAuthMiddleware(authCfg, noopLogger{})

	handler := m.Handle(m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authRequest(signToken(t, "secret", "seller@shop.example")))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authRequest(signToken(t, "secret", "admin@shop.example")))
	assert.Equal(t, http.StatusOK, rec.Code)
}
