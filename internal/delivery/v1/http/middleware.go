package http

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rkhn-textiles/pos-backend/internal/cfg"
	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
)

// UserClaims — полезная нагрузка токена сессии.
type UserClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет Bearer-токен и кладёт сессию в контекст запроса.
// Роль не хранится в токене: admin получает ровно один настроенный e-mail,
// все остальные пользователи — seller.
type AuthMiddleware struct {
	cfg    *cfg.AuthCfg
	logger logger.Logger
}

func NewAuthMiddleware(cfg *cfg.AuthCfg, logger logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg, logger: logger}
}

func (m *AuthMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, err := m.emailFromRequest(r)
		if err != nil {
			m.logger.Warnf("%d authentication rejected: %v", http.StatusUnauthorized, err)
			WriteError(w, err)
			return
		}

		role := domain.RoleSeller
		if strings.EqualFold(email, m.cfg.AdminEmail) {
			role = domain.RoleAdmin
		}

		ctx := domain.WithSession(r.Context(), domain.NewSession(email, role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin пропускает дальше только сессии с ролью admin.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := domain.SessionFromCtx(r.Context())
		if !ok {
			WriteError(w, e.ErrAuthFailed)
			return
		}

		if session.Role != domain.RoleAdmin {
			m.logger.Warnf("%d %s: email: %s", http.StatusForbidden, e.ErrForbidden.Error(), session.Email)
			WriteError(w, e.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) emailFromRequest(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", e.Wrap("missing Authorization header", e.ErrAuthFailed)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", e.Wrap("expected Bearer token", e.ErrAuthFailed)
	}

	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(m.cfg.JWTSecret), nil
	})
	// Битый или просроченный токен и токен без владельца отклоняются
	// с разными сообщениями
	if err != nil {
		return "", e.Wrap(err.Error(), e.ErrInvalidCredential)
	}

	if !token.Valid {
		return "", e.ErrInvalidCredential
	}

	if claims.Email == "" {
		return "", e.ErrUserNotFound
	}

	return claims.Email, nil
}
