package domain

import "context"

// Role — роль пользователя в системе.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
)

// Session — явное значение сессии, передаваемое через контекст запроса.
// Заменяет глобальное состояние текущего пользователя: создаётся
// middleware на каждый запрос и нигде не сохраняется.
type Session struct {
	Email string
	Role  Role
}

func NewSession(email string, role Role) *Session {
	return &Session{Email: email, Role: role}
}

type sessionCtxKey struct{}

// WithSession кладёт сессию в контекст.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromCtx извлекает сессию из контекста.
func SessionFromCtx(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(*Session)
	return s, ok
}
