package storefront

import (
	"context"

	"github.com/appetiteclub/storefront/services/storefront/internal/identity"
)

type contextKey string

const contextKeySession contextKey = "session"

func withSession(ctx context.Context, session *Session) context.Context {
	ctx = context.WithValue(ctx, contextKeySession, session)
	return identity.WithPrincipal(ctx, session.Store.Snapshot().Auth.Principal)
}

func sessionFrom(ctx context.Context) *Session {
	if session, ok := ctx.Value(contextKeySession).(*Session); ok {
		return session
	}
	return nil
}
