package identity

import "context"

type contextKey string

const (
	contextKeyToken     contextKey = "token"
	contextKeyPrincipal contextKey = "principal"
)

// WithToken attaches a bearer credential for outgoing backend calls.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKeyToken, token)
}

// TokenFrom returns the bearer credential carried by ctx.
func TokenFrom(ctx context.Context) string {
	if token, ok := ctx.Value(contextKeyToken).(string); ok {
		return token
	}
	return ""
}

// WithPrincipal stores the principal and its token in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, contextKeyPrincipal, p)
	return WithToken(ctx, p.Token())
}

// PrincipalFrom returns the principal in ctx, anonymous when absent.
func PrincipalFrom(ctx context.Context) Principal {
	if p, ok := ctx.Value(contextKeyPrincipal).(Principal); ok {
		return p
	}
	return Anonymous()
}
