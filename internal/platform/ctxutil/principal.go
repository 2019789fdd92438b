package ctxutil

import "context"

type principalKey struct{}

// Principal is the authenticated caller attached by the admin guard.
type Principal struct {
	Subject string
	Role    string
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey{}).(*Principal); ok {
		return p
	}
	return nil
}
