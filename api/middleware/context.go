package middleware

import (
	"context"

	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
)

type contextKey string

const (
	ctxDomain  contextKey = "storefront_domain"
	ctxRole    contextKey = "actor_role"
	ctxSubject contextKey = "actor_subject"
)

// DomainFromContext returns the storefront domain resolved for the request.
func DomainFromContext(ctx context.Context) enums.Domain {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxDomain).(enums.Domain); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSubject).(string); ok {
		return v
	}
	return ""
}

// WithDomain injects the storefront domain into the context.
func WithDomain(ctx context.Context, domain enums.Domain) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxDomain, domain)
}
