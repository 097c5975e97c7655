package auth

import (
	"context"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
)

type identityKey struct{}

// WithIdentity attaches a resolved identity to ctx
func WithIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity on ctx, or nil
func IdentityFrom(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityKey{}).(*domain.Identity)
	return id
}

// ResolveIdentity returns the caller's identity or ErrUnauthenticated
func ResolveIdentity(ctx context.Context) (domain.Identity, error) {
	id := IdentityFrom(ctx)
	if id == nil || id.ID == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return *id, nil
}

// Authorize checks that identity holds role
func Authorize(identity *domain.Identity, role domain.Role) error {
	if identity == nil || identity.ID == "" {
		return domain.ErrUnauthenticated
	}
	if identity.Role != role {
		return domain.Forbidden(role)
	}
	return nil
}

// AuthorizeContext resolves the identity from ctx and checks role
func AuthorizeContext(ctx context.Context, role domain.Role) (domain.Identity, error) {
	id, err := ResolveIdentity(ctx)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := Authorize(&id, role); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// Landing is the chat surface an identity is routed to after sign-in
func Landing(id domain.Identity) string {
	if id.Role == domain.RoleRecruiter {
		return "/chat/recruiter"
	}
	return "/chat/employee"
}
