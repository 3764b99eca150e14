package shared

import "context"

// Role is the caller role carried in the access token
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleEVMStaff      Role = "evm_staff"
	RoleDealerManager Role = "dealer_manager"
	RoleDealerStaff   Role = "dealer_staff"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEVMStaff, RoleDealerManager, RoleDealerStaff:
		return true
	}
	return false
}

// IsDealershipScoped reports whether the role may only act on its own dealership's orders
func (r Role) IsDealershipScoped() bool {
	return r == RoleDealerManager || r == RoleDealerStaff
}

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID       string
	Username     string
	Role         Role
	DealershipID string
	// Token is the raw bearer token, forwarded to the dealership backend
	Token string
}

// CanAccessDealership reports whether the actor may operate on orders of dealershipID.
// Unscoped roles always can. Scoped roles need a matching, non-empty dealership.
func (a Actor) CanAccessDealership(dealershipID string) bool {
	if !a.Role.IsDealershipScoped() {
		return true
	}
	return a.DealershipID != "" && a.DealershipID == dealershipID
}

type actorKey struct{}

// ContextWithActor stores the caller in ctx
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller stored in ctx
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
