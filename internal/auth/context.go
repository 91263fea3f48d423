package auth

import (
	"context"

	"github.com/dukerupert/csemotors/internal/model"
)

type contextKey struct{}

// Principal is the identity resolved from a verified token. It is stored in
// the request context by value and never mutated.
type Principal struct {
	AccountID int64
	FirstName string
	LastName  string
	Email     string
	Type      model.AccountType
}

func (p Principal) IsStaff() bool {
	return p.Type == model.AccountEmployee || p.Type == model.AccountAdmin
}

func (p Principal) IsAdmin() bool {
	return p.Type == model.AccountAdmin
}

func PrincipalFor(a *model.Account) Principal {
	return Principal{
		AccountID: a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Type:      a.Type,
	}
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

func AccountID(ctx context.Context) int64 {
	p, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return p.AccountID
}

func IsAdmin(ctx context.Context) bool {
	p, ok := FromContext(ctx)
	return ok && p.IsAdmin()
}
