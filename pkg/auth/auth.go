package auth

import (
	"context"
	"os"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
	RoleMember    Role = "member"
)

var JWTKey = []byte(os.Getenv("JWT_KEY"))

type Profile struct {
	UserID string `json:"userId"`
	Roles  []Role `json:"roles"`
}

type Claims struct {
	jwt.RegisteredClaims
	Profile Profile `json:"profile"`
}

// Principal is the caller identity resolved once per request at the handler boundary.
type Principal struct {
	UserID string
	Roles  []Role
}

func (p Principal) HasRole(roles ...Role) bool {
	for _, want := range roles {
		for _, r := range p.Roles {
			if r == want {
				return true
			}
		}
	}
	return false
}

// IsStaff reports whether the principal may act on behalf of the library.
func (p Principal) IsStaff() bool {
	return p.HasRole(RoleAdmin, RoleLibrarian)
}

type principalKey struct{}

func SetAuthContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, errors.New("principal is missing")
	}
	return p, nil
}
