package identity

import (
	"slices"
	"strings"
)

// Roles known to the storefront.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Identity describes a signed-in customer.
type Identity struct {
	CustomerID string   `json:"customerId"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Roles      []string `json:"roles"`
}

// HasRole matches role names case-insensitively.
func (i Identity) HasRole(role string) bool {
	return slices.ContainsFunc(i.Roles, func(r string) bool {
		return strings.EqualFold(r, role)
	})
}

// DisplayName prefers the name, then the email.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}

func (i Identity) clone() Identity {
	i.Roles = slices.Clone(i.Roles)
	return i
}

// Principal is either anonymous or an authenticated identity with its
// bearer credential. The zero value is anonymous.
type Principal struct {
	identity *Identity
	token    string
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal {
	return Principal{}
}

// Authenticated returns a principal for id holding token.
func Authenticated(id Identity, token string) Principal {
	id = id.clone()
	return Principal{identity: &id, token: token}
}

func (p Principal) IsAuthenticated() bool {
	return p.identity != nil
}

// Identity returns a copy of the identity, if any.
func (p Principal) Identity() (Identity, bool) {
	if p.identity == nil {
		return Identity{}, false
	}
	return p.identity.clone(), true
}

// Token is the bearer credential, empty when anonymous.
func (p Principal) Token() string {
	return p.token
}

func (p Principal) HasRole(role string) bool {
	return p.identity != nil && p.identity.HasRole(role)
}

// Clone returns a principal that shares no memory with p.
func (p Principal) Clone() Principal {
	if p.identity == nil {
		return Principal{}
	}
	return Authenticated(*p.identity, p.token)
}

// Decision is the outcome of a gate check.
type Decision int

const (
	Allow Decision = iota
	SignInRequired
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case SignInRequired:
		return "sign-in-required"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Authorize checks p against an optional role. It never performs I/O.
func Authorize(p Principal, role string) Decision {
	if !p.IsAuthenticated() {
		return SignInRequired
	}
	if role == "" || p.HasRole(role) {
		return Allow
	}
	return Forbidden
}
