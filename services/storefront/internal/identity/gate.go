package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aquamarinepk/aqm"
)

// PlaceholderName is shown when a credential carries no profile at all.
const PlaceholderName = "Customer"

// Resolver asks the backend who owns the bearer token carried by ctx.
type Resolver interface {
	ResolveIdentity(ctx context.Context) (Identity, error)
}

// Gate turns stored credentials into principals. Lookups happen once per
// session; role checks afterwards use Authorize and never touch the network.
type Gate struct {
	creds    CredentialStore
	claims   *ClaimsReader
	resolver Resolver
	logger   aqm.Logger
}

type GateOption func(*Gate)

// WithResolver enables strict validation of restored credentials.
func WithResolver(r Resolver) GateOption {
	return func(g *Gate) {
		g.resolver = r
	}
}

func WithClaimsReader(r *ClaimsReader) GateOption {
	return func(g *Gate) {
		if r != nil {
			g.claims = r
		}
	}
}

func NewGate(creds CredentialStore, logger aqm.Logger, opts ...GateOption) *Gate {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	if creds == nil {
		creds = NewMemoryStore(0)
	}

	g := &Gate{
		creds:  creds,
		claims: NewClaimsReader(""),
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Remember stores the credential issued by a sign-in and returns the
// resulting principal.
func (g *Gate) Remember(ctx context.Context, key, token string, profile Identity) (Principal, error) {
	if token == "" {
		return Anonymous(), errors.New("empty token")
	}

	id, err := g.complete(token, profile)
	if err != nil {
		return Anonymous(), err
	}

	if err := g.creds.Save(ctx, key, Credential{Token: token, Identity: id}); err != nil {
		return Anonymous(), fmt.Errorf("remember credential: %w", err)
	}

	return Authenticated(id, token), nil
}

// Restore rebuilds the principal for key from its stored credential.
// Any failure yields an anonymous principal.
func (g *Gate) Restore(ctx context.Context, key string) Principal {
	cred, err := g.creds.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNoCredential) && !errors.Is(err, ErrCredentialExpired) {
			g.logger.Error("cannot load credential", "error", err)
		}
		return Anonymous()
	}
	if cred.Token == "" {
		return Anonymous()
	}

	if g.resolver != nil {
		id, err := g.resolver.ResolveIdentity(WithToken(ctx, cred.Token))
		if err != nil {
			g.logger.Info("stored credential rejected", "error", err)
			g.forget(ctx, key)
			return Anonymous()
		}
		id, err = g.complete(cred.Token, id)
		if err != nil {
			g.forget(ctx, key)
			return Anonymous()
		}
		return Authenticated(id, cred.Token)
	}

	id, err := g.complete(cred.Token, cred.Identity)
	if err != nil {
		g.logger.Info("stored credential invalid", "error", err)
		g.forget(ctx, key)
		return Anonymous()
	}

	return Authenticated(id, cred.Token)
}

// Forget drops the credential for key.
func (g *Gate) Forget(ctx context.Context, key string) error {
	return g.creds.Delete(ctx, key)
}

func (g *Gate) forget(ctx context.Context, key string) {
	if err := g.creds.Delete(ctx, key); err != nil {
		g.logger.Error("cannot delete credential", "error", err)
	}
}

// complete fills gaps in profile from the token claims and falls back to a
// placeholder USER identity. A verifying reader rejects bad signatures.
func (g *Gate) complete(token string, profile Identity) (Identity, error) {
	id := profile.clone()

	claims, err := g.claims.Read(token)
	if err != nil && g.claims.Verifies() {
		return Identity{}, err
	}
	if err == nil {
		if id.CustomerID == "" {
			id.CustomerID = claims.CustomerID
		}
		if id.Name == "" {
			id.Name = claims.Name
		}
		if id.Email == "" {
			id.Email = claims.Email
		}
		if len(id.Roles) == 0 {
			id.Roles = claims.Roles
		}
	}

	if id.Name == "" && id.Email == "" {
		id.Name = PlaceholderName
	}
	if len(id.Roles) == 0 {
		id.Roles = []string{RoleUser}
	}
	return id, nil
}
