package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// ClaimsReader extracts an identity from a JWT bearer credential. Without a
// secret the signature is not checked; the backend remains the authority.
type ClaimsReader struct {
	secret []byte
	parser *jwt.Parser
}

func NewClaimsReader(secret string) *ClaimsReader {
	r := &ClaimsReader{parser: jwt.NewParser()}
	if secret != "" {
		r.secret = []byte(secret)
	}
	return r
}

// Verifies reports whether signatures are checked.
func (r *ClaimsReader) Verifies() bool {
	return len(r.secret) > 0
}

// Read decodes the identity claims of token. Opaque tokens yield
// ErrInvalidToken.
func (r *ClaimsReader) Read(token string) (Identity, error) {
	claims := jwt.MapClaims{}

	if r.Verifies() {
		parsed, err := r.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return r.secret, nil
		})
		if err != nil || !parsed.Valid {
			return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		if _, _, err := r.parser.ParseUnverified(token, claims); err != nil {
			return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	return identityFromClaims(claims), nil
}

func identityFromClaims(claims jwt.MapClaims) Identity {
	id := Identity{
		CustomerID: firstClaim(claims, "customerId", "user_id", "sub"),
		Name:       firstClaim(claims, "name", "username"),
		Email:      firstClaim(claims, "email"),
	}

	if role, ok := claims["role"].(string); ok && role != "" {
		id.Roles = append(id.Roles, strings.ToUpper(role))
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range roles {
			if s, ok := r.(string); ok && s != "" {
				id.Roles = append(id.Roles, strings.ToUpper(s))
			}
		}
	}

	return id
}

func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
