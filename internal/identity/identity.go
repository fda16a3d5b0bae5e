// Package identity resolves the acting user from a session token.
// It supplies immutable facts to the policy engine and nothing else;
// an unresolvable session yields ErrUnauthenticated, which the engine
// treats as deny-all.
package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"courtflow/internal/model"
)

// ErrUnauthenticated means no actor could be resolved from the session.
var ErrUnauthenticated = errors.New("unauthenticated")

// Resolver verifies HS256 session tokens and extracts the actor facts.
type Resolver struct {
	secret []byte
}

// NewResolver creates a Resolver for the given signing secret.
func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret)}
}

// Resolve parses and verifies a raw token string and returns the actor it
// identifies. Expired, malformed, or foreign-signed tokens, and tokens
// carrying an unknown role, all resolve to ErrUnauthenticated.
func (r *Resolver) Resolve(tokenString string) (model.Actor, error) {
	if tokenString == "" {
		return model.Actor{}, ErrUnauthenticated
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Actor{}, ErrUnauthenticated
	}

	sub, _ := claims["sub"].(string)
	rawRole, _ := claims["role"].(string)
	department, _ := claims["department_id"].(string)

	role, ok := model.ParseRole(rawRole)
	if sub == "" || !ok {
		return model.Actor{}, ErrUnauthenticated
	}

	return model.Actor{ID: sub, Role: role, DepartmentID: department}, nil
}
