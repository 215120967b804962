package strategy

import (
	"errors"
	"fmt"
	"strings"
)

// Name selects how identities are derived from credentials.
type Name string

const (
	// Plain treats credentials as opaque strings.
	Plain Name = "plain"
	// JWT decodes the payload segment of a three-part token.
	JWT Name = "jwt"
)

var (
	// ErrMalformedToken is returned when a credential cannot be decoded by
	// the structured strategy.
	ErrMalformedToken = errors.New("malformed token")
	// ErrUnknownStrategy is returned for names other than plain and jwt.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Resolver decodes a credential into identity claims.
//
// A nil map with a nil error means no identity is derivable.
type Resolver interface {
	Name() Name
	Decode(credential string) (map[string]any, error)
}

// Parse normalizes a configuration value into a Name. An empty value
// selects [Plain].
func Parse(value string) (Name, error) {
	switch Name(strings.ToLower(strings.TrimSpace(value))) {
	case "", Plain:
		return Plain, nil
	case JWT:
		return JWT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, value)
	}
}

// New returns the resolver for name.
func New(name Name) (Resolver, error) {
	switch name {
	case "", Plain:
		return plainResolver{}, nil
	case JWT:
		return newJWTResolver(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(name))
	}
}

type plainResolver struct{}

func (plainResolver) Name() Name { return Plain }

func (plainResolver) Decode(string) (map[string]any, error) {
	return nil, nil
}
