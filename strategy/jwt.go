package strategy

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type jwtResolver struct {
	parser *jwt.Parser
}

func newJWTResolver() *jwtResolver {
	// Issuers differ on whether segments carry base64 padding.
	return &jwtResolver{parser: jwt.NewParser(jwt.WithPaddingAllowed())}
}

func (r *jwtResolver) Name() Name { return JWT }

// Decode splits the credential on '.' and decodes the second segment as a
// base64url JSON object.
func (r *jwtResolver) Decode(credential string) (map[string]any, error) {
	parts := strings.Split(credential, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: token contains %d segment(s)", ErrMalformedToken, len(parts))
	}

	segment := parts[1]
	if segment == "" {
		return nil, fmt.Errorf("%w: empty payload segment", ErrMalformedToken)
	}

	raw, err := r.parser.DecodeSegment(segment)
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not base64url: %v", ErrMalformedToken, err)
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object: %v", ErrMalformedToken, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: payload is null", ErrMalformedToken)
	}

	return claims, nil
}
