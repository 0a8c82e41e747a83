package session

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

func parseClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// claimRoles reads "roles", falling back to "authorities". Entries are
// either plain strings or {"authority": "..."} objects; anything else is
// skipped.
func claimRoles(claims jwt.MapClaims) []string {
	raw, ok := claims["roles"]
	if !ok || raw == nil {
		raw = claims["authorities"]
	}
	list, ok := raw.([]any)
	if !ok {
		return []string{}
	}

	roles := make([]string, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			roles = append(roles, v)
		case map[string]any:
			if a, ok := v["authority"].(string); ok {
				roles = append(roles, a)
			}
		}
	}
	return roles
}

func rolesFromToken(token string) []string {
	claims, err := parseClaims(token)
	if err != nil {
		return []string{}
	}
	return claimRoles(claims)
}

// HasAnyRole reports whether actual contains at least one of required.
// It is the only authorization predicate on the client.
func HasAnyRole(required, actual []string) bool {
	for _, r := range required {
		if slices.Contains(actual, r) {
			return true
		}
	}
	return false
}
