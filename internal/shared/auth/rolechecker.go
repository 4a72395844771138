// Package auth holds role checks shared by the entitlement resolver and the HTTP layer.
package auth

import (
	"slices"
	"strings"

	"coursegate/internal/shared/constants"
)

func IsAdmin(roles []string) bool {
	return HasRole(roles, constants.RoleAdmin)
}

// HasRole reports whether roles contains role. Identity providers disagree on
// case, so the comparison ignores it.
func HasRole(roles []string, role string) bool {
	return slices.ContainsFunc(roles, func(r string) bool {
		return strings.EqualFold(strings.TrimSpace(r), role)
	})
}
