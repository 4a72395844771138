// Package entitlement decides which catalog fields a viewer may see.
package entitlement

import "coursegate/internal/shared/auth"

// Viewer is the identity of the current request as supplied by the session provider.
// The zero value is the anonymous viewer.
type Viewer struct {
	ID          string
	Email       string
	Roles       []string
	PhoneNumber string
}

func Anonymous() Viewer {
	return Viewer{}
}

func (v Viewer) IsAnonymous() bool {
	return v.ID == ""
}

func (v Viewer) IsAdmin() bool {
	return auth.IsAdmin(v.Roles)
}
