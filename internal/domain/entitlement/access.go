package entitlement

import (
	"time"

	"coursegate/internal/domain/catalog"
	"coursegate/internal/domain/subscription"
)

// Access maps a normalized course slug to the viewer's latest subscription expiry.
type Access map[string]time.Time

// AccessFromSubscriptions folds subs into an Access map using the maximum-expiry rule.
func AccessFromSubscriptions(subs []*subscription.Subscription) Access {
	out := make(Access, len(subs))
	for slug, exp := range subscription.ExpiryByCourse(subs) {
		key := catalog.NormalizeSlug(slug)
		if cur, ok := out[key]; !ok || exp.After(cur) {
			out[key] = exp
		}
	}
	return out
}

// Grants reports whether any of courses has an expiry strictly after now.
func (a Access) Grants(courses []string, now time.Time) bool {
	for _, c := range courses {
		if exp, ok := a[catalog.NormalizeSlug(c)]; ok && exp.After(now) {
			return true
		}
	}
	return false
}
