package subscription

import "time"

// ExpiryByCourse folds subs into course slug -> latest expiry.
func ExpiryByCourse(subs []*Subscription) map[string]time.Time {
	out := make(map[string]time.Time, len(subs))
	for _, s := range subs {
		if cur, seen := out[s.courseSlug]; !seen || s.expiresAt.After(cur) {
			out[s.courseSlug] = s.expiresAt
		}
	}
	return out
}
