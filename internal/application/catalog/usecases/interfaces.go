package usecases

import (
	"context"
	"time"

	"coursegate/internal/domain/catalog"
)

// EntryReader is the read side of the catalog cache. A miss means the node is not visible.
type EntryReader interface {
	Get(key string) (*catalog.Entry, bool)
}

// ExpiryReader returns course slug -> latest subscription expiry for the user.
type ExpiryReader interface {
	ExpiryMap(ctx context.Context, userID string, courses []string) (map[string]time.Time, error)
}

type CatalogPopulator interface {
	Populate(ctx context.Context) error
}

// CatalogChangePublisher tells other instances to repopulate their cache.
type CatalogChangePublisher interface {
	PublishChanged(ctx context.Context, reason string) error
}
