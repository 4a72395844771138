package catalog

import "context"

// Reader loads the full catalog from the system of record.
type Reader interface {
	// ListCourses returns every course with its modules, lessons, comments and delegations.
	ListCourses(ctx context.Context) ([]*Course, error)
}

// EntrySource produces the cache entries for a full rebuild.
type EntrySource interface {
	LoadEntries(ctx context.Context) ([]*Entry, error)
}
