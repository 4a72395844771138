// Package services builds the catalog read model served from the in-process cache.
package services

import (
	"context"
	"fmt"
	"time"

	"coursegate/internal/domain/catalog"
	"coursegate/internal/shared/logger"
	"coursegate/internal/shared/services/markdown"
)

// SnapshotService reads the whole catalog, renders Markdown fields to sanitized HTML
// and flattens it into cache entries.
type SnapshotService struct {
	reader   catalog.Reader
	renderer markdown.Renderer
	logger   logger.Interface
}

var _ catalog.EntrySource = (*SnapshotService)(nil)

func NewSnapshotService(reader catalog.Reader, renderer markdown.Renderer, logger logger.Interface) *SnapshotService {
	return &SnapshotService{
		reader:   reader,
		renderer: renderer,
		logger:   logger,
	}
}

func (s *SnapshotService) LoadEntries(ctx context.Context) ([]*catalog.Entry, error) {
	start := time.Now()

	courses, err := s.reader.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	r := &snapshotRenderer{renderer: s.renderer, done: make(map[*catalog.Content]struct{})}
	for _, course := range courses {
		if err := r.render(&course.Content); err != nil {
			return nil, fmt.Errorf("course %s: %w", course.Slug, err)
		}
		for _, mp := range course.Modules {
			if mp.Module == nil {
				continue
			}
			if err := r.render(&mp.Module.Content); err != nil {
				return nil, fmt.Errorf("module %s: %w", mp.Module.Slug, err)
			}
			for _, lp := range mp.Module.Lessons {
				if lp.Lesson == nil {
					continue
				}
				if _, seen := r.done[&lp.Lesson.Content]; !seen {
					r.stripComments(lp.Lesson.Comments)
				}
				if err := r.render(&lp.Lesson.Content); err != nil {
					return nil, fmt.Errorf("lesson %s: %w", lp.Lesson.Slug, err)
				}
			}
		}
	}

	entries := catalog.BuildEntries(courses)
	s.logger.Debugw("catalog snapshot built",
		"courses", len(courses),
		"entries", len(entries),
		"duration", time.Since(start),
	)
	return entries, nil
}

// snapshotRenderer converts Markdown fields in place, once per node even when a
// module or lesson is placed in several courses.
type snapshotRenderer struct {
	renderer markdown.Renderer
	done     map[*catalog.Content]struct{}
}

func (r *snapshotRenderer) render(c *catalog.Content) error {
	if _, ok := r.done[c]; ok {
		return nil
	}
	r.done[c] = struct{}{}

	var err error
	if c.Content, err = r.renderer.Render(c.Content); err != nil {
		return err
	}
	if c.MarketingContent, err = r.renderer.Render(c.MarketingContent); err != nil {
		return err
	}
	return nil
}

func (r *snapshotRenderer) stripComments(comments []*catalog.Comment) {
	for _, c := range comments {
		c.Body = r.renderer.StripTags(c.Body)
		r.stripComments(c.Responses)
	}
}
