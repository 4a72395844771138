package entitlement

import (
	"time"

	"coursegate/internal/domain/catalog"
)

// RedactedNode is a catalog entry as the viewer is allowed to see it.
type RedactedNode struct {
	Kind       catalog.NodeKind
	ID         uint
	Slug       string
	CourseSlug string
	ModuleSlug string
	Content    catalog.Content
	HasAccess  bool
	Children   []catalog.ChildRef
	Comments   []*catalog.Comment
}

// Resolve applies, in order: administrator bypass, publication gating, entitlement
// through the owning course and its delegate closure, then redaction of gated fields.
// It never fails on missing subscription data; the only error is ErrNodeNotFound.
func Resolve(viewer Viewer, entry *catalog.Entry, access Access, now time.Time) (*RedactedNode, error) {
	if entry == nil {
		return nil, ErrNodeNotFound
	}

	node := &RedactedNode{
		Kind:       entry.Kind,
		ID:         entry.ID,
		Slug:       entry.Slug,
		CourseSlug: entry.CourseSlug,
		ModuleSlug: entry.ModuleSlug,
	}

	if viewer.IsAdmin() {
		node.Content = entry.Content
		node.HasAccess = true
		node.Children = entry.Children
		node.Comments = entry.Comments
		return node, nil
	}

	if !entry.VisibleAt(now) {
		return nil, ErrNodeNotFound
	}

	if !viewer.IsAnonymous() {
		node.HasAccess = access.Grants(entry.AccessCourses, now)
	}

	if node.HasAccess {
		node.Content = entry.Content
	} else {
		node.Content = entry.Content.Redacted()
	}

	node.Children = visibleChildren(entry.Children, now)

	if viewer.IsAnonymous() {
		node.Comments = catalog.PublishedOnly(entry.Comments)
	} else {
		node.Comments = entry.Comments
	}
	return node, nil
}

func visibleChildren(children []catalog.ChildRef, now time.Time) []catalog.ChildRef {
	out := make([]catalog.ChildRef, 0, len(children))
	for _, c := range children {
		if c.VisibleAt(now) {
			out = append(out, c)
		}
	}
	return out
}
