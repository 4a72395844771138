// Package catalog holds the course catalog read model: courses, modules, lessons,
// the ordered joins between them, and course-to-course delegation.
package catalog

import "time"

// Publication gates visibility of a node or join independently of entitlement.
type Publication struct {
	Published       bool
	PublicationDate *time.Time
}

// VisibleAt reports whether the node is published and its publication date has passed.
func (p Publication) VisibleAt(t time.Time) bool {
	if !p.Published {
		return false
	}
	return p.PublicationDate == nil || !p.PublicationDate.After(t)
}

// Content is the field set shared by every catalog node.
// Content and Video are gated; the rest are public.
type Content struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Thumbnail        string `json:"thumbnail"`
	MarketingContent string `json:"marketing_content"`
	MarketingVideo   string `json:"marketing_video"`
	Content          string `json:"content"`
	Video            string `json:"video"`
}

// Redacted replaces gated fields with their marketing counterparts.
func (c Content) Redacted() Content {
	c.Content = c.MarketingContent
	c.Video = c.MarketingVideo
	return c
}

type Course struct {
	ID   uint
	Slug string
	Content
	Publication
	// DelegateAuthTo lists course slugs whose subscriptions also unlock this course.
	DelegateAuthTo []string
	Modules        []ModulePlacement
}

// ModulePlacement is a course_modules join row.
type ModulePlacement struct {
	Order int
	Publication
	Module *Module
}

type Module struct {
	ID   uint
	Slug string
	Content
	Publication
	Lessons []LessonPlacement
}

// LessonPlacement is a module_lessons join row.
type LessonPlacement struct {
	Order int
	Publication
	Lesson *Lesson
}

type Lesson struct {
	ID   uint
	Slug string
	Content
	Publication
	Comments []*Comment
}
