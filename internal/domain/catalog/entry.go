package catalog

import (
	"sort"
	"time"
)

type NodeKind string

const (
	KindCourse NodeKind = "course"
	KindModule NodeKind = "module"
	KindLesson NodeKind = "lesson"
)

// ChildRef is one ordered child of a course or module entry.
type ChildRef struct {
	Slug  string
	Name  string
	Order int
	// Gate combines the join row and the child node publication.
	Gate []Publication
}

// VisibleAt reports whether every gate of the child is open at t.
func (c ChildRef) VisibleAt(t time.Time) bool {
	return gatesOpen(c.Gate, t)
}

// Entry is the cached snapshot of one catalog node.
type Entry struct {
	Key        string
	Kind       NodeKind
	ID         uint
	Slug       string
	CourseSlug string
	ModuleSlug string
	// AccessCourses is the owning course followed by its delegate closure.
	AccessCourses []string
	Content       Content
	// Gates holds the publication state of the node and of every join above it, outermost first.
	Gates    []Publication
	Children []ChildRef
	Comments []*Comment
}

// VisibleAt reports whether the node and all owning joins are published at t.
func (e *Entry) VisibleAt(t time.Time) bool {
	return gatesOpen(e.Gates, t)
}

func gatesOpen(gates []Publication, t time.Time) bool {
	for _, g := range gates {
		if !g.VisibleAt(t) {
			return false
		}
	}
	return true
}

// BuildEntries flattens courses into one entry per course, course:module and
// course:module:lesson. Delegation closure is resolved across the whole course set.
func BuildEntries(courses []*Course) []*Entry {
	graph := NewDelegationGraph(courses)
	entries := make([]*Entry, 0, len(courses))

	for _, course := range courses {
		courseSlug := NormalizeSlug(course.Slug)
		access := normalizeAll(graph.AccessCourses(course.Slug))
		courseGates := []Publication{course.Publication}

		modules := sortedModules(course.Modules)
		courseEntry := &Entry{
			Key:           Key(course.Slug),
			Kind:          KindCourse,
			ID:            course.ID,
			Slug:          courseSlug,
			CourseSlug:    courseSlug,
			AccessCourses: access,
			Content:       course.Content,
			Gates:         courseGates,
			Children:      make([]ChildRef, 0, len(modules)),
		}
		entries = append(entries, courseEntry)

		for _, mp := range modules {
			if mp.Module == nil {
				continue
			}
			module := mp.Module
			moduleSlug := NormalizeSlug(module.Slug)
			courseEntry.Children = append(courseEntry.Children, ChildRef{
				Slug:  moduleSlug,
				Name:  module.Name,
				Order: mp.Order,
				Gate:  []Publication{mp.Publication, module.Publication},
			})

			moduleGates := append(append([]Publication{}, courseGates...), mp.Publication, module.Publication)
			lessons := sortedLessons(module.Lessons)
			moduleEntry := &Entry{
				Key:           Key(course.Slug, module.Slug),
				Kind:          KindModule,
				ID:            module.ID,
				Slug:          moduleSlug,
				CourseSlug:    courseSlug,
				ModuleSlug:    moduleSlug,
				AccessCourses: access,
				Content:       module.Content,
				Gates:         moduleGates,
				Children:      make([]ChildRef, 0, len(lessons)),
			}
			entries = append(entries, moduleEntry)

			for _, lp := range lessons {
				if lp.Lesson == nil {
					continue
				}
				lesson := lp.Lesson
				lessonSlug := NormalizeSlug(lesson.Slug)
				moduleEntry.Children = append(moduleEntry.Children, ChildRef{
					Slug:  lessonSlug,
					Name:  lesson.Name,
					Order: lp.Order,
					Gate:  []Publication{lp.Publication, lesson.Publication},
				})

				entries = append(entries, &Entry{
					Key:           Key(course.Slug, module.Slug, lesson.Slug),
					Kind:          KindLesson,
					ID:            lesson.ID,
					Slug:          lessonSlug,
					CourseSlug:    courseSlug,
					ModuleSlug:    moduleSlug,
					AccessCourses: access,
					Content:       lesson.Content,
					Gates:         append(append([]Publication{}, moduleGates...), lp.Publication, lesson.Publication),
					Comments:      lesson.Comments,
				})
			}
		}
	}
	return entries
}

func sortedModules(in []ModulePlacement) []ModulePlacement {
	out := append([]ModulePlacement(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func sortedLessons(in []LessonPlacement) []LessonPlacement {
	out := append([]LessonPlacement(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func normalizeAll(slugs []string) []string {
	out := make([]string, len(slugs))
	for i, s := range slugs {
		out[i] = NormalizeSlug(s)
	}
	return out
}
