package mappers

import (
	"time"

	"coursegate/internal/domain/catalog"
	"coursegate/internal/infrastructure/persistence/models"
)

// CatalogMapper converts preloaded catalog rows into the catalog read model.
type CatalogMapper interface {
	// ToCourses maps courses; delegate IDs are resolved to slugs across the given set.
	// commentsByLesson holds already-linked comment trees.
	ToCourses(courses []*models.CourseModel, commentsByLesson map[uint][]*catalog.Comment) []*catalog.Course
	ToComment(model *models.LessonCommentModel) *catalog.Comment
}

type CatalogMapperImpl struct{}

func NewCatalogMapper() CatalogMapper {
	return &CatalogMapperImpl{}
}

func (m *CatalogMapperImpl) ToCourses(courses []*models.CourseModel, commentsByLesson map[uint][]*catalog.Comment) []*catalog.Course {
	slugByID := make(map[uint]string, len(courses))
	for _, c := range courses {
		slugByID[c.ID] = c.Slug
	}

	out := make([]*catalog.Course, 0, len(courses))
	for _, c := range courses {
		course := &catalog.Course{
			ID:          c.ID,
			Slug:        c.Slug,
			Content:     toContent(c.NodeFields),
			Publication: toPublication(c.Published, c.PublicationDate),
			Modules:     make([]catalog.ModulePlacement, 0, len(c.Modules)),
		}
		for _, d := range c.Delegations {
			if slug, ok := slugByID[d.DelegateCourseID]; ok {
				course.DelegateAuthTo = append(course.DelegateAuthTo, slug)
			}
		}
		for i := range c.Modules {
			cm := &c.Modules[i]
			course.Modules = append(course.Modules, catalog.ModulePlacement{
				Order:       cm.SortOrder,
				Publication: toPublication(cm.Published, cm.PublicationDate),
				Module:      m.toModule(&cm.Module, commentsByLesson),
			})
		}
		out = append(out, course)
	}
	return out
}

func (m *CatalogMapperImpl) toModule(model *models.ModuleModel, commentsByLesson map[uint][]*catalog.Comment) *catalog.Module {
	module := &catalog.Module{
		ID:          model.ID,
		Slug:        model.Slug,
		Content:     toContent(model.NodeFields),
		Publication: toPublication(model.Published, model.PublicationDate),
		Lessons:     make([]catalog.LessonPlacement, 0, len(model.Lessons)),
	}
	for i := range model.Lessons {
		ml := &model.Lessons[i]
		module.Lessons = append(module.Lessons, catalog.LessonPlacement{
			Order:       ml.SortOrder,
			Publication: toPublication(ml.Published, ml.PublicationDate),
			Lesson: &catalog.Lesson{
				ID:          ml.Lesson.ID,
				Slug:        ml.Lesson.Slug,
				Content:     toContent(ml.Lesson.NodeFields),
				Publication: toPublication(ml.Lesson.Published, ml.Lesson.PublicationDate),
				Comments:    commentsByLesson[ml.Lesson.ID],
			},
		})
	}
	return module
}

func (m *CatalogMapperImpl) ToComment(model *models.LessonCommentModel) *catalog.Comment {
	return &catalog.Comment{
		ID:        model.ID,
		Author:    model.Author,
		Body:      model.Body,
		Published: model.Published,
		CreatedAt: model.CreatedAt,
	}
}

func toContent(f models.NodeFields) catalog.Content {
	return catalog.Content{
		Name:             f.Name,
		Description:      f.Description,
		Thumbnail:        f.Thumbnail,
		MarketingContent: f.MarketingContent,
		MarketingVideo:   f.MarketingVideo,
		Content:          f.Content,
		Video:            f.Video,
	}
}

func toPublication(published bool, date *time.Time) catalog.Publication {
	return catalog.Publication{Published: published, PublicationDate: date}
}
