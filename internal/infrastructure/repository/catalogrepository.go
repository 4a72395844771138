package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"coursegate/internal/domain/catalog"
	"coursegate/internal/infrastructure/persistence/mappers"
	"coursegate/internal/infrastructure/persistence/models"
	"coursegate/internal/shared/logger"
)

// CatalogRepositoryImpl reads the whole catalog for cache population.
type CatalogRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.CatalogMapper
	logger logger.Interface
}

func NewCatalogRepository(db *gorm.DB, logger logger.Interface) *CatalogRepositoryImpl {
	return &CatalogRepositoryImpl{
		db:     db,
		mapper: mappers.NewCatalogMapper(),
		logger: logger,
	}
}

func (r *CatalogRepositoryImpl) ListCourses(ctx context.Context) ([]*catalog.Course, error) {
	var courses []*models.CourseModel

	err := r.db.WithContext(ctx).
		Preload("Modules", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC, id ASC") }).
		Preload("Modules.Module").
		Preload("Modules.Module.Lessons", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC, id ASC") }).
		Preload("Modules.Module.Lessons.Lesson").
		Preload("Delegations").
		Order("id ASC").
		Find(&courses).Error
	if err != nil {
		r.logger.Errorw("failed to load catalog", "error", err)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	comments, err := r.loadComments(ctx)
	if err != nil {
		return nil, err
	}

	return r.mapper.ToCourses(courses, comments), nil
}

// loadComments returns the comment trees of every lesson keyed by lesson ID.
func (r *CatalogRepositoryImpl) loadComments(ctx context.Context) (map[uint][]*catalog.Comment, error) {
	var rows []*models.LessonCommentModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to load lesson comments", "error", err)
		return nil, fmt.Errorf("failed to load lesson comments: %w", err)
	}

	byLesson := make(map[uint][]*catalog.Comment)
	parents := make(map[uint]uint, len(rows))
	flat := make(map[uint][]*catalog.Comment)
	for _, row := range rows {
		c := r.mapper.ToComment(row)
		if row.ParentID != nil {
			parents[row.ID] = *row.ParentID
		}
		flat[row.LessonID] = append(flat[row.LessonID], c)
	}
	for lessonID, comments := range flat {
		byLesson[lessonID] = catalog.BuildCommentTree(comments, func(c *catalog.Comment) uint { return parents[c.ID] })
	}
	return byLesson, nil
}
