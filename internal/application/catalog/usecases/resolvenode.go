package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursegate/internal/application/catalog/dto"
	"coursegate/internal/domain/catalog"
	"coursegate/internal/domain/entitlement"
	apperrors "coursegate/internal/shared/errors"
	"coursegate/internal/shared/logger"
)

// nodeResolver is shared by the course, module and lesson use cases: cache lookup,
// expiry gathering for the entry's access courses, then entitlement resolution.
type nodeResolver struct {
	entries  EntryReader
	expiries ExpiryReader
	logger   logger.Interface
	now      func() time.Time
}

func (r *nodeResolver) resolve(ctx context.Context, viewer entitlement.Viewer, slugs ...string) (*dto.NodeDTO, error) {
	key := catalog.Key(slugs...)
	entry, ok := r.entries.Get(key)
	if !ok {
		return nil, apperrors.NewNotFoundError("content not found", key)
	}

	access := entitlement.Access{}
	if !viewer.IsAnonymous() && !viewer.IsAdmin() {
		expiries, err := r.expiries.ExpiryMap(ctx, viewer.ID, entry.AccessCourses)
		if err != nil {
			// Entitlement is fail-closed: the node is served redacted.
			r.logger.Errorw("failed to read subscription expiries",
				"user_id", viewer.ID,
				"key", key,
				"error", err,
			)
		} else {
			access = entitlement.Access(expiries)
		}
	}

	node, err := entitlement.Resolve(viewer, entry, access, r.now())
	if err != nil {
		if errors.Is(err, entitlement.ErrNodeNotFound) {
			return nil, apperrors.NewNotFoundError("content not found", key)
		}
		return nil, fmt.Errorf("failed to resolve %s: %w", key, err)
	}
	return dto.ToNodeDTO(node), nil
}

func newNodeResolver(entries EntryReader, expiries ExpiryReader, logger logger.Interface) nodeResolver {
	return nodeResolver{
		entries:  entries,
		expiries: expiries,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type GetCourseQuery struct {
	Viewer entitlement.Viewer
	Course string
}

type GetCourseUseCase struct {
	nodeResolver
}

func NewGetCourseUseCase(entries EntryReader, expiries ExpiryReader, logger logger.Interface) *GetCourseUseCase {
	return &GetCourseUseCase{nodeResolver: newNodeResolver(entries, expiries, logger)}
}

func (uc *GetCourseUseCase) Execute(ctx context.Context, query GetCourseQuery) (*dto.NodeDTO, error) {
	return uc.resolve(ctx, query.Viewer, query.Course)
}

type GetModuleQuery struct {
	Viewer entitlement.Viewer
	Course string
	Module string
}

type GetModuleUseCase struct {
	nodeResolver
}

func NewGetModuleUseCase(entries EntryReader, expiries ExpiryReader, logger logger.Interface) *GetModuleUseCase {
	return &GetModuleUseCase{nodeResolver: newNodeResolver(entries, expiries, logger)}
}

func (uc *GetModuleUseCase) Execute(ctx context.Context, query GetModuleQuery) (*dto.NodeDTO, error) {
	return uc.resolve(ctx, query.Viewer, query.Course, query.Module)
}

type GetLessonQuery struct {
	Viewer entitlement.Viewer
	Course string
	Module string
	Lesson string
}

type GetLessonUseCase struct {
	nodeResolver
}

func NewGetLessonUseCase(entries EntryReader, expiries ExpiryReader, logger logger.Interface) *GetLessonUseCase {
	return &GetLessonUseCase{nodeResolver: newNodeResolver(entries, expiries, logger)}
}

func (uc *GetLessonUseCase) Execute(ctx context.Context, query GetLessonQuery) (*dto.NodeDTO, error) {
	return uc.resolve(ctx, query.Viewer, query.Course, query.Module, query.Lesson)
}
