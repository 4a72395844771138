package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogUsecases "coursegate/internal/application/catalog/usecases"
	"coursegate/internal/interfaces/http/middleware"
	"coursegate/internal/shared/logger"
	"coursegate/internal/shared/utils"
)

// CatalogHandler serves courses, modules and lessons redacted for the current viewer.
type CatalogHandler struct {
	getCourseUC GetCourseExecutor
	getModuleUC GetModuleExecutor
	getLessonUC GetLessonExecutor
	populateUC  PopulateCatalogExecutor
	logger      logger.Interface
}

func NewCatalogHandler(
	getCourseUC GetCourseExecutor,
	getModuleUC GetModuleExecutor,
	getLessonUC GetLessonExecutor,
	populateUC PopulateCatalogExecutor,
	logger logger.Interface,
) *CatalogHandler {
	return &CatalogHandler{
		getCourseUC: getCourseUC,
		getModuleUC: getModuleUC,
		getLessonUC: getLessonUC,
		populateUC:  populateUC,
		logger:      logger,
	}
}

// GET /courses/:course
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	node, err := h.getCourseUC.Execute(c.Request.Context(), catalogUsecases.GetCourseQuery{
		Viewer: middleware.GetViewer(c),
		Course: c.Param("course"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", node)
}

// GET /courses/:course/modules/:module
func (h *CatalogHandler) GetModule(c *gin.Context) {
	node, err := h.getModuleUC.Execute(c.Request.Context(), catalogUsecases.GetModuleQuery{
		Viewer: middleware.GetViewer(c),
		Course: c.Param("course"),
		Module: c.Param("module"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", node)
}

// GET /courses/:course/modules/:module/lessons/:lesson
func (h *CatalogHandler) GetLesson(c *gin.Context) {
	node, err := h.getLessonUC.Execute(c.Request.Context(), catalogUsecases.GetLessonQuery{
		Viewer: middleware.GetViewer(c),
		Course: c.Param("course"),
		Module: c.Param("module"),
		Lesson: c.Param("lesson"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", node)
}

// POST /admin/catalog/populate
func (h *CatalogHandler) Populate(c *gin.Context) {
	result, err := h.populateUC.Execute(c.Request.Context(), catalogUsecases.PopulateCatalogCommand{
		Reason:    "admin:" + middleware.GetViewer(c).ID,
		Broadcast: true,
	})
	if err != nil {
		h.logger.Errorw("failed to populate catalog", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "catalog repopulated", result)
}
