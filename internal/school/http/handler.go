// Package http provides HTTP handlers for the student and teacher panels.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/rahats/school/internal/errors"
	"github.com/rahats/school/internal/httputil"
	identityDomain "github.com/rahats/school/internal/identity/domain"
	identityHTTP "github.com/rahats/school/internal/identity/http"
	"github.com/rahats/school/internal/school/http/dto"
	schoolUseCase "github.com/rahats/school/internal/school/usecase"
	customValidation "github.com/rahats/school/internal/validation"
)

// SchoolHandler handles the student and teacher panel endpoints. Ownership checks
// are made by the use case against the principal set by the authentication middleware.
type SchoolHandler struct {
	schoolUseCase schoolUseCase.SchoolUseCase
	logger        *slog.Logger
}

// NewSchoolHandler creates a new school handler with required dependencies.
func NewSchoolHandler(schoolUseCase schoolUseCase.SchoolUseCase, logger *slog.Logger) *SchoolHandler {
	return &SchoolHandler{
		schoolUseCase: schoolUseCase,
		logger:        logger,
	}
}

func (h *SchoolHandler) principal(c *gin.Context) (*identityDomain.Principal, bool) {
	principal, ok := identityHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return nil, false
	}
	return principal, true
}

func (h *SchoolHandler) idParam(c *gin.Context, name string) (int64, bool) {
	id, err := parseIDParam(c, name)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return 0, false
	}
	return id, true
}

// DashboardHandler returns a student's profile and grades.
// GET /api/student/dashboard/:studentId - Requires authentication.
func (h *SchoolHandler) DashboardHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	studentID, ok := h.idParam(c, "studentId")
	if !ok {
		return
	}

	dashboard, err := h.schoolUseCase.StudentDashboard(c.Request.Context(), principal, studentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDashboardToResponse(dashboard))
}

// SuggestedVideosHandler returns materials matching the student's level in a course.
// GET /api/student/suggested-videos/:studentId/:courseId - Requires student role.
func (h *SchoolHandler) SuggestedVideosHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	studentID, ok := h.idParam(c, "studentId")
	if !ok {
		return
	}
	courseID, ok := h.idParam(c, "courseId")
	if !ok {
		return
	}

	materials, err := h.schoolUseCase.SuggestedVideos(c.Request.Context(), principal, studentID, courseID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapListResponse(materials))
}

// ClassesHandler lists the classes a teacher grades.
// GET /api/teacher/classes/:teacherId - Requires teacher role.
func (h *SchoolHandler) ClassesHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	teacherID, ok := h.idParam(c, "teacherId")
	if !ok {
		return
	}

	classes, err := h.schoolUseCase.TeacherClasses(c.Request.Context(), principal, teacherID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapListResponse(classes))
}

// StudentsHandler lists the enrollments a teacher grades.
// GET /api/teacher/students/:teacherId?offset=0&limit=50 - Requires teacher role.
func (h *SchoolHandler) StudentsHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	teacherID, ok := h.idParam(c, "teacherId")
	if !ok {
		return
	}
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	students, err := h.schoolUseCase.TeacherStudents(
		c.Request.Context(),
		principal,
		teacherID,
		page.Offset,
		page.Limit,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapListResponse(students))
}

// UpdateGradesHandler stores a grade entry for one of the teacher's students.
// POST /api/teacher/update-grades - Requires teacher role.
func (h *SchoolHandler) UpdateGradesHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.UpdateGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	update, err := h.schoolUseCase.UpdateGrades(c.Request.Context(), principal, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGradeUpdateToResponse(update))
}

// UploadMaterialHandler creates a teaching material.
// POST /api/teacher/upload-material - Requires teacher role.
func (h *SchoolHandler) UploadMaterialHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req dto.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	material, err := h.schoolUseCase.CreateMaterial(c.Request.Context(), principal, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, material)
}

// MaterialsHandler lists a teacher's materials, newest first.
// GET /api/teacher/materials/:teacherId?offset=0&limit=50 - Requires teacher role.
func (h *SchoolHandler) MaterialsHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	teacherID, ok := h.idParam(c, "teacherId")
	if !ok {
		return
	}
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	materials, err := h.schoolUseCase.TeacherMaterials(
		c.Request.Context(),
		principal,
		teacherID,
		page.Offset,
		page.Limit,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapListResponse(materials))
}

// DeleteMaterialHandler removes one of the teacher's materials.
// DELETE /api/teacher/materials/:id - Requires teacher role.
func (h *SchoolHandler) DeleteMaterialHandler(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	materialID, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	if err := h.schoolUseCase.DeleteMaterial(c.Request.Context(), principal, materialID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
