package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rahats/school/internal/httputil"
	identityDomain "github.com/rahats/school/internal/identity/domain"
	identityHTTP "github.com/rahats/school/internal/identity/http"
	schoolDomain "github.com/rahats/school/internal/school/domain"
	schoolUsecaseMocks "github.com/rahats/school/internal/school/usecase/mocks"
)

var (
	studentPrincipal = &identityDomain.Principal{SubjectID: 42, Role: identityDomain.RoleStudent, SessionID: "s-42"}
	teacherPrincipal = &identityDomain.Principal{SubjectID: 7, Role: identityDomain.RoleTeacher, SessionID: "t-7"}
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func floatPtr(f float64) *float64 {
	return &f
}

// setupTestRouter registers every school route behind a middleware that injects
// principal. A nil principal leaves the request unauthenticated.
func setupTestRouter(
	t *testing.T,
	principal *identityDomain.Principal,
) (*gin.Engine, *schoolUsecaseMocks.MockSchoolUseCase) {
	t.Helper()
	mockUseCase := &schoolUsecaseMocks.MockSchoolUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })
	handler := NewSchoolHandler(mockUseCase, createTestLogger())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if principal != nil {
			c.Request = c.Request.WithContext(identityHTTP.WithPrincipal(c.Request.Context(), principal))
		}
		c.Next()
	})
	router.GET("/api/student/dashboard/:studentId", handler.DashboardHandler)
	router.GET("/api/student/suggested-videos/:studentId/:courseId", handler.SuggestedVideosHandler)
	router.GET("/api/teacher/classes/:teacherId", handler.ClassesHandler)
	router.GET("/api/teacher/students/:teacherId", handler.StudentsHandler)
	router.POST("/api/teacher/update-grades", handler.UpdateGradesHandler)
	router.POST("/api/teacher/upload-material", handler.UploadMaterialHandler)
	router.GET("/api/teacher/materials/:teacherId", handler.MaterialsHandler)
	router.DELETE("/api/teacher/materials/:id", handler.DeleteMaterialHandler)
	return router, mockUseCase
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		_ = json.NewEncoder(&buf).Encode(v)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSchoolHandler_DashboardHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, studentPrincipal)
		mockUseCase.On("StudentDashboard", mock.Anything, studentPrincipal, int64(42)).
			Return(&schoolDomain.Dashboard{
				Student: &schoolDomain.Student{ID: 42, Name: "Ali", Lastname: "Kaya"},
				Grades: []*schoolDomain.Grade{{
					CourseID:   3,
					CourseName: "Fizik",
					Scores:     schoolDomain.Scores{Exam1: floatPtr(80)},
				}},
			}, nil)

		w := doRequest(router, http.MethodGet, "/api/student/dashboard/42", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		student := resp["student"].(map[string]any)
		assert.Equal(t, "Ali", student["name"])
		grades := resp["grades"].([]any)
		require.Len(t, grades, 1)
		grade := grades[0].(map[string]any)
		assert.Equal(t, "Fizik", grade["course_name"])
		assert.Equal(t, float64(80), grade["exam1"])
		assert.Nil(t, grade["exam2"])
	})

	t.Run("EmptyGradesRenderAsArray", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, studentPrincipal)
		mockUseCase.On("StudentDashboard", mock.Anything, studentPrincipal, int64(42)).
			Return(&schoolDomain.Dashboard{Student: &schoolDomain.Student{ID: 42}}, nil)

		w := doRequest(router, http.MethodGet, "/api/student/dashboard/42", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"grades":[]`)
	})

	t.Run("Forbidden_OtherStudent", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, studentPrincipal)
		mockUseCase.On("StudentDashboard", mock.Anything, studentPrincipal, int64(43)).
			Return(nil, schoolDomain.ErrNotOwner)

		w := doRequest(router, http.MethodGet, "/api/student/dashboard/43", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "forbidden", decodeError(t, w).Error)
	})

	t.Run("NotFound", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, teacherPrincipal)
		mockUseCase.On("StudentDashboard", mock.Anything, teacherPrincipal, int64(99)).
			Return(nil, schoolDomain.ErrStudentNotFound)

		w := doRequest(router, http.MethodGet, "/api/student/dashboard/99", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		router, _ := setupTestRouter(t, studentPrincipal)

		for _, id := range []string{"abc", "0", "-1"} {
			w := doRequest(router, http.MethodGet, "/api/student/dashboard/"+id, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, id)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		router, _ := setupTestRouter(t, nil)

		w := doRequest(router, http.MethodGet, "/api/student/dashboard/42", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSchoolHandler_SuggestedVideosHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, studentPrincipal)
		mockUseCase.On("SuggestedVideos", mock.Anything, studentPrincipal, int64(42), int64(3)).
			Return([]*schoolDomain.Material{{
				ID:          5,
				CourseID:    3,
				ClassLevel:  "10",
				TargetRange: schoolDomain.Range40To60,
				Type:        schoolDomain.MaterialTypeVideo,
				Title:       "Newton",
			}}, nil)

		w := doRequest(router, http.MethodGet, "/api/student/suggested-videos/42/3", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []schoolDomain.Material `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, schoolDomain.Range40To60, resp.Data[0].TargetRange)
	})

	t.Run("EmptyList", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, studentPrincipal)
		mockUseCase.On("SuggestedVideos", mock.Anything, studentPrincipal, int64(42), int64(3)).
			Return([]*schoolDomain.Material(nil), nil)

		w := doRequest(router, http.MethodGet, "/api/student/suggested-videos/42/3", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})

	t.Run("InvalidCourseID", func(t *testing.T) {
		router, _ := setupTestRouter(t, studentPrincipal)

		w := doRequest(router, http.MethodGet, "/api/student/suggested-videos/42/x", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSchoolHandler_ClassesHandler(t *testing.T) {
	router, mockUseCase := setupTestRouter(t, teacherPrincipal)
	mockUseCase.On("TeacherClasses", mock.Anything, teacherPrincipal, int64(7)).
		Return([]*schoolDomain.Class{{ID: 1, Name: "10-A"}}, nil)
	mockUseCase.On("TeacherClasses", mock.Anything, teacherPrincipal, int64(8)).
		Return(nil, schoolDomain.ErrNotOwner)

	w := doRequest(router, http.MethodGet, "/api/teacher/classes/7", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"id":1,"name":"10-A"}]}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/teacher/classes/8", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSchoolHandler_StudentsHandler(t *testing.T) {
	t.Run("DefaultPagination", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, teacherPrincipal)
		mockUseCase.On("TeacherStudents", mock.Anything, teacherPrincipal, int64(7), 0, 50).
			Return([]*schoolDomain.StudentGrade{{StudentID: 42, Name: "Ali", ClassName: "10-A"}}, nil)

		w := doRequest(router, http.MethodGet, "/api/teacher/students/7", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"student_id":42`)
	})

	t.Run("CustomPagination", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, teacherPrincipal)
		mockUseCase.On("TeacherStudents", mock.Anything, teacherPrincipal, int64(7), 20, 10).
			Return([]*schoolDomain.StudentGrade{}, nil)

		w := doRequest(router, http.MethodGet, "/api/teacher/students/7?offset=20&limit=10", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InvalidPagination", func(t *testing.T) {
		router, _ := setupTestRouter(t, teacherPrincipal)

		w := doRequest(router, http.MethodGet, "/api/teacher/students/7?limit=1000", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSchoolHandler_UpdateGradesHandler(t *testing.T) {
	validBody := map[string]any{
		"student_id": 42,
		"teacher_id": 7,
		"exam1":      80,
		"exam2":      90,
		"oral1":      70,
		"oral2":      0,
	}

	t.Run("Success", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, teacherPrincipal)
		mockUseCase.On("UpdateGrades", mock.Anything, teacherPrincipal,
			mock.MatchedBy(func(in *schoolDomain.UpdateGradesInput) bool {
				return in.StudentID == 42 && in.TeacherID == 7 && in.CourseID == nil &&
					in.Exam1 == 80 && in.Oral2 == 0
			})).
			Return(&schoolDomain.GradeUpdate{StudentID: 42, Average: 60, Updated: 1}, nil)

		w := doRequest(router, http.MethodPost, "/api/teacher/update-grades", validBody)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"student_id":42,"average":60,"updated":1}`, w.Body.String())
	})

	t.Run("MissingScore", func(t *testing.T) {
		router, _ := setupTestRouter(t, teacherPrincipal)

		w := doRequest(router, http.MethodPost, "/api/teacher/update-grades", map[string]any{
			"student_id": 42,
			"teacher_id": 7,
			"exam1":      80,
			"exam2":      90,
			"oral1":      70,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeError(t, w).Message, "oral2")
	})

	t.Run("ScoreOutOfRange", func(t *testing.T) {
		router, _ := setupTestRouter(t, teacherPrincipal)
		body := map[string]any{"student_id": 42, "teacher_id": 7, "exam1": 101, "exam2": 0, "oral1": 0, "oral2": 0}

		w := doRequest(router, http.MethodPost, "/api/teacher/update-grades", body)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		router, _ := setupTestRouter(t, teacherPrincipal)

		w := doRequest(router, http.MethodPost, "/api/teacher/update-grades", "{")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("OtherTeacher", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, teacherPrincipal)
		mockUseCase.On("UpdateGrades", mock.Anything, teacherPrincipal, mock.Anything).
			Return(nil, schoolDomain.ErrNotOwner)

		body := map[string]any{"student_id": 42, "teacher_id": 8, "exam1": 1, "exam2": 1, "oral1": 1, "oral2": 1}
		w := doRequest(router, http.MethodPost, "/api/teacher/update-grades", body)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("NoEnrollment", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, teacherPrincipal)
		mockUseCase.On("UpdateGrades", mock.Anything, teacherPrincipal, mock.Anything).
			Return(nil, schoolDomain.ErrEnrollmentNotFound)

		w := doRequest(router, http.MethodPost, "/api/teacher/update-grades", validBody)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSchoolHandler_UploadMaterialHandler(t *testing.T) {
	body := map[string]any{
		"teacher_id":   7,
		"course_id":    3,
		"class_level":  "10",
		"target_range": "40-60",
		"type":         "url",
		"title":        "Kuvvet",
		"content":      "https://example.com/kuvvet",
	}

	t.Run("Success", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, teacherPrincipal)
		mockUseCase.On("CreateMaterial", mock.Anything, teacherPrincipal,
			mock.MatchedBy(func(in *schoolDomain.CreateMaterialInput) bool {
				return in.Type == schoolDomain.MaterialTypeURL && in.TargetRange == schoolDomain.Range40To60
			})).
			Return(&schoolDomain.Material{
				ID:          11,
				TeacherID:   7,
				CourseID:    3,
				ClassLevel:  "10",
				TargetRange: schoolDomain.Range40To60,
				Type:        schoolDomain.MaterialTypeURL,
				Title:       "Kuvvet",
				Content:     "https://example.com/kuvvet",
				UploadedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			}, nil)

		w := doRequest(router, http.MethodPost, "/api/teacher/upload-material", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":11`)
	})

	t.Run("InvalidType", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, teacherPrincipal)
		mockUseCase.On("CreateMaterial", mock.Anything, teacherPrincipal, mock.Anything).
			Return(nil, schoolDomain.ErrInvalidMaterialType)

		invalid := map[string]any{}
		for k, v := range body {
			invalid[k] = v
		}
		invalid["type"] = "pdf"
		w := doRequest(router, http.MethodPost, "/api/teacher/upload-material", invalid)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("MissingTitle", func(t *testing.T) {
		router, _ := setupTestRouter(t, teacherPrincipal)
		invalid := map[string]any{}
		for k, v := range body {
			invalid[k] = v
		}
		delete(invalid, "title")

		w := doRequest(router, http.MethodPost, "/api/teacher/upload-material", invalid)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "validation_error", decodeError(t, w).Error)
	})
}

func TestSchoolHandler_MaterialsHandler(t *testing.T) {
	router, mockUseCase := setupTestRouter(t, teacherPrincipal)
	mockUseCase.On("TeacherMaterials", mock.Anything, teacherPrincipal, int64(7), 0, 25).
		Return([]*schoolDomain.Material{{ID: 1}, {ID: 2}}, nil)

	w := doRequest(router, http.MethodGet, "/api/teacher/materials/7?limit=25", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []schoolDomain.Material `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestSchoolHandler_DeleteMaterialHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, teacherPrincipal)
		mockUseCase.On("DeleteMaterial", mock.Anything, teacherPrincipal, int64(5)).Return(nil)

		w := doRequest(router, http.MethodDelete, "/api/teacher/materials/5", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("NotOwner", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, teacherPrincipal)
		mockUseCase.On("DeleteMaterial", mock.Anything, teacherPrincipal, int64(6)).
			Return(schoolDomain.ErrNotOwner)

		w := doRequest(router, http.MethodDelete, "/api/teacher/materials/6", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("UnknownMaterialForbidden", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t, teacherPrincipal)
		mockUseCase.On("DeleteMaterial", mock.Anything, teacherPrincipal, int64(9)).
			Return(schoolDomain.ErrNotOwner)

		w := doRequest(router, http.MethodDelete, "/api/teacher/materials/9", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
