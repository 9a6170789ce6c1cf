package dto

import (
	schoolDomain "github.com/rahats/school/internal/school/domain"
)

// ListResponse wraps list results in a data envelope.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

// MapListResponse wraps items, rendering a nil slice as an empty array.
func MapListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return ListResponse[T]{Data: items}
}

// DashboardResponse is the student dashboard payload.
type DashboardResponse struct {
	Student *schoolDomain.Student `json:"student"`
	Grades  []*schoolDomain.Grade `json:"grades"`
}

// MapDashboardToResponse converts a dashboard, rendering missing grades as an empty array.
func MapDashboardToResponse(dashboard *schoolDomain.Dashboard) DashboardResponse {
	grades := dashboard.Grades
	if grades == nil {
		grades = make([]*schoolDomain.Grade, 0)
	}
	return DashboardResponse{Student: dashboard.Student, Grades: grades}
}

// UpdateGradesResponse confirms a grade entry.
type UpdateGradesResponse struct {
	Success   bool    `json:"success"`
	StudentID int64   `json:"student_id"`
	Average   float64 `json:"average"`
	Updated   int64   `json:"updated"`
}

// MapGradeUpdateToResponse converts a grade update result to an API response.
func MapGradeUpdateToResponse(update *schoolDomain.GradeUpdate) UpdateGradesResponse {
	return UpdateGradesResponse{
		Success:   true,
		StudentID: update.StudentID,
		Average:   update.Average,
		Updated:   update.Updated,
	}
}
