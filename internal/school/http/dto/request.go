// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	schoolDomain "github.com/rahats/school/internal/school/domain"
	customValidation "github.com/rahats/school/internal/validation"
)

// UpdateGradesRequest is the body of the grade entry endpoint. Scores are pointers so
// that an explicit zero can be told apart from a missing field.
type UpdateGradesRequest struct {
	StudentID int64    `json:"student_id"`
	TeacherID int64    `json:"teacher_id"`
	CourseID  *int64   `json:"course_id,omitempty"`
	Exam1     *float64 `json:"exam1"`
	Exam2     *float64 `json:"exam2"`
	Oral1     *float64 `json:"oral1"`
	Oral2     *float64 `json:"oral2"`
}

// Validate checks that every score is present and within 0-100.
func (r *UpdateGradesRequest) Validate() error {
	score := []validation.Rule{validation.NotNil, validation.Min(0.0), validation.Max(100.0)}
	return validation.ValidateStruct(r,
		validation.Field(&r.StudentID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.TeacherID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.CourseID, validation.NilOrNotEmpty, validation.Min(int64(1))),
		validation.Field(&r.Exam1, score...),
		validation.Field(&r.Exam2, score...),
		validation.Field(&r.Oral1, score...),
		validation.Field(&r.Oral2, score...),
	)
}

// ToInput converts a validated request into the use case input.
func (r *UpdateGradesRequest) ToInput() *schoolDomain.UpdateGradesInput {
	return &schoolDomain.UpdateGradesInput{
		StudentID: r.StudentID,
		TeacherID: r.TeacherID,
		CourseID:  r.CourseID,
		Exam1:     *r.Exam1,
		Exam2:     *r.Exam2,
		Oral1:     *r.Oral1,
		Oral2:     *r.Oral2,
	}
}

// CreateMaterialRequest is the body of the material upload endpoint. Content holds a
// link for url materials and a video reference for video materials.
type CreateMaterialRequest struct {
	TeacherID   int64  `json:"teacher_id"`
	CourseID    int64  `json:"course_id"`
	ClassLevel  string `json:"class_level"`
	TargetRange string `json:"target_range"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Content     string `json:"content"`
}

// Validate checks the shape of the request. Type, range and level are checked again
// by the use case.
func (r *CreateMaterialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TeacherID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.CourseID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.ClassLevel, validation.Required),
		validation.Field(&r.TargetRange, validation.Required),
		validation.Field(&r.Type, validation.Required),
		validation.Field(&r.Title, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.Content, validation.Required, customValidation.NotBlank),
	)
}

// ToInput converts a validated request into the use case input.
func (r *CreateMaterialRequest) ToInput() *schoolDomain.CreateMaterialInput {
	return &schoolDomain.CreateMaterialInput{
		TeacherID:   r.TeacherID,
		CourseID:    r.CourseID,
		ClassLevel:  r.ClassLevel,
		TargetRange: schoolDomain.TargetRange(r.TargetRange),
		Type:        schoolDomain.MaterialType(r.Type),
		Title:       r.Title,
		Content:     r.Content,
	}
}
