// Package usecase implements the protected school operations. Every operation takes
// the authenticated principal and checks ownership before touching data.
package usecase

import (
	"context"

	identityDomain "github.com/rahats/school/internal/identity/domain"
	schoolDomain "github.com/rahats/school/internal/school/domain"
)

// GradeRepository defines persistence of students, classes and enrollments.
type GradeRepository interface {
	// GetStudent returns the student profile or ErrStudentNotFound.
	GetStudent(ctx context.Context, studentID int64) (*schoolDomain.Student, error)

	// ListGrades returns the enrollments of a student.
	ListGrades(ctx context.Context, studentID int64) ([]*schoolDomain.Grade, error)

	// TeachesStudent reports whether the teacher grades the student in any course.
	TeachesStudent(ctx context.Context, teacherID, studentID int64) (bool, error)

	// ListTeacherClasses returns the distinct classes of the students a teacher grades.
	ListTeacherClasses(ctx context.Context, teacherID int64) ([]*schoolDomain.Class, error)

	// ListTeacherStudents returns the enrollments graded by a teacher.
	ListTeacherStudents(ctx context.Context, teacherID int64, offset, limit int) ([]*schoolDomain.StudentGrade, error)

	// UpdateGrades writes the scores and average and returns the number of matched
	// enrollments.
	UpdateGrades(ctx context.Context, input *schoolDomain.UpdateGradesInput, average float64) (int64, error)

	// GetCourseStanding returns the student's class and average in a course, or
	// ErrEnrollmentNotFound.
	GetCourseStanding(ctx context.Context, studentID, courseID int64) (*schoolDomain.CourseStanding, error)
}

// MaterialRepository defines persistence of teaching materials.
type MaterialRepository interface {
	Create(ctx context.Context, material *schoolDomain.Material) error
	Get(ctx context.Context, materialID int64) (*schoolDomain.Material, error)
	Delete(ctx context.Context, materialID int64) error
	ListByTeacher(ctx context.Context, teacherID int64, offset, limit int) ([]*schoolDomain.Material, error)
	ListForCourse(
		ctx context.Context,
		courseID int64,
		targetRange schoolDomain.TargetRange,
	) ([]*schoolDomain.Material, error)
}

// SchoolUseCase defines the protected school operations.
type SchoolUseCase interface {
	// StudentDashboard returns the profile and grades of a student. Allowed for the
	// student themself and for teachers who grade that student.
	StudentDashboard(
		ctx context.Context,
		principal *identityDomain.Principal,
		studentID int64,
	) (*schoolDomain.Dashboard, error)

	// SuggestedVideos returns the materials matching the student's level in a course.
	SuggestedVideos(
		ctx context.Context,
		principal *identityDomain.Principal,
		studentID, courseID int64,
	) ([]*schoolDomain.Material, error)

	TeacherClasses(
		ctx context.Context,
		principal *identityDomain.Principal,
		teacherID int64,
	) ([]*schoolDomain.Class, error)

	TeacherStudents(
		ctx context.Context,
		principal *identityDomain.Principal,
		teacherID int64,
		offset, limit int,
	) ([]*schoolDomain.StudentGrade, error)

	// UpdateGrades stores a grade entry. The entry's teacher must be the principal.
	UpdateGrades(
		ctx context.Context,
		principal *identityDomain.Principal,
		input *schoolDomain.UpdateGradesInput,
	) (*schoolDomain.GradeUpdate, error)

	CreateMaterial(
		ctx context.Context,
		principal *identityDomain.Principal,
		input *schoolDomain.CreateMaterialInput,
	) (*schoolDomain.Material, error)

	TeacherMaterials(
		ctx context.Context,
		principal *identityDomain.Principal,
		teacherID int64,
		offset, limit int,
	) ([]*schoolDomain.Material, error)

	// DeleteMaterial removes a material owned by the principal.
	DeleteMaterial(ctx context.Context, principal *identityDomain.Principal, materialID int64) error
}
