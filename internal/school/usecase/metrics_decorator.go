package usecase

import (
	"context"
	"time"

	identityDomain "github.com/rahats/school/internal/identity/domain"
	"github.com/rahats/school/internal/metrics"
	schoolDomain "github.com/rahats/school/internal/school/domain"
)

const metricsDomain = "school"

// schoolUseCaseWithMetrics decorates SchoolUseCase with metrics instrumentation.
type schoolUseCaseWithMetrics struct {
	next    SchoolUseCase
	metrics metrics.BusinessMetrics
}

// NewSchoolUseCaseWithMetrics wraps a SchoolUseCase with metrics recording.
func NewSchoolUseCaseWithMetrics(useCase SchoolUseCase, m metrics.BusinessMetrics) SchoolUseCase {
	return &schoolUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *schoolUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusOf(err)
	s.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	s.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func (s *schoolUseCaseWithMetrics) StudentDashboard(
	ctx context.Context,
	principal *identityDomain.Principal,
	studentID int64,
) (*schoolDomain.Dashboard, error) {
	start := time.Now()
	dashboard, err := s.next.StudentDashboard(ctx, principal, studentID)
	s.record(ctx, "student_dashboard", start, err)
	return dashboard, err
}

func (s *schoolUseCaseWithMetrics) SuggestedVideos(
	ctx context.Context,
	principal *identityDomain.Principal,
	studentID, courseID int64,
) ([]*schoolDomain.Material, error) {
	start := time.Now()
	materials, err := s.next.SuggestedVideos(ctx, principal, studentID, courseID)
	s.record(ctx, "suggested_videos", start, err)
	return materials, err
}

func (s *schoolUseCaseWithMetrics) TeacherClasses(
	ctx context.Context,
	principal *identityDomain.Principal,
	teacherID int64,
) ([]*schoolDomain.Class, error) {
	start := time.Now()
	classes, err := s.next.TeacherClasses(ctx, principal, teacherID)
	s.record(ctx, "teacher_classes", start, err)
	return classes, err
}

func (s *schoolUseCaseWithMetrics) TeacherStudents(
	ctx context.Context,
	principal *identityDomain.Principal,
	teacherID int64,
	offset, limit int,
) ([]*schoolDomain.StudentGrade, error) {
	start := time.Now()
	students, err := s.next.TeacherStudents(ctx, principal, teacherID, offset, limit)
	s.record(ctx, "teacher_students", start, err)
	return students, err
}

func (s *schoolUseCaseWithMetrics) UpdateGrades(
	ctx context.Context,
	principal *identityDomain.Principal,
	input *schoolDomain.UpdateGradesInput,
) (*schoolDomain.GradeUpdate, error) {
	start := time.Now()
	update, err := s.next.UpdateGrades(ctx, principal, input)
	s.record(ctx, "update_grades", start, err)
	return update, err
}

func (s *schoolUseCaseWithMetrics) CreateMaterial(
	ctx context.Context,
	principal *identityDomain.Principal,
	input *schoolDomain.CreateMaterialInput,
) (*schoolDomain.Material, error) {
	start := time.Now()
	material, err := s.next.CreateMaterial(ctx, principal, input)
	s.record(ctx, "material_create", start, err)
	return material, err
}

func (s *schoolUseCaseWithMetrics) TeacherMaterials(
	ctx context.Context,
	principal *identityDomain.Principal,
	teacherID int64,
	offset, limit int,
) ([]*schoolDomain.Material, error) {
	start := time.Now()
	materials, err := s.next.TeacherMaterials(ctx, principal, teacherID, offset, limit)
	s.record(ctx, "material_list", start, err)
	return materials, err
}

func (s *schoolUseCaseWithMetrics) DeleteMaterial(
	ctx context.Context,
	principal *identityDomain.Principal,
	materialID int64,
) error {
	start := time.Now()
	err := s.next.DeleteMaterial(ctx, principal, materialID)
	s.record(ctx, "material_delete", start, err)
	return err
}
