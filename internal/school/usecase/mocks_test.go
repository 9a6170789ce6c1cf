package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"

	schoolDomain "github.com/rahats/school/internal/school/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockGradeRepository is a mock implementation of GradeRepository.
type MockGradeRepository struct {
	mock.Mock
}

func (m *MockGradeRepository) GetStudent(ctx context.Context, studentID int64) (*schoolDomain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schoolDomain.Student), args.Error(1)
}

func (m *MockGradeRepository) ListGrades(ctx context.Context, studentID int64) ([]*schoolDomain.Grade, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schoolDomain.Grade), args.Error(1)
}

func (m *MockGradeRepository) TeachesStudent(ctx context.Context, teacherID, studentID int64) (bool, error) {
	args := m.Called(ctx, teacherID, studentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGradeRepository) ListTeacherClasses(ctx context.Context, teacherID int64) ([]*schoolDomain.Class, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schoolDomain.Class), args.Error(1)
}

func (m *MockGradeRepository) ListTeacherStudents(
	ctx context.Context,
	teacherID int64,
	offset, limit int,
) ([]*schoolDomain.StudentGrade, error) {
	args := m.Called(ctx, teacherID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schoolDomain.StudentGrade), args.Error(1)
}

func (m *MockGradeRepository) UpdateGrades(
	ctx context.Context,
	input *schoolDomain.UpdateGradesInput,
	average float64,
) (int64, error) {
	args := m.Called(ctx, input, average)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGradeRepository) GetCourseStanding(
	ctx context.Context,
	studentID, courseID int64,
) (*schoolDomain.CourseStanding, error) {
	args := m.Called(ctx, studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schoolDomain.CourseStanding), args.Error(1)
}

// MockMaterialRepository is a mock implementation of MaterialRepository.
type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) Create(ctx context.Context, material *schoolDomain.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) Get(ctx context.Context, materialID int64) (*schoolDomain.Material, error) {
	args := m.Called(ctx, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schoolDomain.Material), args.Error(1)
}

func (m *MockMaterialRepository) Delete(ctx context.Context, materialID int64) error {
	args := m.Called(ctx, materialID)
	return args.Error(0)
}

func (m *MockMaterialRepository) ListByTeacher(
	ctx context.Context,
	teacherID int64,
	offset, limit int,
) ([]*schoolDomain.Material, error) {
	args := m.Called(ctx, teacherID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schoolDomain.Material), args.Error(1)
}

func (m *MockMaterialRepository) ListForCourse(
	ctx context.Context,
	courseID int64,
	targetRange schoolDomain.TargetRange,
) ([]*schoolDomain.Material, error) {
	args := m.Called(ctx, courseID, targetRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schoolDomain.Material), args.Error(1)
}

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}
