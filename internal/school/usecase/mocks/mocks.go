// Package mocks provides mock implementations of the school use case for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	identityDomain "github.com/rahats/school/internal/identity/domain"
	schoolDomain "github.com/rahats/school/internal/school/domain"
)

// MockSchoolUseCase is a mock implementation of SchoolUseCase for testing.
type MockSchoolUseCase struct {
	mock.Mock
}

func (m *MockSchoolUseCase) StudentDashboard(
	ctx context.Context,
	principal *identityDomain.Principal,
	studentID int64,
) (*schoolDomain.Dashboard, error) {
	args := m.Called(ctx, principal, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schoolDomain.Dashboard), args.Error(1)
}

func (m *MockSchoolUseCase) SuggestedVideos(
	ctx context.Context,
	principal *identityDomain.Principal,
	studentID, courseID int64,
) ([]*schoolDomain.Material, error) {
	args := m.Called(ctx, principal, studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schoolDomain.Material), args.Error(1)
}

func (m *MockSchoolUseCase) TeacherClasses(
	ctx context.Context,
	principal *identityDomain.Principal,
	teacherID int64,
) ([]*schoolDomain.Class, error) {
	args := m.Called(ctx, principal, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schoolDomain.Class), args.Error(1)
}

func (m *MockSchoolUseCase) TeacherStudents(
	ctx context.Context,
	principal *identityDomain.Principal,
	teacherID int64,
	offset, limit int,
) ([]*schoolDomain.StudentGrade, error) {
	args := m.Called(ctx, principal, teacherID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schoolDomain.StudentGrade), args.Error(1)
}

func (m *MockSchoolUseCase) UpdateGrades(
	ctx context.Context,
	principal *identityDomain.Principal,
	input *schoolDomain.UpdateGradesInput,
) (*schoolDomain.GradeUpdate, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schoolDomain.GradeUpdate), args.Error(1)
}

func (m *MockSchoolUseCase) CreateMaterial(
	ctx context.Context,
	principal *identityDomain.Principal,
	input *schoolDomain.CreateMaterialInput,
) (*schoolDomain.Material, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schoolDomain.Material), args.Error(1)
}

func (m *MockSchoolUseCase) TeacherMaterials(
	ctx context.Context,
	principal *identityDomain.Principal,
	teacherID int64,
	offset, limit int,
) ([]*schoolDomain.Material, error) {
	args := m.Called(ctx, principal, teacherID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schoolDomain.Material), args.Error(1)
}

func (m *MockSchoolUseCase) DeleteMaterial(
	ctx context.Context,
	principal *identityDomain.Principal,
	materialID int64,
) error {
	args := m.Called(ctx, principal, materialID)
	return args.Error(0)
}
