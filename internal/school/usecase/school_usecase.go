package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	validation "github.com/jellydator/validation"
	"golang.org/x/sync/errgroup"

	identityDomain "github.com/rahats/school/internal/identity/domain"
	schoolDomain "github.com/rahats/school/internal/school/domain"
	customValidation "github.com/rahats/school/internal/validation"
)

const (
	minScore = 0
	maxScore = 100
)

// schoolUseCase implements SchoolUseCase.
type schoolUseCase struct {
	gradeRepo    GradeRepository
	materialRepo MaterialRepository
	logger       *slog.Logger
}

// StudentDashboard loads the profile and grades concurrently once access is granted.
func (s *schoolUseCase) StudentDashboard(
	ctx context.Context,
	principal *identityDomain.Principal,
	studentID int64,
) (*schoolDomain.Dashboard, error) {
	if err := s.authorizeStudentView(ctx, principal, studentID); err != nil {
		return nil, err
	}

	dashboard := &schoolDomain.Dashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		student, err := s.gradeRepo.GetStudent(gctx, studentID)
		if err != nil {
			return err
		}
		dashboard.Student = student
		return nil
	})

	g.Go(func() error {
		grades, err := s.gradeRepo.ListGrades(gctx, studentID)
		if err != nil {
			return err
		}
		dashboard.Grades = grades
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if dashboard.Grades == nil {
		dashboard.Grades = []*schoolDomain.Grade{}
	}
	return dashboard, nil
}

// SuggestedVideos buckets the student's course average and returns the materials
// of that bucket whose class level matches the student's class.
func (s *schoolUseCase) SuggestedVideos(
	ctx context.Context,
	principal *identityDomain.Principal,
	studentID, courseID int64,
) ([]*schoolDomain.Material, error) {
	if err := s.requireSelf(principal, identityDomain.RoleStudent, studentID); err != nil {
		return nil, err
	}

	standing, err := s.gradeRepo.GetCourseStanding(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	targetRange := schoolDomain.TargetRangeFor(standing.Average)
	materials, err := s.materialRepo.ListForCourse(ctx, courseID, targetRange)
	if err != nil {
		return nil, err
	}

	suggested := make([]*schoolDomain.Material, 0, len(materials))
	for _, m := range materials {
		if schoolDomain.MatchesClass(m.ClassLevel, standing.ClassName) {
			suggested = append(suggested, m)
		}
	}
	return suggested, nil
}

// TeacherClasses lists the classes of the principal's students.
func (s *schoolUseCase) TeacherClasses(
	ctx context.Context,
	principal *identityDomain.Principal,
	teacherID int64,
) ([]*schoolDomain.Class, error) {
	if err := s.requireSelf(principal, identityDomain.RoleTeacher, teacherID); err != nil {
		return nil, err
	}
	return s.gradeRepo.ListTeacherClasses(ctx, teacherID)
}

// TeacherStudents lists the enrollments graded by the principal.
func (s *schoolUseCase) TeacherStudents(
	ctx context.Context,
	principal *identityDomain.Principal,
	teacherID int64,
	offset, limit int,
) ([]*schoolDomain.StudentGrade, error) {
	if err := s.requireSelf(principal, identityDomain.RoleTeacher, teacherID); err != nil {
		return nil, err
	}
	return s.gradeRepo.ListTeacherStudents(ctx, teacherID, offset, limit)
}

// UpdateGrades validates the scores, computes the average and writes both.
func (s *schoolUseCase) UpdateGrades(
	ctx context.Context,
	principal *identityDomain.Principal,
	input *schoolDomain.UpdateGradesInput,
) (*schoolDomain.GradeUpdate, error) {
	if err := s.requireSelf(principal, identityDomain.RoleTeacher, input.TeacherID); err != nil {
		return nil, err
	}

	if err := validation.ValidateStruct(input,
		validation.Field(&input.StudentID, validation.Required, validation.Min(int64(1))),
		validation.Field(&input.CourseID, validation.NilOrNotEmpty, validation.Min(int64(1))),
		validation.Field(&input.Exam1, validation.Min(float64(minScore)), validation.Max(float64(maxScore))),
		validation.Field(&input.Exam2, validation.Min(float64(minScore)), validation.Max(float64(maxScore))),
		validation.Field(&input.Oral1, validation.Min(float64(minScore)), validation.Max(float64(maxScore))),
		validation.Field(&input.Oral2, validation.Min(float64(minScore)), validation.Max(float64(maxScore))),
	); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	average := input.Average()
	updated, err := s.gradeRepo.UpdateGrades(ctx, input, average)
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, schoolDomain.ErrEnrollmentNotFound
	}

	return &schoolDomain.GradeUpdate{
		StudentID: input.StudentID,
		Average:   average,
		Updated:   updated,
	}, nil
}

// CreateMaterial stores a material owned by the principal.
func (s *schoolUseCase) CreateMaterial(
	ctx context.Context,
	principal *identityDomain.Principal,
	input *schoolDomain.CreateMaterialInput,
) (*schoolDomain.Material, error) {
	if err := s.requireSelf(principal, identityDomain.RoleTeacher, input.TeacherID); err != nil {
		return nil, err
	}

	if !input.Type.Valid() {
		return nil, schoolDomain.ErrInvalidMaterialType
	}
	if !input.TargetRange.Valid() {
		return nil, schoolDomain.ErrInvalidTargetRange
	}

	contentRules := []validation.Rule{validation.Required, customValidation.NotBlank, validation.Length(1, 2048)}
	if input.Type == schoolDomain.MaterialTypeURL {
		contentRules = append(contentRules, customValidation.HTTPURL)
	}

	if err := validation.ValidateStruct(input,
		validation.Field(&input.CourseID, validation.Required, validation.Min(int64(1))),
		validation.Field(&input.ClassLevel, validation.Required, validation.In(toAny(schoolDomain.ClassLevels)...)),
		validation.Field(&input.Title, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&input.Content, contentRules...),
	); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	material := &schoolDomain.Material{
		TeacherID:   input.TeacherID,
		CourseID:    input.CourseID,
		ClassLevel:  input.ClassLevel,
		TargetRange: input.TargetRange,
		Type:        input.Type,
		Title:       input.Title,
		Content:     input.Content,
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.materialRepo.Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// TeacherMaterials lists the principal's materials, newest first.
func (s *schoolUseCase) TeacherMaterials(
	ctx context.Context,
	principal *identityDomain.Principal,
	teacherID int64,
	offset, limit int,
) ([]*schoolDomain.Material, error) {
	if err := s.requireSelf(principal, identityDomain.RoleTeacher, teacherID); err != nil {
		return nil, err
	}
	return s.materialRepo.ListByTeacher(ctx, teacherID, offset, limit)
}

// DeleteMaterial removes a material after checking that the principal uploaded it.
// A missing material answers ErrNotOwner too, so ids of other teachers' uploads
// cannot be enumerated.
func (s *schoolUseCase) DeleteMaterial(
	ctx context.Context,
	principal *identityDomain.Principal,
	materialID int64,
) error {
	material, err := s.materialRepo.Get(ctx, materialID)
	if errors.Is(err, schoolDomain.ErrMaterialNotFound) {
		s.denied(principal, 0)
		return schoolDomain.ErrNotOwner
	}
	if err != nil {
		return err
	}
	if err := s.requireSelf(principal, identityDomain.RoleTeacher, material.TeacherID); err != nil {
		return err
	}
	return s.materialRepo.Delete(ctx, materialID)
}

// requireSelf allows only the principal of role whose id is ownerID.
func (s *schoolUseCase) requireSelf(principal *identityDomain.Principal, role identityDomain.Role, ownerID int64) error {
	if principal.Is(role, ownerID) {
		return nil
	}
	s.denied(principal, ownerID)
	return schoolDomain.ErrNotOwner
}

// authorizeStudentView allows the student themself and teachers grading the student.
func (s *schoolUseCase) authorizeStudentView(
	ctx context.Context,
	principal *identityDomain.Principal,
	studentID int64,
) error {
	if principal.Is(identityDomain.RoleStudent, studentID) {
		return nil
	}
	if principal != nil && principal.Role == identityDomain.RoleTeacher {
		teaches, err := s.gradeRepo.TeachesStudent(ctx, principal.SubjectID, studentID)
		if err != nil {
			return err
		}
		if teaches {
			return nil
		}
	}
	s.denied(principal, studentID)
	return schoolDomain.ErrNotOwner
}

func (s *schoolUseCase) denied(principal *identityDomain.Principal, ownerID int64) {
	attrs := []any{slog.Int64("owner_id", ownerID)}
	if principal != nil {
		attrs = append(attrs,
			slog.Int64("subject_id", principal.SubjectID),
			slog.String("role", principal.Role.String()))
	}
	s.logger.Warn("ownership check failed", attrs...)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// NewSchoolUseCase creates a new SchoolUseCase with the provided dependencies.
func NewSchoolUseCase(
	gradeRepo GradeRepository,
	materialRepo MaterialRepository,
	logger *slog.Logger,
) SchoolUseCase {
	return &schoolUseCase{
		gradeRepo:    gradeRepo,
		materialRepo: materialRepo,
		logger:       logger,
	}
}
