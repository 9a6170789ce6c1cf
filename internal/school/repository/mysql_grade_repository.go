package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rahats/school/internal/database"
	apperrors "github.com/rahats/school/internal/errors"
	schoolDomain "github.com/rahats/school/internal/school/domain"
)

// MySQLGradeRepository implements student, class and enrollment queries for MySQL.
type MySQLGradeRepository struct {
	db *sql.DB
}

// GetStudent fetches the public profile of a student.
func (m *MySQLGradeRepository) GetStudent(ctx context.Context, studentID int64) (*schoolDomain.Student, error) {
	querier := database.GetTx(ctx, m.db)

	var student schoolDomain.Student
	err := querier.QueryRowContext(
		ctx,
		`SELECT id, name, lastname FROM students WHERE id = ?`,
		studentID,
	).Scan(&student.ID, &student.Name, &student.Lastname)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schoolDomain.ErrStudentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get student")
	}
	return &student, nil
}

// ListGrades returns the enrollments of a student ordered by course name.
func (m *MySQLGradeRepository) ListGrades(ctx context.Context, studentID int64) ([]*schoolDomain.Grade, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT e.course_id, c.name, e.exam1, e.exam2, e.oral1, e.oral2, e.average
		 FROM enrollments e
		 JOIN courses c ON c.id = e.course_id
		 WHERE e.student_id = ?
		 ORDER BY c.name`,
		studentID,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list grades")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanGrades(rows)
}

// TeachesStudent reports whether any enrollment links the teacher and the student.
func (m *MySQLGradeRepository) TeachesStudent(ctx context.Context, teacherID, studentID int64) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	var one int
	err := querier.QueryRowContext(
		ctx,
		`SELECT 1 FROM enrollments WHERE teacher_id = ? AND student_id = ? LIMIT 1`,
		teacherID,
		studentID,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to check enrollment")
	}
	return true, nil
}

// ListTeacherClasses returns the distinct classes of the students a teacher grades.
func (m *MySQLGradeRepository) ListTeacherClasses(
	ctx context.Context,
	teacherID int64,
) ([]*schoolDomain.Class, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT DISTINCT cl.id, cl.name
		 FROM classes cl
		 JOIN students s ON s.class_id = cl.id
		 JOIN enrollments e ON e.student_id = s.id
		 WHERE e.teacher_id = ?
		 ORDER BY cl.name`,
		teacherID,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list classes")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanClasses(rows)
}

// ListTeacherStudents returns the enrollments graded by a teacher with pagination.
func (m *MySQLGradeRepository) ListTeacherStudents(
	ctx context.Context,
	teacherID int64,
	offset, limit int,
) ([]*schoolDomain.StudentGrade, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT s.id, s.name, s.lastname, cl.id, cl.name, c.id, c.name,
		        e.exam1, e.exam2, e.oral1, e.oral2, e.average
		 FROM enrollments e
		 JOIN students s ON s.id = e.student_id
		 JOIN classes cl ON cl.id = s.class_id
		 JOIN courses c ON c.id = e.course_id
		 WHERE e.teacher_id = ?
		 ORDER BY cl.name, s.lastname, s.name, c.name
		 LIMIT ? OFFSET ?`,
		teacherID,
		limit,
		offset,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list students")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanStudentGrades(rows)
}

// UpdateGrades writes the scores and returns the number of matched enrollments.
// MySQL reports changed rows only, so a zero count is confirmed with a lookup to
// tell "unchanged" from "no such enrollment".
func (m *MySQLGradeRepository) UpdateGrades(
	ctx context.Context,
	input *schoolDomain.UpdateGradesInput,
	average float64,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	where := `student_id = ? AND teacher_id = ?`
	args := []any{input.StudentID, input.TeacherID}
	if input.CourseID != nil {
		where += ` AND course_id = ?`
		args = append(args, *input.CourseID)
	}

	updateArgs := append([]any{input.Exam1, input.Exam2, input.Oral1, input.Oral2, average}, args...)
	result, err := querier.ExecContext(
		ctx,
		`UPDATE enrollments SET exam1 = ?, exam2 = ?, oral1 = ?, oral2 = ?, average = ? WHERE `+where,
		updateArgs...,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to update grades")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected > 0 {
		return affected, nil
	}

	var matched int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM enrollments WHERE `+where, args...).
		Scan(&matched); err != nil {
		return 0, apperrors.Wrap(err, "failed to count enrollments")
	}
	return matched, nil
}

// GetCourseStanding returns the student's class name and average in a course.
func (m *MySQLGradeRepository) GetCourseStanding(
	ctx context.Context,
	studentID, courseID int64,
) (*schoolDomain.CourseStanding, error) {
	querier := database.GetTx(ctx, m.db)

	standing := schoolDomain.CourseStanding{StudentID: studentID, CourseID: courseID}
	var average sql.NullFloat64
	err := querier.QueryRowContext(
		ctx,
		`SELECT cl.name, e.average
		 FROM enrollments e
		 JOIN students s ON s.id = e.student_id
		 JOIN classes cl ON cl.id = s.class_id
		 WHERE e.student_id = ? AND e.course_id = ?
		 LIMIT 1`,
		studentID,
		courseID,
	).Scan(&standing.ClassName, &average)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schoolDomain.ErrEnrollmentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get course standing")
	}
	standing.Average = floatPtr(average)
	return &standing, nil
}

// NewMySQLGradeRepository creates a new MySQL grade repository.
func NewMySQLGradeRepository(db *sql.DB) *MySQLGradeRepository {
	return &MySQLGradeRepository{db: db}
}
