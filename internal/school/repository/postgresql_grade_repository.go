package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rahats/school/internal/database"
	apperrors "github.com/rahats/school/internal/errors"
	schoolDomain "github.com/rahats/school/internal/school/domain"
)

// PostgreSQLGradeRepository implements student, class and enrollment queries for PostgreSQL.
type PostgreSQLGradeRepository struct {
	db *sql.DB
}

// GetStudent fetches the public profile of a student.
func (p *PostgreSQLGradeRepository) GetStudent(ctx context.Context, studentID int64) (*schoolDomain.Student, error) {
	querier := database.GetTx(ctx, p.db)

	var student schoolDomain.Student
	err := querier.QueryRowContext(
		ctx,
		`SELECT id, name, lastname FROM students WHERE id = $1`,
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
func (p *PostgreSQLGradeRepository) ListGrades(ctx context.Context, studentID int64) ([]*schoolDomain.Grade, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT e.course_id, c.name, e.exam1, e.exam2, e.oral1, e.oral2, e.average
		 FROM enrollments e
		 JOIN courses c ON c.id = e.course_id
		 WHERE e.student_id = $1
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
func (p *PostgreSQLGradeRepository) TeachesStudent(ctx context.Context, teacherID, studentID int64) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	var one int
	err := querier.QueryRowContext(
		ctx,
		`SELECT 1 FROM enrollments WHERE teacher_id = $1 AND student_id = $2 LIMIT 1`,
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
func (p *PostgreSQLGradeRepository) ListTeacherClasses(
	ctx context.Context,
	teacherID int64,
) ([]*schoolDomain.Class, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT DISTINCT cl.id, cl.name
		 FROM classes cl
		 JOIN students s ON s.class_id = cl.id
		 JOIN enrollments e ON e.student_id = s.id
		 WHERE e.teacher_id = $1
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
func (p *PostgreSQLGradeRepository) ListTeacherStudents(
	ctx context.Context,
	teacherID int64,
	offset, limit int,
) ([]*schoolDomain.StudentGrade, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT s.id, s.name, s.lastname, cl.id, cl.name, c.id, c.name,
		        e.exam1, e.exam2, e.oral1, e.oral2, e.average
		 FROM enrollments e
		 JOIN students s ON s.id = e.student_id
		 JOIN classes cl ON cl.id = s.class_id
		 JOIN courses c ON c.id = e.course_id
		 WHERE e.teacher_id = $1
		 ORDER BY cl.name, s.lastname, s.name, c.name
		 LIMIT $2 OFFSET $3`,
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
func (p *PostgreSQLGradeRepository) UpdateGrades(
	ctx context.Context,
	input *schoolDomain.UpdateGradesInput,
	average float64,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE enrollments SET exam1 = $1, exam2 = $2, oral1 = $3, oral2 = $4, average = $5
		 WHERE student_id = $6 AND teacher_id = $7`
	args := []any{input.Exam1, input.Exam2, input.Oral1, input.Oral2, average, input.StudentID, input.TeacherID}
	if input.CourseID != nil {
		query += ` AND course_id = $8`
		args = append(args, *input.CourseID)
	}

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to update grades")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected, nil
}

// GetCourseStanding returns the student's class name and average in a course.
func (p *PostgreSQLGradeRepository) GetCourseStanding(
	ctx context.Context,
	studentID, courseID int64,
) (*schoolDomain.CourseStanding, error) {
	querier := database.GetTx(ctx, p.db)

	standing := schoolDomain.CourseStanding{StudentID: studentID, CourseID: courseID}
	var average sql.NullFloat64
	err := querier.QueryRowContext(
		ctx,
		`SELECT cl.name, e.average
		 FROM enrollments e
		 JOIN students s ON s.id = e.student_id
		 JOIN classes cl ON cl.id = s.class_id
		 WHERE e.student_id = $1 AND e.course_id = $2
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

// NewPostgreSQLGradeRepository creates a new PostgreSQL grade repository.
func NewPostgreSQLGradeRepository(db *sql.DB) *PostgreSQLGradeRepository {
	return &PostgreSQLGradeRepository{db: db}
}
