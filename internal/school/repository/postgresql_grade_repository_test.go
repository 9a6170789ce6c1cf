package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schoolDomain "github.com/rahats/school/internal/school/domain"
)

func newPostgreSQLGradeRepoWithMock(t *testing.T) (*PostgreSQLGradeRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgreSQLGradeRepository(db), mock
}

func TestPostgreSQLGradeRepository_GetStudent(t *testing.T) {
	ctx := context.Background()
	repo, mock := newPostgreSQLGradeRepoWithMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, lastname FROM students WHERE id = $1")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "lastname"}))

	_, err := repo.GetStudent(ctx, 42)
	assert.ErrorIs(t, err, schoolDomain.ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLGradeRepository_ListTeacherStudents(t *testing.T) {
	ctx := context.Background()
	repo, mock := newPostgreSQLGradeRepoWithMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.teacher_id = $1")+".*"+regexp.QuoteMeta("LIMIT $2 OFFSET $3")).
		WithArgs(7, 10, 0).
		WillReturnRows(sqlmock.NewRows(studentGradeColumns))

	grades, err := repo.ListTeacherStudents(ctx, 7, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, grades)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLGradeRepository_UpdateGrades(t *testing.T) {
	ctx := context.Background()
	input := &schoolDomain.UpdateGradesInput{StudentID: 42, TeacherID: 7, Exam1: 80, Exam2: 90, Oral1: 70, Oral2: 60}

	t.Run("MatchedRowsCounted", func(t *testing.T) {
		repo, mock := newPostgreSQLGradeRepoWithMock(t)
		mock.ExpectExec(regexp.QuoteMeta("WHERE student_id = $6 AND teacher_id = $7")).
			WithArgs(80.0, 90.0, 70.0, 60.0, 75.0, 42, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		affected, err := repo.UpdateGrades(ctx, input, 75)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoEnrollment", func(t *testing.T) {
		repo, mock := newPostgreSQLGradeRepoWithMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		affected, err := repo.UpdateGrades(ctx, input, 75)
		require.NoError(t, err)
		assert.Zero(t, affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WithCourse", func(t *testing.T) {
		repo, mock := newPostgreSQLGradeRepoWithMock(t)
		courseID := int64(3)
		withCourse := *input
		withCourse.CourseID = &courseID

		mock.ExpectExec(regexp.QuoteMeta("AND course_id = $8")).
			WithArgs(80.0, 90.0, 70.0, 60.0, 75.0, 42, 7, 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		_, err := repo.UpdateGrades(ctx, &withCourse, 75)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLGradeRepository_GetCourseStanding(t *testing.T) {
	ctx := context.Background()
	repo, mock := newPostgreSQLGradeRepoWithMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.student_id = $1 AND e.course_id = $2")).
		WithArgs(42, 3).
		WillReturnRows(sqlmock.NewRows([]string{"name", "average"}).AddRow("11-B", 90.0))

	standing, err := repo.GetCourseStanding(ctx, 42, 3)
	require.NoError(t, err)
	assert.Equal(t, "11-B", standing.ClassName)
	require.NotNil(t, standing.Average)
	assert.Equal(t, 90.0, *standing.Average)
}
