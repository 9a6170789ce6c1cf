package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schoolDomain "github.com/rahats/school/internal/school/domain"
)

var materialRowColumns = []string{
	"id", "teacher_id", "course_id", "class_level", "target_range", "type", "title", "content", "uploaded_at",
}

var uploadedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestMaterial() *schoolDomain.Material {
	return &schoolDomain.Material{
		TeacherID:   7,
		CourseID:    3,
		ClassLevel:  "10",
		TargetRange: schoolDomain.Range40To60,
		Type:        schoolDomain.MaterialTypeVideo,
		Title:       "Newton",
		Content:     "https://videos.example.com/newton",
		UploadedAt:  uploadedAt,
	}
}

func materialRows() *sqlmock.Rows {
	return sqlmock.NewRows(materialRowColumns).
		AddRow(5, 7, 3, "10", "40-60", "video", "Newton", "https://videos.example.com/newton", uploadedAt)
}

func TestMySQLMaterialRepository_Create(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo := NewMySQLMaterialRepository(db)

	material := newTestMaterial()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO materials")).
		WithArgs(7, 3, "10", "40-60", "video", "Newton", "https://videos.example.com/newton", uploadedAt).
		WillReturnResult(sqlmock.NewResult(5, 1))

	require.NoError(t, repo.Create(ctx, material))
	assert.Equal(t, int64(5), material.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLMaterialRepository_Get(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("SELECT " + materialColumns + " FROM materials WHERE id = ?")

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		repo := NewMySQLMaterialRepository(db)

		mock.ExpectQuery(query).WithArgs(5).WillReturnRows(materialRows())

		material, err := repo.Get(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), material.ID)
		assert.Equal(t, schoolDomain.Range40To60, material.TargetRange)
		assert.Equal(t, schoolDomain.MaterialTypeVideo, material.Type)
		assert.True(t, uploadedAt.Equal(material.UploadedAt))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		repo := NewMySQLMaterialRepository(db)

		mock.ExpectQuery(query).WithArgs(5).WillReturnRows(sqlmock.NewRows(materialRowColumns))

		_, err = repo.Get(ctx, 5)
		assert.ErrorIs(t, err, schoolDomain.ErrMaterialNotFound)
	})
}

func TestMySQLMaterialRepository_Delete(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("DELETE FROM materials WHERE id = ?")

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		repo := NewMySQLMaterialRepository(db)

		mock.ExpectExec(query).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Delete(ctx, 5))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		repo := NewMySQLMaterialRepository(db)

		mock.ExpectExec(query).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Delete(ctx, 5), schoolDomain.ErrMaterialNotFound)
	})

	t.Run("Error_Database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		repo := NewMySQLMaterialRepository(db)

		mock.ExpectExec(query).WithArgs(5).WillReturnError(errors.New("lock wait timeout"))
		err = repo.Delete(ctx, 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete material")
	})
}

func TestMySQLMaterialRepository_ListByTeacher(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo := NewMySQLMaterialRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE teacher_id = ? ORDER BY uploaded_at DESC, id DESC LIMIT ? OFFSET ?")).
		WithArgs(7, 50, 0).
		WillReturnRows(materialRows())

	materials, err := repo.ListByTeacher(ctx, 7, 0, 50)
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, "Newton", materials[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLMaterialRepository_ListForCourse(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo := NewMySQLMaterialRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE course_id = ? AND target_range = ?")).
		WithArgs(3, "40-60").
		WillReturnRows(materialRows())

	materials, err := repo.ListForCourse(ctx, 3, schoolDomain.Range40To60)
	require.NoError(t, err)
	assert.Len(t, materials, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLMaterialRepository_Create(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo := NewPostgreSQLMaterialRepository(db)

	material := newTestMaterial()
	mock.ExpectQuery(regexp.QuoteMeta("VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id")).
		WithArgs(7, 3, "10", "40-60", "video", "Newton", "https://videos.example.com/newton", uploadedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	require.NoError(t, repo.Create(ctx, material))
	assert.Equal(t, int64(9), material.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLMaterialRepository_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo := NewPostgreSQLMaterialRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM materials WHERE id = $1")).WithArgs(5).WillReturnRows(materialRows())
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM materials WHERE id = $1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	material, err := repo.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "10", material.ClassLevel)

	assert.ErrorIs(t, repo.Delete(ctx, 5), schoolDomain.ErrMaterialNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLMaterialRepository_Lists(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	repo := NewPostgreSQLMaterialRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE teacher_id = $1 ORDER BY uploaded_at DESC, id DESC LIMIT $2 OFFSET $3")).
		WithArgs(7, 20, 40).
		WillReturnRows(sqlmock.NewRows(materialRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE course_id = $1 AND target_range = $2")).
		WithArgs(3, "0-20").
		WillReturnRows(materialRows())

	byTeacher, err := repo.ListByTeacher(ctx, 7, 40, 20)
	require.NoError(t, err)
	assert.Empty(t, byTeacher)

	forCourse, err := repo.ListForCourse(ctx, 3, schoolDomain.Range0To20)
	require.NoError(t, err)
	assert.Len(t, forCourse, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
