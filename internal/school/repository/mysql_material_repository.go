package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rahats/school/internal/database"
	apperrors "github.com/rahats/school/internal/errors"
	schoolDomain "github.com/rahats/school/internal/school/domain"
)

// MySQLMaterialRepository implements material persistence for MySQL.
type MySQLMaterialRepository struct {
	db *sql.DB
}

// Create inserts a material and sets its generated ID.
func (m *MySQLMaterialRepository) Create(ctx context.Context, material *schoolDomain.Material) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`INSERT INTO materials (teacher_id, course_id, class_level, target_range, type, title, content, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		material.TeacherID,
		material.CourseID,
		material.ClassLevel,
		string(material.TargetRange),
		string(material.Type),
		material.Title,
		material.Content,
		material.UploadedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create material")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to read material id")
	}
	material.ID = id
	return nil
}

// Get returns a material by ID.
func (m *MySQLMaterialRepository) Get(ctx context.Context, materialID int64) (*schoolDomain.Material, error) {
	querier := database.GetTx(ctx, m.db)

	row := querier.QueryRowContext(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = ?`, materialID)
	material, err := scanMaterial(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schoolDomain.ErrMaterialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get material")
	}
	return material, nil
}

// Delete removes a material.
func (m *MySQLMaterialRepository) Delete(ctx context.Context, materialID int64) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM materials WHERE id = ?`, materialID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete material")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return schoolDomain.ErrMaterialNotFound
	}
	return nil
}

// ListByTeacher returns a teacher's materials, newest first.
func (m *MySQLMaterialRepository) ListByTeacher(
	ctx context.Context,
	teacherID int64,
	offset, limit int,
) ([]*schoolDomain.Material, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT `+materialColumns+` FROM materials
		 WHERE teacher_id = ?
		 ORDER BY uploaded_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		teacherID,
		limit,
		offset,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list materials")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanMaterials(rows)
}

// ListForCourse returns the materials of a course aimed at the given score range.
func (m *MySQLMaterialRepository) ListForCourse(
	ctx context.Context,
	courseID int64,
	targetRange schoolDomain.TargetRange,
) ([]*schoolDomain.Material, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT `+materialColumns+` FROM materials
		 WHERE course_id = ? AND target_range = ?
		 ORDER BY uploaded_at DESC, id DESC`,
		courseID,
		string(targetRange),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list course materials")
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanMaterials(rows)
}

// NewMySQLMaterialRepository creates a new MySQL material repository.
func NewMySQLMaterialRepository(db *sql.DB) *MySQLMaterialRepository {
	return &MySQLMaterialRepository{db: db}
}
