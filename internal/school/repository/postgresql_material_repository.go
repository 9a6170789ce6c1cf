package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rahats/school/internal/database"
	apperrors "github.com/rahats/school/internal/errors"
	schoolDomain "github.com/rahats/school/internal/school/domain"
)

// PostgreSQLMaterialRepository implements material persistence for PostgreSQL.
type PostgreSQLMaterialRepository struct {
	db *sql.DB
}

// Create inserts a material and sets its generated ID.
func (p *PostgreSQLMaterialRepository) Create(ctx context.Context, material *schoolDomain.Material) error {
	querier := database.GetTx(ctx, p.db)

	err := querier.QueryRowContext(
		ctx,
		`INSERT INTO materials (teacher_id, course_id, class_level, target_range, type, title, content, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		material.TeacherID,
		material.CourseID,
		material.ClassLevel,
		string(material.TargetRange),
		string(material.Type),
		material.Title,
		material.Content,
		material.UploadedAt,
	).Scan(&material.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create material")
	}
	return nil
}

// Get returns a material by ID.
func (p *PostgreSQLMaterialRepository) Get(ctx context.Context, materialID int64) (*schoolDomain.Material, error) {
	querier := database.GetTx(ctx, p.db)

	row := querier.QueryRowContext(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, materialID)
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
func (p *PostgreSQLMaterialRepository) Delete(ctx context.Context, materialID int64) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM materials WHERE id = $1`, materialID)
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
func (p *PostgreSQLMaterialRepository) ListByTeacher(
	ctx context.Context,
	teacherID int64,
	offset, limit int,
) ([]*schoolDomain.Material, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT `+materialColumns+` FROM materials
		 WHERE teacher_id = $1
		 ORDER BY uploaded_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
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
func (p *PostgreSQLMaterialRepository) ListForCourse(
	ctx context.Context,
	courseID int64,
	targetRange schoolDomain.TargetRange,
) ([]*schoolDomain.Material, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT `+materialColumns+` FROM materials
		 WHERE course_id = $1 AND target_range = $2
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

// NewPostgreSQLMaterialRepository creates a new PostgreSQL material repository.
func NewPostgreSQLMaterialRepository(db *sql.DB) *PostgreSQLMaterialRepository {
	return &PostgreSQLMaterialRepository{db: db}
}
