// Package repository implements school persistence for MySQL and PostgreSQL.
package repository

import (
	"database/sql"

	apperrors "github.com/rahats/school/internal/errors"
	schoolDomain "github.com/rahats/school/internal/school/domain"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// nullableScores holds the nullable score columns exam1, exam2, oral1, oral2, average.
type nullableScores struct {
	exam1, exam2, oral1, oral2, average sql.NullFloat64
}

func (n *nullableScores) dest() []any {
	return []any{&n.exam1, &n.exam2, &n.oral1, &n.oral2, &n.average}
}

func (n *nullableScores) scores() schoolDomain.Scores {
	return schoolDomain.Scores{
		Exam1: floatPtr(n.exam1),
		Exam2: floatPtr(n.exam2),
		Oral1: floatPtr(n.oral1),
		Oral2: floatPtr(n.oral2),
	}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// scanGrades reads course_id, course name and the score columns.
func scanGrades(rows *sql.Rows) ([]*schoolDomain.Grade, error) {
	grades := make([]*schoolDomain.Grade, 0)
	for rows.Next() {
		var grade schoolDomain.Grade
		var s nullableScores

		dest := append([]any{&grade.CourseID, &grade.CourseName}, s.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan grade row")
		}
		grade.Scores = s.scores()
		grade.Average = floatPtr(s.average)
		grades = append(grades, &grade)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating grade rows")
	}
	return grades, nil
}

// scanStudentGrades reads student, class and course columns followed by the scores.
func scanStudentGrades(rows *sql.Rows) ([]*schoolDomain.StudentGrade, error) {
	grades := make([]*schoolDomain.StudentGrade, 0)
	for rows.Next() {
		var g schoolDomain.StudentGrade
		var s nullableScores

		dest := append([]any{
			&g.StudentID, &g.Name, &g.Lastname,
			&g.ClassID, &g.ClassName,
			&g.CourseID, &g.CourseName,
		}, s.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan student grade row")
		}
		g.Scores = s.scores()
		g.Average = floatPtr(s.average)
		grades = append(grades, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating student grade rows")
	}
	return grades, nil
}

// scanClasses reads id, name rows.
func scanClasses(rows *sql.Rows) ([]*schoolDomain.Class, error) {
	classes := make([]*schoolDomain.Class, 0)
	for rows.Next() {
		var class schoolDomain.Class
		if err := rows.Scan(&class.ID, &class.Name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan class row")
		}
		classes = append(classes, &class)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating class rows")
	}
	return classes, nil
}

// materialColumns is the select list read by scanMaterial.
const materialColumns = "id, teacher_id, course_id, class_level, target_range, type, title, content, uploaded_at"

func scanMaterial(s rowScanner) (*schoolDomain.Material, error) {
	var m schoolDomain.Material
	if err := s.Scan(
		&m.ID,
		&m.TeacherID,
		&m.CourseID,
		&m.ClassLevel,
		&m.TargetRange,
		&m.Type,
		&m.Title,
		&m.Content,
		&m.UploadedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMaterials(rows *sql.Rows) ([]*schoolDomain.Material, error) {
	materials := make([]*schoolDomain.Material, 0)
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan material row")
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating material rows")
	}
	return materials, nil
}
