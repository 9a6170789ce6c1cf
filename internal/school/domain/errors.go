package domain

import (
	"github.com/rahats/school/internal/errors"
)

// School domain errors.
var (
	// ErrStudentNotFound indicates the student does not exist.
	ErrStudentNotFound = errors.Wrap(errors.ErrNotFound, "student not found")

	// ErrEnrollmentNotFound indicates no enrollment matched the student, teacher and course.
	ErrEnrollmentNotFound = errors.Wrap(errors.ErrNotFound, "enrollment not found")

	// ErrMaterialNotFound indicates the material does not exist.
	ErrMaterialNotFound = errors.Wrap(errors.ErrNotFound, "material not found")

	// ErrNotOwner indicates the principal is not the owner of the requested resource.
	ErrNotOwner = errors.Wrap(errors.ErrForbidden, "resource belongs to another subject")

	// ErrInvalidMaterialType indicates an unsupported material type.
	ErrInvalidMaterialType = errors.Wrap(errors.ErrInvalidInput, "material type must be video or url")

	// ErrInvalidTargetRange indicates an unsupported target range.
	ErrInvalidTargetRange = errors.Wrap(errors.ErrInvalidInput, "target range is not supported")
)
