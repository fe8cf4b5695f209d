package blueprint

import "errors"

var (
	// ErrEntityNotFound is returned when an entity cannot be found or is
	// soft-deleted.
	ErrEntityNotFound = errors.New("blueprint: entity not found")

	// ErrFieldNotFound is returned when an entity field cannot be found.
	ErrFieldNotFound = errors.New("blueprint: entity field not found")

	// ErrPermissionNotFound is returned when a permission cannot be found.
	ErrPermissionNotFound = errors.New("blueprint: permission not found")

	// ErrRecordNotFound is returned when a lookup has no unambiguous single
	// target (zero or multiple matches).
	ErrRecordNotFound = errors.New("blueprint: record not found")

	// ErrVersionNotFound is returned when an entity version cannot be found.
	ErrVersionNotFound = errors.New("blueprint: entity version not found")

	// ErrInvalidName is returned when a name fails the identifier format
	// rules. The wrapped message carries the fixed explanation.
	ErrInvalidName = errors.New("blueprint: invalid name")

	// ErrReservedName is returned when a name collides with a reserved word
	// on the user entity.
	ErrReservedName = errors.New("blueprint: reserved name")

	// ErrNameTaken is returned when an entity name is already used by a
	// non-deleted entity in the same app.
	ErrNameTaken = errors.New("blueprint: name already taken")

	// ErrSystemDataType is returned when a mutation targets or assigns a
	// reserved system data type.
	ErrSystemDataType = errors.New("blueprint: system data type cannot be created, updated or deleted")

	// ErrStaleVersion is returned when a mutation targets a field whose
	// owning version is not the current one. The wrapped message carries the
	// stale version number.
	ErrStaleVersion = errors.New("blueprint: version is not the current version")
)
