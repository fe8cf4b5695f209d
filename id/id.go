// Package id defines TypeID-based identity types for all Blueprint records.
//
// Every record in Blueprint uses a single ID struct with a prefix that
// identifies the record kind. IDs are K-sortable (UUIDv7-based), globally
// unique, and URL-safe in the format "prefix_suffix".
//
// Fields carry two identities: the row ID (prefix "fld"), which is local to
// one entity version and changes every time the field is copied into a new
// version, and the permanent ID (prefix "fldp"), which is assigned once at
// first creation and copied verbatim on every snapshot.
package id

import (
	"database/sql/driver"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the record kind encoded in a TypeID.
type Prefix string

// Prefix constants for all Blueprint record kinds.
const (
	PrefixEntity          Prefix = "ent"
	PrefixVersion         Prefix = "entv"
	PrefixField           Prefix = "fld"
	PrefixFieldPermanent  Prefix = "fldp"
	PrefixPermission      Prefix = "eperm"
	PrefixPermissionField Prefix = "epf"
	PrefixCommit          Prefix = "commit"
	PrefixUser            Prefix = "user"
	PrefixRole            Prefix = "role"
	PrefixApp             Prefix = "app"
	PrefixChange          Prefix = "chg"
)

// ID is the primary identifier type for all Blueprint records.
// It wraps a TypeID providing a prefix-qualified, globally unique,
// sortable, URL-safe identifier in the format "prefix_suffix".
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "ent_01h2xcejqtf2nbrexx3vqjhp41")
// into an ID. Returns an error if the string is not valid.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// MustParseWithPrefix is like ParseWithPrefix but panics on error.
func MustParseWithPrefix(s string, expected Prefix) ID {
	parsed, err := ParseWithPrefix(s, expected)
	if err != nil {
		panic(fmt.Sprintf("id: must parse with prefix %q: %v", expected, err))
	}

	return parsed
}

// ──────────────────────────────────────────────────
// Type aliases per record kind
// ──────────────────────────────────────────────────

// EntityID is a type-safe identifier for entities (prefix: "ent").
type EntityID = ID

// VersionID is a type-safe identifier for entity versions (prefix: "entv").
type VersionID = ID

// FieldID is a type-safe identifier for entity field rows (prefix: "fld").
type FieldID = ID

// FieldPermanentID is the stable cross-version field identity (prefix: "fldp").
type FieldPermanentID = ID

// PermissionID is a type-safe identifier for entity permissions (prefix: "eperm").
type PermissionID = ID

// PermissionFieldID is a type-safe identifier for permission fields (prefix: "epf").
type PermissionFieldID = ID

// CommitID is a type-safe identifier for commits (prefix: "commit").
type CommitID = ID

// UserID is a type-safe identifier for users (prefix: "user").
type UserID = ID

// RoleID is a type-safe identifier for app roles (prefix: "role").
type RoleID = ID

// AppID is a type-safe identifier for applications (prefix: "app").
type AppID = ID

// ChangeID is a type-safe identifier for change-log entries (prefix: "chg").
type ChangeID = ID

// AnyID is a type alias that accepts any valid prefix.
type AnyID = ID

// ──────────────────────────────────────────────────
// Convenience constructors
// ──────────────────────────────────────────────────

// NewEntityID generates a new unique entity ID.
func NewEntityID() ID { return New(PrefixEntity) }

// NewVersionID generates a new unique entity version ID.
func NewVersionID() ID { return New(PrefixVersion) }

// NewFieldID generates a new unique field row ID.
func NewFieldID() ID { return New(PrefixField) }

// NewFieldPermanentID generates a new permanent field identity.
func NewFieldPermanentID() ID { return New(PrefixFieldPermanent) }

// NewPermissionID generates a new unique permission ID.
func NewPermissionID() ID { return New(PrefixPermission) }

// NewPermissionFieldID generates a new unique permission field ID.
func NewPermissionFieldID() ID { return New(PrefixPermissionField) }

// NewCommitID generates a new unique commit ID.
func NewCommitID() ID { return New(PrefixCommit) }

// NewUserID generates a new unique user ID.
func NewUserID() ID { return New(PrefixUser) }

// NewRoleID generates a new unique app role ID.
func NewRoleID() ID { return New(PrefixRole) }

// NewAppID generates a new unique application ID.
func NewAppID() ID { return New(PrefixApp) }

// NewChangeID generates a new unique change-log entry ID.
func NewChangeID() ID { return New(PrefixChange) }

// ──────────────────────────────────────────────────
// Convenience parsers
// ──────────────────────────────────────────────────

// ParseEntityID parses a string and validates the "ent" prefix.
func ParseEntityID(s string) (ID, error) { return ParseWithPrefix(s, PrefixEntity) }

// ParseVersionID parses a string and validates the "entv" prefix.
func ParseVersionID(s string) (ID, error) { return ParseWithPrefix(s, PrefixVersion) }

// ParseFieldID parses a string and validates the "fld" prefix.
func ParseFieldID(s string) (ID, error) { return ParseWithPrefix(s, PrefixField) }

// ParseFieldPermanentID parses a string and validates the "fldp" prefix.
func ParseFieldPermanentID(s string) (ID, error) { return ParseWithPrefix(s, PrefixFieldPermanent) }

// ParsePermissionID parses a string and validates the "eperm" prefix.
func ParsePermissionID(s string) (ID, error) { return ParseWithPrefix(s, PrefixPermission) }

// ParsePermissionFieldID parses a string and validates the "epf" prefix.
func ParsePermissionFieldID(s string) (ID, error) { return ParseWithPrefix(s, PrefixPermissionField) }

// ParseCommitID parses a string and validates the "commit" prefix.
func ParseCommitID(s string) (ID, error) { return ParseWithPrefix(s, PrefixCommit) }

// ParseUserID parses a string and validates the "user" prefix.
func ParseUserID(s string) (ID, error) { return ParseWithPrefix(s, PrefixUser) }

// ParseRoleID parses a string and validates the "role" prefix.
func ParseRoleID(s string) (ID, error) { return ParseWithPrefix(s, PrefixRole) }

// ParseAppID parses a string and validates the "app" prefix.
func ParseAppID(s string) (ID, error) { return ParseWithPrefix(s, PrefixApp) }

// ParseChangeID parses a string and validates the "chg" prefix.
func ParseChangeID(s string) (ID, error) { return ParseWithPrefix(s, PrefixChange) }

// ParseAny parses a string into an ID without type checking the prefix.
func ParseAny(s string) (ID, error) { return Parse(s) }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the full TypeID string representation (prefix_suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer for database storage.
// Returns nil for the Nil ID so that optional foreign key columns store NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.inner.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		if v == "" {
			*i = Nil

			return nil
		}

		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 0 {
			*i = Nil

			return nil
		}

		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}
