// Package naming implements the identifier rules for entity and field names:
// format validity, reserved-word protection for the built-in user entity,
// and the rename applied on soft delete.
package naming

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xraph/blueprint/id"
)

// UserEntityName is the name of the platform's built-in authentication
// entity. Reserved words are enforced only against this entity, since they
// protect its generated code from collisions; ordinary entities are
// unrestricted.
const UserEntityName = "User"

// ValidationMessage is the fixed explanation attached to every name
// format rejection.
const ValidationMessage = "name must only contain letters, numbers and the underscore character, and must not start with a number"

// namePattern accepts identifier-safe names: letters, digits, underscore,
// not starting with a digit.
var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// reservedNames are matched case-insensitively against field and entity
// names on the user entity.
var reservedNames = []string{
	"id",
	"createdAt",
	"updatedAt",
	"roles",
	"password",
	"username",
}

// IsValid reports whether name is identifier-safe.
func IsValid(name string) bool {
	return namePattern.MatchString(name)
}

// IsReserved reports whether name collides with a reserved word in the
// context of entityName. Only the user entity carries reservations; the
// entity name comparison is case-sensitive, the reserved-word match is not.
func IsReserved(entityName, name string) bool {
	if entityName != UserEntityName {
		return false
	}
	for _, reserved := range reservedNames {
		if strings.EqualFold(reserved, name) {
			return true
		}
	}
	return false
}

// ReservedNames returns the reserved word list. The returned slice is a
// copy; callers cannot mutate the rule set.
func ReservedNames() []string {
	out := make([]string, len(reservedNames))
	copy(out, reservedNames)
	return out
}

// PrepareDeletedItemName mangles the name of a soft-deleted item so the
// original name becomes available for reuse while the row stays queryable.
func PrepareDeletedItemName(name string, entityID id.EntityID) string {
	return fmt.Sprintf("__%s_%s", entityID, name)
}
