package naming_test

import (
	"strings"
	"testing"

	"github.com/xraph/blueprint/id"
	"github.com/xraph/blueprint/naming"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"simple", "customer", true},
		{"camel", "firstName", true},
		{"underscore", "first_name", true},
		{"leading underscore rejected", "_name", false},
		{"leading digit rejected", "1name", false},
		{"digits allowed after first", "name2", true},
		{"space rejected", "first name", false},
		{"dash rejected", "first-name", false},
		{"empty rejected", "", false},
		{"unicode rejected", "naïve", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := naming.IsValid(tt.in); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsReserved(t *testing.T) {
	// Reserved words only bind on the user entity.
	for _, word := range naming.ReservedNames() {
		if !naming.IsReserved(naming.UserEntityName, word) {
			t.Errorf("expected %q to be reserved on %q", word, naming.UserEntityName)
		}
		if naming.IsReserved("Customer", word) {
			t.Errorf("expected %q to be allowed on ordinary entity", word)
		}
	}
}

func TestIsReservedCaseInsensitive(t *testing.T) {
	if !naming.IsReserved(naming.UserEntityName, "PASSWORD") {
		t.Error("reserved-word match should ignore case")
	}
	if !naming.IsReserved(naming.UserEntityName, "CreatedAt") {
		t.Error("reserved-word match should ignore case")
	}
}

func TestIsReservedEntityNameCaseSensitive(t *testing.T) {
	if naming.IsReserved("user", "password") {
		t.Error("entity name comparison must be case-sensitive")
	}
}

func TestPrepareDeletedItemName(t *testing.T) {
	entityID := id.NewEntityID()
	got := naming.PrepareDeletedItemName("Customer", entityID)

	if !strings.HasPrefix(got, "__") {
		t.Errorf("expected deleted-name marker prefix, got %q", got)
	}
	if !strings.Contains(got, entityID.String()) {
		t.Errorf("deleted name %q should embed the entity id", got)
	}
	if !strings.HasSuffix(got, "Customer") {
		t.Errorf("deleted name %q should retain the original name", got)
	}
}
