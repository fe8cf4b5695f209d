package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/blueprint/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"EntityID", id.NewEntityID, "ent_"},
		{"VersionID", id.NewVersionID, "entv_"},
		{"FieldID", id.NewFieldID, "fld_"},
		{"FieldPermanentID", id.NewFieldPermanentID, "fldp_"},
		{"PermissionID", id.NewPermissionID, "eperm_"},
		{"PermissionFieldID", id.NewPermissionFieldID, "epf_"},
		{"CommitID", id.NewCommitID, "commit_"},
		{"UserID", id.NewUserID, "user_"},
		{"RoleID", id.NewRoleID, "role_"},
		{"AppID", id.NewAppID, "app_"},
		{"ChangeID", id.NewChangeID, "chg_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixEntity)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixEntity {
		t.Errorf("expected prefix %q, got %q", id.PrefixEntity, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"EntityID", id.NewEntityID, id.ParseEntityID},
		{"VersionID", id.NewVersionID, id.ParseVersionID},
		{"FieldID", id.NewFieldID, id.ParseFieldID},
		{"FieldPermanentID", id.NewFieldPermanentID, id.ParseFieldPermanentID},
		{"PermissionID", id.NewPermissionID, id.ParsePermissionID},
		{"PermissionFieldID", id.NewPermissionFieldID, id.ParsePermissionFieldID},
		{"CommitID", id.NewCommitID, id.ParseCommitID},
		{"UserID", id.NewUserID, id.ParseUserID},
		{"RoleID", id.NewRoleID, id.ParseRoleID},
		{"AppID", id.NewAppID, id.ParseAppID},
		{"ChangeID", id.NewChangeID, id.ParseChangeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		parseFn func(string) (id.ID, error)
	}{
		{"ParseEntityID rejects entv_", id.NewVersionID().String(), id.ParseEntityID},
		{"ParseVersionID rejects fld_", id.NewFieldID().String(), id.ParseVersionID},
		{"ParseFieldID rejects fldp_", id.NewFieldPermanentID().String(), id.ParseFieldID},
		{"ParseFieldPermanentID rejects fld_", id.NewFieldID().String(), id.ParseFieldPermanentID},
		{"ParsePermissionID rejects epf_", id.NewPermissionFieldID().String(), id.ParsePermissionID},
		{"ParsePermissionFieldID rejects eperm_", id.NewPermissionID().String(), id.ParsePermissionFieldID},
		{"ParseCommitID rejects ent_", id.NewEntityID().String(), id.ParseCommitID},
		{"ParseUserID rejects role_", id.NewRoleID().String(), id.ParseUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parseFn(tt.input)
			if err == nil {
				t.Errorf("expected error for cross-type parse of %q, got nil", tt.input)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := id.Parse(""); err == nil {
		t.Fatal("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Fatal("zero value should be nil")
	}
	if i.String() != "" {
		t.Errorf("nil ID String() should be empty, got %q", i.String())
	}

	v, err := i.Value()
	if err != nil {
		t.Fatalf("Value() failed: %v", err)
	}
	if v != nil {
		t.Errorf("nil ID Value() should be nil, got %v", v)
	}
}

func TestScanRoundTrip(t *testing.T) {
	original := id.NewFieldPermanentID()

	var scanned id.ID
	if err := scanned.Scan(original.String()); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if scanned.String() != original.String() {
		t.Errorf("scan round-trip mismatch: %q != %q", scanned.String(), original.String())
	}

	var fromNil id.ID
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if !fromNil.IsNil() {
		t.Error("Scan(nil) should produce the nil ID")
	}
}
