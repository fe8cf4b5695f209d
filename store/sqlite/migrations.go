package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Blueprint store (SQLite).
var Migrations = migrate.NewGroup("blueprint")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_entities",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS blueprint_entities (
    id                  TEXT PRIMARY KEY,
    app_id              TEXT NOT NULL,
    name                TEXT NOT NULL,
    display_name        TEXT NOT NULL,
    plural_display_name TEXT NOT NULL,
    description         TEXT NOT NULL DEFAULT '',
    locked_by_user_id   TEXT,
    locked_at           TEXT,
    deleted_at          TEXT,
    created_at          TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at          TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_blueprint_entities_app ON blueprint_entities (app_id);
CREATE INDEX IF NOT EXISTS idx_blueprint_entities_name ON blueprint_entities (app_id, name);
CREATE INDEX IF NOT EXISTS idx_blueprint_entities_deleted ON blueprint_entities (app_id, deleted_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS blueprint_entities`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_entity_versions",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS blueprint_entity_versions (
    id                  TEXT PRIMARY KEY,
    entity_id           TEXT NOT NULL REFERENCES blueprint_entities(id) ON DELETE CASCADE,
    version_number      INTEGER NOT NULL,
    commit_id           TEXT,
    name                TEXT NOT NULL,
    display_name        TEXT NOT NULL,
    plural_display_name TEXT NOT NULL,
    description         TEXT NOT NULL DEFAULT '',
    created_at          TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at          TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(entity_id, version_number)
);

CREATE INDEX IF NOT EXISTS idx_blueprint_versions_entity ON blueprint_entity_versions (entity_id, version_number);
CREATE INDEX IF NOT EXISTS idx_blueprint_versions_commit ON blueprint_entity_versions (commit_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS blueprint_entity_versions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_fields",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS blueprint_fields (
    id              TEXT PRIMARY KEY,
    permanent_id    TEXT NOT NULL,
    version_id      TEXT NOT NULL REFERENCES blueprint_entity_versions(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    display_name    TEXT NOT NULL,
    data_type       TEXT NOT NULL,
    properties      TEXT NOT NULL DEFAULT '{}',
    required        INTEGER NOT NULL DEFAULT 0,
    searchable      INTEGER NOT NULL DEFAULT 0,
    description     TEXT NOT NULL DEFAULT '',
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(version_id, name)
);

CREATE INDEX IF NOT EXISTS idx_blueprint_fields_version ON blueprint_fields (version_id);
CREATE INDEX IF NOT EXISTS idx_blueprint_fields_permanent ON blueprint_fields (version_id, permanent_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS blueprint_fields`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_permissions",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS blueprint_permissions (
    id              TEXT PRIMARY KEY,
    version_id      TEXT NOT NULL REFERENCES blueprint_entity_versions(id) ON DELETE CASCADE,
    action          TEXT NOT NULL,
    type            TEXT NOT NULL,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE(version_id, action)
);

CREATE INDEX IF NOT EXISTS idx_blueprint_perms_version ON blueprint_permissions (version_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS blueprint_permissions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_permission_roles",
			Version: "20240101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS blueprint_permission_roles (
    permission_id   TEXT NOT NULL REFERENCES blueprint_permissions(id) ON DELETE CASCADE,
    role_id         TEXT NOT NULL,

    PRIMARY KEY (permission_id, role_id)
);

CREATE INDEX IF NOT EXISTS idx_blueprint_perm_roles_perm ON blueprint_permission_roles (permission_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS blueprint_permission_roles`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_permission_fields",
			Version: "20240101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS blueprint_permission_fields (
    id                  TEXT PRIMARY KEY,
    permission_id       TEXT NOT NULL REFERENCES blueprint_permissions(id) ON DELETE CASCADE,
    field_permanent_id  TEXT NOT NULL,
    version_id          TEXT NOT NULL,
    created_at          TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_blueprint_pfields_perm ON blueprint_permission_fields (permission_id);
CREATE INDEX IF NOT EXISTS idx_blueprint_pfields_target ON blueprint_permission_fields (version_id, field_permanent_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS blueprint_permission_fields`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_permission_field_roles",
			Version: "20240101000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS blueprint_permission_field_roles (
    permission_field_id TEXT NOT NULL REFERENCES blueprint_permission_fields(id) ON DELETE CASCADE,
    role_id             TEXT NOT NULL,

    PRIMARY KEY (permission_field_id, role_id)
);

CREATE INDEX IF NOT EXISTS idx_blueprint_pf_roles_pf ON blueprint_permission_field_roles (permission_field_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS blueprint_permission_field_roles`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_changes",
			Version: "20240101000008",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS blueprint_changes (
    id              TEXT PRIMARY KEY,
    app_id          TEXT NOT NULL DEFAULT '',
    entity_id       TEXT NOT NULL,
    user_id         TEXT NOT NULL DEFAULT '',
    operation       TEXT NOT NULL,
    detail          TEXT NOT NULL DEFAULT '',
    metadata        TEXT NOT NULL DEFAULT '{}',
    created_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_blueprint_changes_entity ON blueprint_changes (entity_id);
CREATE INDEX IF NOT EXISTS idx_blueprint_changes_app ON blueprint_changes (app_id);
CREATE INDEX IF NOT EXISTS idx_blueprint_changes_created ON blueprint_changes (created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS blueprint_changes`)
				return err
			},
		},
	)
}
