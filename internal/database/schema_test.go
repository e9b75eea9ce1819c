package database

import (
	"context"
	"testing"
	"testing/fstest"

	"unpolished/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		env      string
		wantSQL  bool
		wantAuto bool
		wantErr  bool
	}{
		{"hybrid development", config.SchemaModeHybrid, "development", true, true, false},
		{"hybrid production", config.SchemaModeHybrid, "production", true, false, false},
		{"empty defaults to hybrid", "", "staging", true, false, false},
		{"sql only", config.SchemaModeSQL, "development", true, false, false},
		{"auto development", config.SchemaModeAuto, "test", false, true, false},
		{"auto production refused", config.SchemaModeAuto, "prod", false, false, true},
		{"unknown", "magic", "development", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&config.Config{DBSchemaMode: tt.mode, Env: tt.env})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, runSQL)
			assert.Equal(t, tt.wantAuto, runAuto)
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	all := Migrations()
	require.NotEmpty(t, all)
	assert.Equal(t, 1, all[0].Version)
	assert.Equal(t, "000001_init", all[0].String())
	assert.Contains(t, all[0].Up, "ON DELETE CASCADE")
	assert.Contains(t, all[0].Down, "DROP TABLE IF EXISTS comments")
}

func TestParseMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000002_tags.up.sql":   {Data: []byte("CREATE TABLE tags (id INTEGER)")},
		"m/000002_tags.down.sql": {Data: []byte("DROP TABLE tags")},
		"m/000001_init.up.sql":   {Data: []byte("CREATE TABLE a (id INTEGER)")},
		"m/000001_init.down.sql": {Data: []byte("DROP TABLE a")},
		"m/README.md":            {Data: []byte("ignored")},
	}
	ms, err := parseMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "000001_init", ms[0].String())
	assert.Equal(t, "tags", ms[1].Name)

	_, err = parseMigrations(fstest.MapFS{"m/000003_x.up.sql": {Data: []byte("x")}}, "m")
	assert.ErrorContains(t, err, "no down script")

	_, err = parseMigrations(fstest.MapFS{"m/abc_x.up.sql": {}, "m/abc_x.down.sql": {}}, "m")
	assert.ErrorContains(t, err, "bad version")

	_, err = parseMigrations(fstest.MapFS{
		"m/000001_a.up.sql": {}, "m/000001_a.down.sql": {},
		"m/000001_b.up.sql": {}, "m/000001_b.down.sql": {},
	}, "m")
	assert.ErrorContains(t, err, "used by")
}

func newTestMigrator(t *testing.T) *Migrator {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return &Migrator{db: db, migrations: []Migration{
		{Version: 1, Name: "tags", Up: "CREATE TABLE tags (id INTEGER PRIMARY KEY)", Down: "DROP TABLE tags"},
		{Version: 2, Name: "notes", Up: "CREATE TABLE notes (id INTEGER PRIMARY KEY)", Down: "DROP TABLE notes"},
	}}
}

func TestMigrator_UpDown(t *testing.T) {
	ctx := context.Background()
	m := newTestMigrator(t)

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied, "fresh database has no log table")

	n, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, m.db.Migrator().HasTable("notes"))

	n, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "second run is a no-op")

	require.NoError(t, m.Down(ctx, 2))
	assert.False(t, m.db.Migrator().HasTable("notes"))
	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Version)

	assert.ErrorContains(t, m.Down(ctx, 2), "not applied")
	assert.ErrorContains(t, m.Down(ctx, 9), "unknown migration")
}

func TestMigrator_FailedScriptLeavesNoLogRow(t *testing.T) {
	ctx := context.Background()
	m := newTestMigrator(t)
	m.migrations = append(m.migrations, Migration{Version: 3, Name: "broken", Up: "CREATE TABLE (", Down: ""})

	n, err := m.Up(ctx)
	require.Error(t, err)
	assert.Equal(t, 2, n)

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied)
}

func TestMigrator_UnknownAppliedVersion(t *testing.T) {
	ctx := context.Background()
	m := newTestMigrator(t)
	_, err := m.Up(ctx)
	require.NoError(t, err)
	require.NoError(t, m.db.Create(&migrationLog{Version: 7, Name: "future"}).Error)

	_, err = m.Pending(ctx)
	assert.ErrorContains(t, err, "000007")
}
