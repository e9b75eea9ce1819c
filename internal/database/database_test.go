package database

import (
	"testing"

	"unpolished/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:    10,
		DBMaxIdleConns:    5,
		DBConnMaxLifetime: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestBuildDSN_DefaultsSSLMode(t *testing.T) {
	dsn := buildDSN("db", "5432", "u", "p", "blog", "")
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=blog sslmode=disable", dsn)
}

func TestGetReadDB_FallsBackToPrimary(t *testing.T) {
	prev := DB
	t.Cleanup(func() { SetDB(prev) })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	SetDB(db)
	assert.Same(t, db, GetReadDB())
}
