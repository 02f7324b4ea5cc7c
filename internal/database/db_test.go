package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huddlehq/huddle/internal/models"
)

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))

	require.True(t, db.Migrator().HasTable(&models.User{}))
	require.True(t, db.Migrator().HasTable(&models.Team{}))
	require.True(t, db.Migrator().HasTable(&models.TeamMembership{}))
	require.True(t, db.Migrator().HasTable(&models.Thread{}))
	require.True(t, db.Migrator().HasTable(&models.ThreadParticipant{}))
	require.True(t, db.Migrator().HasTable(&models.ThreadMessage{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestOpenDefaultsToSQLite(t *testing.T) {
	db, err := Open(Config{})
	require.NoError(t, err)
	require.NotNil(t, db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User:     "huddle",
		Password: "secret",
		Name:     "huddle",
		Host:     "db.internal",
		Port:     5433,
	})
	require.NoError(t, err)
	require.Equal(t, "host=db.internal port=5433 user=huddle dbname=huddle password=secret sslmode=disable", dsn)

	_, err = buildPostgresDSN(Config{Host: "db.internal"})
	require.Error(t, err)

	override, err := buildPostgresDSN(Config{DSN: "postgres://u:p@h/db"})
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@h/db", override)
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User:     "huddle",
		Password: "secret",
		Name:     "huddle",
	})
	require.NoError(t, err)
	require.Equal(t, "huddle:secret@tcp(127.0.0.1:3306)/huddle?charset=utf8mb4&loc=Local&parseTime=True", dsn)

	_, err = buildMySQLDSN(Config{User: "huddle"})
	require.Error(t, err)
}
