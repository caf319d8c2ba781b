package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN_EscapesCredentials(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db", Port: 5432, User: "pos", Password: "p@ss/word",
		DBName: "pharmacy", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://pos:p%40ss%2Fword@db:5432/pharmacy?sslmode=disable", cfg.DSN())
}

func TestLoadPostgresConfig(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("DB_USER", "pos")
	t.Setenv("DB_NAME", "pharmacy")

	cfg, err := LoadPostgresConfig()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)

	t.Setenv("DB_PORT", "five")
	_, err = LoadPostgresConfig()
	assert.Error(t, err)
}

func TestLoadPostgresConfig_RequiresName(t *testing.T) {
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_NAME", "")
	_, err := LoadPostgresConfig()
	assert.Error(t, err)
}
