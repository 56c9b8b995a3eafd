package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_HOST", "cache")

	c, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "s3cret", c.JWTSecret)
	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, "3306", c.DBPort)
	assert.Equal(t, 72, c.TokenTTLHours)
	assert.Equal(t, "cache", c.RedisHost)
	assert.Equal(t, 6379, c.RedisPort)
	assert.Equal(t, "local", c.StorageDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
}

func TestReadConfigFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	dir := t.TempDir()
	body := `{
		"app": {"port": "9000", "jwtsecret": "from-file"},
		"database": {"driver": "Postgres", "name": "social"}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0o600))

	c, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, "from-file", c.JWTSecret)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "5432", c.DBPort)
	assert.Equal(t, "social", c.DBName)
}

func TestReadRejectsBadConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Read(t.TempDir())
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DB_DRIVER", "oracle")
	_, err = Read(t.TempDir())
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	mysqlCfg := AppConfig{DBDriver: "mysql", DBUser: "root", DBPassword: "pw", DBHost: "db", DBPort: "3306", DBName: "social"}
	assert.Equal(t, "root:pw@tcp(db:3306)/social?charset=utf8mb4&parseTime=True&loc=Local", DSN(mysqlCfg))

	pgCfg := AppConfig{DBDriver: "postgres", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable TimeZone=UTC", DSN(pgCfg))

	assert.Equal(t, "verbatim", DSN(AppConfig{DatabaseURI: "verbatim"}))
}
