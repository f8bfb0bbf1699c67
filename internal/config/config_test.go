package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
http_server:
  port: ":9090"
  timeout: 3s
postgres:
  user: u
  password: p
  host: db
  port: "5432"
  db_name: meals
  ssl_mode: disable
kafka:
  brokers: ["k1:9092", "k2:9092"]
  submissions_topic: subs
  accepted_topic: acc
  group_id: g
logger:
  level: warn
  format: json
eligibility:
  category_match: id
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPServer.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, "user=u password=p host=db port=5432 dbname=meals sslmode=disable", cfg.Postgres.DSN())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "acc", cfg.Kafka.AcceptedTopic)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "id", cfg.Eligibility.CategoryMatch)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "kafka:\n  group_id: g\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPServer.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, "INFO", cfg.Logger.Level)
	assert.Equal(t, "text", cfg.Logger.Format)
	assert.Equal(t, "name", cfg.Eligibility.CategoryMatch)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "does not exist")

	_, err = Load(writeConfig(t, "http_server: [not, a, map]"))
	assert.ErrorContains(t, err, "unmarshal")
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path())

	t.Setenv("CONFIG_PATH", "/etc/meal/config.yaml")
	assert.Equal(t, "/etc/meal/config.yaml", Path())
}
