package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Identifiers.StudentSequenceSeed)
	assert.Equal(t, 2, cfg.Identifiers.JobSequenceWidth)
	assert.Equal(t, "TM", cfg.Identifiers.Branches["Tambaram"])
	assert.Equal(t, "CD", cfg.Identifiers.CourseTypes["Career Development"])
	assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL())
}

func TestLoadConfigFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  base_url: https://crm.example.in/
jwt:
  secret: from-file
identifiers:
  branches:
    Kodambakkam: KB
  job_sequence_width: 3
`)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("ID_COURSE_TYPES", "Career Development=CD, Weekend=WK")
	t.Setenv("ID_MAX_ALLOCATION_ATTEMPTS", "5")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "https://crm.example.in", cfg.PublicBaseURL())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "KB", cfg.Identifiers.Branches["Kodambakkam"])
	assert.Equal(t, map[string]string{"Career Development": "CD", "Weekend": "WK"}, cfg.Identifiers.CourseTypes)
	assert.Equal(t, 3, cfg.Identifiers.JobSequenceWidth)
	assert.Equal(t, 5, cfg.Identifiers.MaxAllocationAttempts)
	assert.Contains(t, cfg.GetPostgresConnectionString(), "@db.internal:5432/placementcrm?sslmode=disable")
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"missing secret":  "jwt:\n  secret: \"\"\n",
		"bad duration":    "jwt:\n  secret: s\n  access_token_expiration: soon\n",
		"zero width":      "jwt:\n  secret: s\nidentifiers:\n  job_sequence_width: 0\n",
		"empty branch":    "jwt:\n  secret: s\nidentifiers:\n  branches:\n    Porur: \"\"\n",
		"short seed pass": "jwt:\n  secret: s\nseed:\n  admin_password: abc\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestParseMapEnv(t *testing.T) {
	entries, err := parseMapEnv("Anna Nagar=AN, Online = ON ,")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Anna Nagar": "AN", "Online": "ON"}, entries)

	_, err = parseMapEnv("Porur")
	assert.Error(t, err)

	_, err = parseMapEnv("Porur=")
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PLACEMENTCRM_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("PLACEMENTCRM_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("PLACEMENTCRM_TEST_UNSET", "fallback"))
}
