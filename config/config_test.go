package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetString(t *testing.T) {
	c := map[string]string{"PORT": "9090", "EMPTY": ""}

	assert.Equal(t, "9090", GetString(c, "PORT", "8080"))
	assert.Equal(t, "8080", GetString(c, "MISSING", "8080"))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
}

func TestGetInt(t *testing.T) {
	c := map[string]string{"TIMEOUT": "30", "BAD": "thirty"}

	assert.Equal(t, 30, GetInt(c, "TIMEOUT", 180))
	assert.Equal(t, 180, GetInt(c, "BAD", 180))
	assert.Equal(t, 180, GetInt(c, "MISSING", 180))
	assert.Equal(t, 180, GetInt(nil, "TIMEOUT", 180))
}

func TestGetBool(t *testing.T) {
	c := map[string]string{"ON": "true", "OFF": " 0 ", "BAD": "maybe"}

	assert.True(t, GetBool(c, "ON", false))
	assert.False(t, GetBool(c, "OFF", true))
	assert.True(t, GetBool(c, "BAD", true))
	assert.False(t, GetBool(c, "MISSING", false))
}

func TestGetStrings(t *testing.T) {
	c := map[string]string{
		"ORIGINS": "http://a.test, http://b.test,,",
		"BLANK":   " , ",
	}

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetStrings(c, "ORIGINS", nil))
	assert.Equal(t, []string{"*"}, GetStrings(c, "BLANK", []string{"*"}))
	assert.Equal(t, []string{"*"}, GetStrings(c, "MISSING", []string{"*"}))
}

func TestNewSnapshotsEnvironment(t *testing.T) {
	t.Setenv("BLOGD_TEST_KEY", "a=b")

	c := New()
	assert.Equal(t, "a=b", c["BLOGD_TEST_KEY"])
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BLOGD_DOTENV_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BLOGD_DOTENV_KEY") })

	Load(path)

	assert.Equal(t, "from-file", os.Getenv("BLOGD_DOTENV_KEY"))
}

func TestLoadMissingFileIsNotFatal(t *testing.T) {
	assert.NotPanics(t, func() { Load(filepath.Join(t.TempDir(), "nope.env")) })
}
