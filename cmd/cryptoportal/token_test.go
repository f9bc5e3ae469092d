package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/cryptoportal/internal/config"
	"github.com/neboloop/cryptoportal/internal/defaults"
	"github.com/neboloop/cryptoportal/internal/logging"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c, err := config.LoadFromBytes(nil)
	require.NoError(t, err)

	root := SetupRootCmd(&c)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), err
}

func useTempDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(defaults.DataDirEnv, dir)
	logging.Disable()
	t.Cleanup(logging.Enable)
	return dir
}

func TestTokenLifecycle(t *testing.T) {
	dir := useTempDataDir(t)

	out, err := execute(t, "token", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No token stored.")

	out, err = execute(t, "token", "set", "opaque-access-token-123")
	require.NoError(t, err)
	assert.Contains(t, out, "Token saved.")

	data, err := os.ReadFile(filepath.Join(dir, defaults.StorageFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"token": "opaque-access-token-123"`)

	out, err = execute(t, "token", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "opaq...-123")
	assert.NotContains(t, out, "opaque-access-token-123", "token must be masked")

	out, err = execute(t, "token", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Token cleared.")

	out, err = execute(t, "token", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No token stored.")
}

func TestTokenSetRequiresValue(t *testing.T) {
	useTempDataDir(t)

	_, err := execute(t, "token", "set")
	assert.Error(t, err)
	_, err = execute(t, "token", "set", "   ")
	assert.Error(t, err)
}

func TestConfigFlagOverridesStore(t *testing.T) {
	useTempDataDir(t)
	t.Setenv("CRYPTOPORTAL_TEST_TOKEN", "from-env-variable-xyz")

	cfg := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("credentials:\n  source: env\n  envVar: CRYPTOPORTAL_TEST_TOKEN\n"), 0600))

	out, err := execute(t, "--config", cfg, "token", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "from...-xyz")
}

func TestDescribeJWT(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("not-our-secret"))
	require.NoError(t, err)

	var out bytes.Buffer
	describeToken(&out, signed, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, out.String(), "Subject: user-42")
	assert.Contains(t, out.String(), "Expires: 2030-01-02T03:04:05Z (valid)")

	out.Reset()
	describeToken(&out, signed, exp.Add(time.Second))
	assert.Contains(t, out.String(), "(expired)")
}

func TestDescribeOpaqueToken(t *testing.T) {
	var out bytes.Buffer
	describeToken(&out, "short", time.Now())
	assert.Equal(t, "Token:   *****\n", out.String())
	assert.False(t, strings.Contains(out.String(), "Subject"))
}
