package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	t.Cleanup(func() { os.Args = old })
	os.Args = append([]string{"cmd"}, args...)
}

func TestParseFile_JSONWithComments(t *testing.T) {
	path := writeTemp(t, "server.json", `{
		// local development
		"endpoint_addr_http": ":9000",
		"session_ttl": "2h",
		"bcrypt_cost": 11,
		"login_cooldown": 30000000000,
		"max_body_bytes": 2048,
	}`)
	withArgs(t, "-c", path)

	c := &Config{}
	c.LoadDefaults()
	parseFile(c)

	assert.Equal(t, ":9000", c.EndpointAddrHTTP)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.Equal(t, 11, c.BcryptCost)
	assert.Equal(t, 30*time.Second, c.LoginCooldown)
	assert.Equal(t, int64(2048), c.MaxBodyBytes)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC, "unset fields keep defaults")
}

func TestParseFile_YAML(t *testing.T) {
	path := writeTemp(t, "server.yaml", `
database_dsn: postgres://u:p@db/posterboard
s3_bucket: images
redis_addr: redis:6379
login_max_attempts: 2
session_ttl: 45m
`)
	withArgs(t, "-config", path)

	c := &Config{}
	c.LoadDefaults()
	parseFile(c)

	assert.Equal(t, "postgres://u:p@db/posterboard", c.DatabaseDSN)
	assert.Equal(t, "images", c.S3Bucket)
	assert.Equal(t, "redis:6379", c.RedisAddr)
	assert.Equal(t, 2, c.LoginMaxAttempts)
	assert.Equal(t, 45*time.Minute, c.SessionTTL)
}

func TestParseFile_NoFlag(t *testing.T) {
	withArgs(t)

	c := &Config{}
	c.LoadDefaults()
	parseFile(c)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestParseFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		withArgs(t, "-c", filepath.Join(t.TempDir(), "nope.json"))
		assert.Panics(t, func() { parseFile(&Config{}) })
	})

	t.Run("invalid content", func(t *testing.T) {
		withArgs(t, "-c", writeTemp(t, "bad.yml", "session_ttl: [1, 2"))
		assert.Panics(t, func() { parseFile(&Config{}) })
	})
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := writeTemp(t, "server.yaml", "endpoint_addr_http: \":9000\"\ns3_region: eu-north-1\n")
	withArgs(t, "-c", path, "-a", ":7000")

	c := LoadConfig()
	assert.Equal(t, ":7000", c.EndpointAddrHTTP)
	assert.Equal(t, "eu-north-1", c.S3Region)
}
