package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/posterboard/internal/flagx"
	"github.com/dmitrijs2005/posterboard/internal/timex"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for decoding config files. Durations accept
// both "24h" style strings and integer nanoseconds. Fields left out of the
// file keep the value they had before the overlay.
type fileConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDSN      string         `json:"database_dsn" yaml:"database_dsn"`
	SessionTTL       timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	BcryptCost       int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	S3RootUser       string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region         string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3PublicBaseURL  string         `json:"s3_public_base_url" yaml:"s3_public_base_url"`
	RedisAddr        string         `json:"redis_addr" yaml:"redis_addr"`
	LoginMaxAttempts int            `json:"login_max_attempts" yaml:"login_max_attempts"`
	LoginCooldown    timex.Duration `json:"login_cooldown" yaml:"login_cooldown"`
	MaxBodyBytes     int64          `json:"max_body_bytes" yaml:"max_body_bytes"`
}

// decodeFile unmarshals data according to the file extension. YAML is used for
// .yaml/.yml, everything else is treated as JSON that may carry comments and
// trailing commas.
func decodeFile(path string, data []byte, out *fileConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, out)
	default:
		return json.Unmarshal(jsonc.ToJSON(data), out)
	}
}

// parseFile loads the file named by -c/-config into config. Without the flag
// nothing happens. An unreadable or invalid file panics, the same way a bad
// flag does.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &fileConfig{}
	if err := decodeFile(path, data, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	setString(&config.RedisAddr, c.RedisAddr)

	if c.SessionTTL.Duration > 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.LoginMaxAttempts > 0 {
		config.LoginMaxAttempts = c.LoginMaxAttempts
	}
	if c.LoginCooldown.Duration > 0 {
		config.LoginCooldown = c.LoginCooldown.Duration
	}
	if c.MaxBodyBytes > 0 {
		config.MaxBodyBytes = c.MaxBodyBytes
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
