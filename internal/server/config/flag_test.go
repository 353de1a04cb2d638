package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:8081", "-l", "127.0.0.1:9090", "-D", "sqlite", "-d", "db", "-s", "secret",
			"-t", "1", "-r", "3", "-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP:             "127.0.0.1:8081",
				EndpointAddrGRPC:             "127.0.0.1:9090",
				DatabaseDriver:               "sqlite",
				DatabaseDSN:                  "db",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  1 * time.Minute,
				RefreshTokenValidityDuration: 3 * time.Minute,
				S3RootUser:                   "user",
				S3RootPassword:               "password",
				S3Bucket:                     "bucket",
				S3Region:                     "us-west-1",
				S3BaseEndpoint:               "http://endpoint",
			}},
		{name: "unknown flags are ignored", args: []string{"cmd", "-c", "cfg.json", "-x", "1", "-a", ":1"},
			expected: &Config{EndpointAddrHTTP: ":1"}},
		{name: "bad minutes", args: []string{"cmd", "-t", "ten"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseEnv(t *testing.T) {
	origLookup := lookupEnv
	t.Cleanup(func() { lookupEnv = origLookup })

	t.Run("overrides set values only", func(t *testing.T) {
		env := map[string]string{
			"ORDERSYNC_HTTP_ADDR":         ":9999",
			"ORDERSYNC_DATABASE_DRIVER":   "sqlite",
			"ORDERSYNC_ACCESS_TOKEN_TTL":  "5m",
			"ORDERSYNC_STRICT_VALIDATION": "false",
			"ORDERSYNC_ADMIN_EMAIL":       "",
		}
		lookupEnv = func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		}

		var c Config
		c.LoadDefaults()
		parseEnv(&c)

		assert.Equal(t, ":9999", c.EndpointAddrHTTP)
		assert.Equal(t, "sqlite", c.DatabaseDriver)
		assert.Equal(t, 5*time.Minute, c.AccessTokenValidityDuration)
		assert.False(t, c.StrictValidation)
		assert.Equal(t, "admin@admin.com", c.AdminEmail)
		assert.Equal(t, 24*time.Hour, c.RefreshTokenValidityDuration)
	})

	t.Run("bad duration panics", func(t *testing.T) {
		lookupEnv = func(k string) (string, bool) {
			if k == "ORDERSYNC_REFRESH_TOKEN_TTL" {
				return "soon", true
			}
			return "", false
		}
		require.Panics(t, func() { parseEnv(&Config{}) })
	})

	t.Run("bad bool panics", func(t *testing.T) {
		lookupEnv = func(k string) (string, bool) {
			if k == "ORDERSYNC_STRICT_VALIDATION" {
				return "maybe", true
			}
			return "", false
		}
		require.Panics(t, func() { parseEnv(&Config{}) })
	})
}
