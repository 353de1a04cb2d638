package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const envPrefix = "ORDERSYNC_"

// lookupEnv is a seam for tests.
var lookupEnv = os.LookupEnv

// parseEnv overlays ORDERSYNC_* variables. A .env file, when present, is
// loaded into the environment by the binary before this runs. Malformed
// durations or booleans panic, like a malformed config file.
func parseEnv(config *Config) {
	str := func(name string, dst *string) {
		if v, ok := lookupEnv(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		v, ok := lookupEnv(envPrefix + name)
		if !ok || v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
		}
		*dst = d
	}

	str("HTTP_ADDR", &config.EndpointAddrHTTP)
	str("GRPC_ADDR", &config.EndpointAddrGRPC)
	str("BASE_PATH", &config.BasePath)
	str("DATABASE_DRIVER", &config.DatabaseDriver)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	dur("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	dur("REFRESH_TOKEN_TTL", &config.RefreshTokenValidityDuration)
	str("ADMIN_EMAIL", &config.AdminEmail)
	str("ADMIN_PASSWORD", &config.AdminPassword)
	if v, ok := lookupEnv(envPrefix + "STRICT_VALIDATION"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%sSTRICT_VALIDATION: %w", envPrefix, err))
		}
		config.StrictValidation = b
	}
	str("LOG_LEVEL", &config.LogLevel)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}
