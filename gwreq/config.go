package main

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	gatewayes "github.com/czabaj/protoc-gen-grpc-gateway-es"
)

// Config is the gwreq configuration. It is read from an optional config
// file and overridden by GWREQ_* environment variables
// (GWREQ_BASE_PATH, GWREQ_JWT_SECRET, ...).
type Config struct {
	BasePath      string
	BearerToken   string
	LogLevel      string
	OriginalNames bool
	// JWT mints a bearer token per request when JWT.Subject is set and no
	// static BearerToken is configured.
	JWT gatewayes.JWTConfig
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("jwt.ttl", 5*time.Minute)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	v.SetEnvPrefix("GWREQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		BasePath:      v.GetString("base_path"),
		BearerToken:   v.GetString("bearer_token"),
		LogLevel:      v.GetString("log_level"),
		OriginalNames: v.GetBool("original_names"),
		JWT: gatewayes.JWTConfig{
			Secret:   v.GetString("jwt.secret"),
			Issuer:   v.GetString("jwt.issuer"),
			Subject:  v.GetString("jwt.subject"),
			Audience: v.GetStringSlice("jwt.audience"),
			TTL:      v.GetDuration("jwt.ttl"),
		},
	}, nil
}
