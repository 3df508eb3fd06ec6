package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/secondbrain/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every server environment variable, e.g. SECONDBRAIN_HTTP_ADDR.
const EnvPrefix = "SECONDBRAIN_"

// defaultEnvFile is loaded when present and no -env-file flag was given.
const defaultEnvFile = ".env"

// legacyEnv covers the unprefixed variables older deployments set.
// Prefixed variables win over these.
type legacyEnv struct {
	Port        string `env:"PORT"`
	JWTSecret   string `env:"JWT_SECRET"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// parseEnv overlays values from the process environment. A dotenv file named
// by -env-file (or ./.env when it exists) is loaded first; variables already
// set in the environment are not overridden by the file.
//
// Panics when an explicitly requested env file is unreadable or a variable
// cannot be parsed, consistent with parseJson.
func parseEnv(config *Config) {
	loadDotEnv()

	var legacy legacyEnv
	if err := env.Parse(&legacy); err != nil {
		panic(err)
	}
	if legacy.Port != "" {
		config.EndpointAddrHTTP = ":" + legacy.Port
	}
	if legacy.JWTSecret != "" {
		config.SecretKey = legacy.JWTSecret
	}
	if legacy.DatabaseURL != "" {
		config.DatabaseDSN = legacy.DatabaseURL
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}

func loadDotEnv() {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}

	if _, err := os.Stat(defaultEnvFile); errors.Is(err, fs.ErrNotExist) {
		return
	}
	_ = godotenv.Load(defaultEnvFile)
}
