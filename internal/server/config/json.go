package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/secondbrain/internal/flagx"
	"github.com/dmitrijs2005/secondbrain/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Durations accept both "168h" strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	PublicBaseURL               string         `json:"public_base_url"`
	ShareTokenLength            int            `json:"share_token_length"`
	ShareTokenMaxAttempts       int            `json:"share_token_max_attempts"`
	RateLimitInterval           timex.Duration `json:"rate_limit_interval"`
	RateLimitBurst              int            `json:"rate_limit_burst"`
	CORSOrigins                 []string       `json:"cors_origins"`
	TrustedProxies              []string       `json:"trusted_proxies"`
	LogLevel                    string         `json:"log_level"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	ExportURLValidityDuration   timex.Duration `json:"export_url_validity_duration"`
}

// parseJson loads the file named by -c/-config, if any, and copies every
// field that is present (non-zero) into config. Unreadable files or invalid
// JSON panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RateLimitInterval.Duration != 0 {
		config.RateLimitInterval = c.RateLimitInterval.Duration
	}
	if c.ExportURLValidityDuration.Duration != 0 {
		config.ExportURLValidityDuration = c.ExportURLValidityDuration.Duration
	}
	if c.ShareTokenLength != 0 {
		config.ShareTokenLength = c.ShareTokenLength
	}
	if c.ShareTokenMaxAttempts != 0 {
		config.ShareTokenMaxAttempts = c.ShareTokenMaxAttempts
	}
	if c.RateLimitBurst != 0 {
		config.RateLimitBurst = c.RateLimitBurst
	}
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
	if len(c.TrustedProxies) > 0 {
		config.TrustedProxies = c.TrustedProxies
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
