package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkrasnov/skyportal/internal/flagx"
	"github.com/dkrasnov/skyportal/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "10m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files; its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	WeatherAPIKey                string         `json:"weather_api_key"`
	WeatherBaseEndpoint          string         `json:"weather_base_endpoint"`
	WeatherCacheTTL              timex.Duration `json:"weather_cache_ttl"`
	LedgerPurgeSchedule          string         `json:"ledger_purge_schedule"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. An unreadable or
// invalid file panics, matching flag-parsing behavior.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	config.WeatherAPIKey = c.WeatherAPIKey
	config.WeatherBaseEndpoint = c.WeatherBaseEndpoint
	config.WeatherCacheTTL = time.Duration(c.WeatherCacheTTL.Duration)
	config.LedgerPurgeSchedule = c.LedgerPurgeSchedule
}
