package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file
// in the working directory is loaded first when present; real environment
// variables win over .env values (godotenv does not override).
//
// Recognized variables:
//
//	ADDRESS                  HTTP bind address
//	DATABASE_DSN             PostgreSQL DSN
//	SECRET_KEY               JWT HMAC secret
//	ACCESS_TOKEN_TTL         access token validity (time.ParseDuration form)
//	REFRESH_TOKEN_TTL        refresh token validity
//	OPENWEATHER_API_KEY      OpenWeatherMap API key
//	OPENWEATHER_ENDPOINT     OpenWeatherMap base endpoint
//	WEATHER_CACHE_TTL        weather cache entry lifetime
//	LEDGER_PURGE_SCHEDULE    cron spec for revocation-ledger purging
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	setString("ADDRESS", &config.EndpointAddrHTTP)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("SECRET_KEY", &config.SecretKey)
	setDuration("ACCESS_TOKEN_TTL", &config.AccessTokenValidityDuration)
	setDuration("REFRESH_TOKEN_TTL", &config.RefreshTokenValidityDuration)
	setString("OPENWEATHER_API_KEY", &config.WeatherAPIKey)
	setString("OPENWEATHER_ENDPOINT", &config.WeatherBaseEndpoint)
	setDuration("WEATHER_CACHE_TTL", &config.WeatherCacheTTL)
	setString("LEDGER_PURGE_SCHEDULE", &config.LedgerPurgeSchedule)
}
