package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkrasnov/skyportal/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-k string   OpenWeatherMap API key
//	-e string   OpenWeatherMap base endpoint
//	-w int      weather cache TTL, minutes
//	-p string   revocation-ledger purge schedule (cron spec)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flags handled
// by the JSON loader. Duration flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-k", "-e", "-w", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.WeatherAPIKey, "k", config.WeatherAPIKey, "OpenWeatherMap API key")
	fs.StringVar(&config.WeatherBaseEndpoint, "e", config.WeatherBaseEndpoint, "OpenWeatherMap base endpoint")
	weatherCacheTTL := fs.Int("w", int(config.WeatherCacheTTL.Minutes()), "weather_cache_ttl (in minutes)")
	fs.StringVar(&config.LedgerPurgeSchedule, "p", config.LedgerPurgeSchedule, "revocation ledger purge schedule")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.WeatherCacheTTL = time.Duration(*weatherCacheTTL) * time.Minute
}
