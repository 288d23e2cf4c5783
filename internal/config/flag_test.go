package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags_Overrides(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin",
		"-a", ":6060",
		"-d", "postgres://flags/portal",
		"-s", "flag-secret",
		"-t", "15",
		"-r", "1440",
		"-k", "flag-key",
		"-e", "http://owm.flags",
		"-w", "3",
		"-p", "@every 30m",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":6060", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://flags/portal", cfg.DatabaseDSN)
	assert.Equal(t, "flag-secret", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 1440*time.Minute, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, "flag-key", cfg.WeatherAPIKey)
	assert.Equal(t, "http://owm.flags", cfg.WeatherBaseEndpoint)
	assert.Equal(t, 3*time.Minute, cfg.WeatherCacheTTL)
	assert.Equal(t, "@every 30m", cfg.LedgerPurgeSchedule)
}

func Test_parseFlags_KeepsDefaultsWhenAbsent(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, 60*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 10*time.Minute, cfg.WeatherCacheTTL)
}
