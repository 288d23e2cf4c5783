// Package weather implements the OpenWeatherMap client. The upstream API
// is treated as an opaque HTTP service returning JSON; only the fields the
// portal records are parsed out.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/dkrasnov/skyportal/internal/common"
)

// Report is the parsed result of one current-weather lookup.
type Report struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Pressure    float64 `json:"pressure"`
}

// ErrCityNotFound is returned when the upstream API does not know the city.
var ErrCityNotFound = errors.New("city not found")

// Client fetches current weather from the OpenWeatherMap API.
type Client struct {
	baseEndpoint string
	apiKey       string
	httpClient   *http.Client
}

func NewClient(baseEndpoint, apiKey string) *Client {
	return &Client{
		baseEndpoint: strings.TrimRight(baseEndpoint, "/"),
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// currentResponse mirrors the subset of the upstream payload the portal uses.
type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current fetches the current weather for a city in metric units.
func (c *Client) Current(ctx context.Context, city string) (*Report, error) {
	if c.apiKey == "" {
		return nil, errors.New("weather API key not configured")
	}

	u := fmt.Sprintf("%s/data/2.5/weather?q=%s&appid=%s&units=metric",
		c.baseEndpoint, url.QueryEscape(city), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather API error: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrCityNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("weather API error: %w (status %d)", common.ErrorInternal, resp.StatusCode)
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding weather response: %w", err)
	}
	if len(body.Weather) == 0 {
		return nil, errors.New("invalid weather data format: missing conditions")
	}

	return &Report{
		City:        body.Name,
		Country:     body.Sys.Country,
		Temperature: body.Main.Temp,
		Description: titleCase(body.Weather[0].Description),
		Humidity:    body.Main.Humidity,
		WindSpeed:   body.Wind.Speed,
		Pressure:    body.Main.Pressure,
	}, nil
}

// titleCase uppercases the first letter of each space-separated word,
// matching how descriptions like "light rain" are presented upstream.
// Descriptions from localized responses may start with a multibyte rune,
// so the first character is handled as a rune, not a byte.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
