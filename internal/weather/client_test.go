package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCurrent(t *testing.T) {
	payload := `{
		"name": "Riga",
		"main": {"temp": 21.4, "humidity": 63, "pressure": 1012},
		"weather": [{"description": "light rain"}],
		"sys": {"country": "LV"},
		"wind": {"speed": 4.2}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/weather" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "Riga" {
			t.Errorf("unexpected city: %s", q.Get("q"))
		}
		if q.Get("appid") != "test-key" {
			t.Errorf("unexpected api key: %s", q.Get("appid"))
		}
		if q.Get("units") != "metric" {
			t.Errorf("unexpected units: %s", q.Get("units"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	rep, err := c.Current(context.Background(), "Riga")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rep.City != "Riga" {
		t.Errorf("city = %q, want Riga", rep.City)
	}
	if rep.Country != "LV" {
		t.Errorf("country = %q, want LV", rep.Country)
	}
	if rep.Temperature != 21.4 {
		t.Errorf("temperature = %v, want 21.4", rep.Temperature)
	}
	if rep.Description != "Light Rain" {
		t.Errorf("description = %q, want Light Rain", rep.Description)
	}
	if rep.Humidity != 63 {
		t.Errorf("humidity = %d, want 63", rep.Humidity)
	}
	if rep.WindSpeed != 4.2 {
		t.Errorf("wind speed = %v, want 4.2", rep.WindSpeed)
	}
	if rep.Pressure != 1012 {
		t.Errorf("pressure = %v, want 1012", rep.Pressure)
	}
}

func TestTitleCase(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"light rain", "Light Rain"},
		{"overcast clouds", "Overcast Clouds"},
		{"légère pluie", "Légère Pluie"},
		{"ясно", "Ясно"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := titleCase(tc.in); got != tc.want {
			t.Errorf("titleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCurrentCityNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	_, err := c.Current(context.Background(), "Nowheresville")
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
}

func TestCurrentUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	if _, err := c.Current(context.Background(), "Riga"); err == nil {
		t.Fatal("expected error on upstream 500")
	}
}

func TestCurrentMissingAPIKey(t *testing.T) {
	c := NewClient("http://example.invalid", "")
	if _, err := c.Current(context.Background(), "Riga"); err == nil {
		t.Fatal("expected error when api key is empty")
	}
}

func TestCurrentMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "Riga", "weather": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	if _, err := c.Current(context.Background(), "Riga"); err == nil {
		t.Fatal("expected error on payload without conditions")
	}
}
