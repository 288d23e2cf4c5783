package services

import (
	"context"
	"strings"

	"github.com/dkrasnov/skyportal/internal/weather"
)

// fakeProvider returns canned reports per city and counts upstream calls.
type fakeProvider struct {
	reports map[string]*weather.Report
	calls   int
}

func (p *fakeProvider) Current(_ context.Context, city string) (*weather.Report, error) {
	p.calls++
	rep, ok := p.reports[strings.ToLower(city)]
	if !ok {
		return nil, weather.ErrCityNotFound
	}
	cp := *rep
	return &cp, nil
}
