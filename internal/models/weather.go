package models

import "time"

// WeatherSearch is one recorded weather lookup made by a user.
type WeatherSearch struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temperature float64   `json:"temperature"`
	Description string    `json:"description"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Pressure    float64   `json:"pressure"`
	SearchedAt  time.Time `json:"searched_at"`
}

// SearchFilter is a user's stored search preferences. Each user has at
// most one record. The condition and city lists are stored as JSON text
// columns and decoded at the repository boundary.
type SearchFilter struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"-"`
	MinTemperature    *float64  `json:"min_temperature"`
	MaxTemperature    *float64  `json:"max_temperature"`
	WeatherConditions []string  `json:"weather_conditions"`
	FavoriteCities    []string  `json:"favorite_cities"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CityCount is an aggregate row: a city and how many times it was searched.
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// ConditionCount is an aggregate row over weather descriptions.
type ConditionCount struct {
	Description string `json:"description"`
	Count       int64  `json:"count"`
}
