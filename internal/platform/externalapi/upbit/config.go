// Package upbit provides a client for the Upbit exchange ticker API.
package upbit

import "time"

// Config holds configuration for the Upbit API client.
type Config struct {
	BaseURL  string        `envconfig:"UPBIT_BASE_URL" default:"https://api.upbit.com"` // Base URL for the API
	Exchange string        `envconfig:"UPBIT_EXCHANGE" default:"UPBIT"`                 // Exchange name stamped on every tick
	Timeout  time.Duration `envconfig:"UPBIT_TIMEOUT" default:"5s"`                     // HTTP request timeout
}
