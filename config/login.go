package config

import "time"

// LoginConfig contains configuration for the external login endpoint.
type LoginConfig struct {
	// Endpoint is the full URL of the login route.
	Endpoint string `env:"ENDPOINT" envDefault:"http://localhost:8080/api/v1/auth/login"`

	// Timeout bounds the whole login request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to login configuration values.
func (l *LoginConfig) Sanitize() {
	if l.Timeout <= 0 {
		l.Timeout = 15 * time.Second
	}
}
