package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - login.go: login endpoint configuration
//   - storage.go: durable client storage configuration
//   - http.go: dev login server configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging, the dev
	// login endpoint's fixed user table). Set DEV=true for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Login endpoint configuration
	Login LoginConfig `envPrefix:"LOGIN_"`

	// Durable storage configuration
	Storage StorageConfig `envPrefix:"STORAGE_"`

	// Dev login server configuration
	HTTP HTTPConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Login.Sanitize()
	c.HTTP.Sanitize()
}
