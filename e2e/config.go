package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_API_ADDR targets a running server, e.g. http://localhost:3000.
	// When empty the suite starts the whole stack in-process.
	APIAddr string `envconfig:"E2E_API_ADDR"`
	// E2E_DEBUG_JSON dumps every response body
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
