package config

import (
	"os"
	"strings"
)

// EnvVar selects the environment preset.
const EnvVar = "APP_ENV"

const (
	EnvStaging    = "staging"
	EnvProduction = "production"
)

type environment struct {
	httpAddr      string
	httpsAddr     string
	hashingSecret string
}

var environments = map[string]environment{
	EnvStaging: {
		httpAddr:      ":3000",
		httpsAddr:     ":3001",
		hashingSecret: "thisIsASecret",
	},
	EnvProduction: {
		httpAddr:      ":5000",
		httpsAddr:     ":5001",
		hashingSecret: "thisIsASecret",
	},
}

// applyEnvironment overwrites the preset-controlled fields. Unknown names
// fall back to staging.
func applyEnvironment(c *Config, name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	env, ok := environments[name]
	if !ok {
		name = EnvStaging
		env = environments[EnvStaging]
	}

	c.EnvName = name
	c.HTTPAddr = env.httpAddr
	c.HTTPSAddr = env.httpsAddr
	c.HashingSecret = env.hashingSecret
}

func parseEnvironment(c *Config) {
	if v, ok := os.LookupEnv(EnvVar); ok {
		applyEnvironment(c, v)
	}
}
