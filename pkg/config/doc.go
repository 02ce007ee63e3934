// Package config fills configuration structs from environment variables.
//
// Load reads optional dotenv files with github.com/joho/godotenv (values
// already present in the environment win) and parses the process environment
// into the target struct with github.com/caarlos0/env/v11, so field behaviour
// is driven by the usual `env`, `envDefault` and `envPrefix` tags:
//
//	type Config struct {
//	    Payload payload.Config `envPrefix:"PUSH_"`
//	    Addr    string         `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithEnvFiles(".env")); err != nil {
//	    return err
//	}
//
// WithPrefix namespaces every variable of the struct, which lets one binary
// host several independently configured instances of the same struct.
package config
