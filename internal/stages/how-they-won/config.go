// internal/stages/how-they-won/config.go
package howtheywon

type Config struct {
	Path string
}

func LoadConfig() *Config {
	return &Config{
		Path: "/how-they-won",
	}
}
