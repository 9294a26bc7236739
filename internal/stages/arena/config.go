// internal/stages/arena/config.go
package arena

type Config struct {
	Path string
}

func LoadConfig() *Config {
	return &Config{
		Path: "/arena",
	}
}
