// internal/stages/what-they-did/config.go
package whattheydid

type Config struct {
	Path string
}

func LoadConfig() *Config {
	return &Config{
		Path: "/what-they-did",
	}
}
