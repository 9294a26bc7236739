// internal/stages/similar/config.go
package similar

type Config struct {
	Path        string
	K           int
	AwardFilter string
}

func LoadConfig() *Config {
	return &Config{
		Path:        "/similar",
		K:           3,
		AwardFilter: "big",
	}
}
