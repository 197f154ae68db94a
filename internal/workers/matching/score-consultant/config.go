// internal/workers/matching/score-consultant/config.go
package scoreconsultant

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: 10 * time.Minute,
	}
}
