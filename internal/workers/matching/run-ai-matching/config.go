// internal/workers/matching/run-ai-matching/config.go
package runaimatching

import "time"

type Config struct {
	Timeout        time.Duration
	RemoteTimeout  time.Duration
	CacheTTL       time.Duration
	RemoteMinScore int
	LocalMinScore  int
	MaxResults     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        60 * time.Second,
		RemoteTimeout:  30 * time.Second,
		CacheTTL:       10 * time.Minute,
		RemoteMinScore: 75,
		LocalMinScore:  50,
		MaxResults:     15,
	}
}
