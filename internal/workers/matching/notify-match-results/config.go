// internal/workers/matching/notify-match-results/config.go
package notifymatchresults

import "time"

type Config struct {
	Timeout   time.Duration
	Enabled   bool
	FromEmail string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
		Enabled: false,
	}
}
