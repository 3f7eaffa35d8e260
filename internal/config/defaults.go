package config

import "time"

// DefaultPath is the config file read when none is given.
const DefaultPath = "portfolio.yml"

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Mode: "debug",
		},
		Site: SiteConfig{URL: "http://localhost:8080"},
		Relay: RelayConfig{
			Kind:     RelaySMTP,
			Endpoint: "https://formsubmit.co/zachkordaspotter@gmail.com",
			Timeout:  10 * time.Second,
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: "587",
			To:   "zachkordaspotter@gmail.com",
		},
		Content: ContentConfig{StaticDir: "static"},
		DB:      DBConfig{Path: "data/portfolio.db"},
		Admin:   AdminConfig{Username: "admin"},
		Motion: MotionConfig{
			Tablet:           768,
			Desktop:          1024,
			Debounce:         150 * time.Millisecond,
			FrameRate:        60,
			SmoothLerp:       0.1,
			SmoothMultiplier: 1,
		},
		Retention: RetentionConfig{Months: 12, Every: 24 * time.Hour},
	}
}
