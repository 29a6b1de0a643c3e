package config

import "time"

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".policyvote.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "http://localhost:8080",
		APIPrefix: "/api/v1",
		WSPath:    "/ws",
		DataDir:   "~/.policyvote",
		Language:  "en",
		Theme:     "light",
		Draft: DraftConfig{
			AutosaveInterval: 30 * time.Second,
			MaxAge:           24 * time.Hour,
		},
		Live: LiveConfig{
			BaseDelay:   3 * time.Second,
			MaxAttempts: 5,
		},
		Notice: NoticeConfig{
			SuccessTTL: 3 * time.Second,
			ErrorTTL:   5 * time.Second,
		},
		Preview: PreviewConfig{
			Addr: "127.0.0.1:7070",
		},
	}
}
