package config

import "time"

// Config is the top-level client configuration, corresponding to
// .policyvote.yml.
type Config struct {
	BaseURL        string        `yaml:"base_url" koanf:"base_url"`
	APIPrefix      string        `yaml:"api_prefix" koanf:"api_prefix"`
	WSPath         string        `yaml:"ws_path" koanf:"ws_path"`
	DataDir        string        `yaml:"data_dir" koanf:"data_dir"`
	Language       string        `yaml:"language" koanf:"language"`
	Theme          string        `yaml:"theme" koanf:"theme"`
	RequestTimeout time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
	Draft          DraftConfig   `yaml:"draft" koanf:"draft"`
	Live           LiveConfig    `yaml:"live" koanf:"live"`
	Notice         NoticeConfig  `yaml:"notice" koanf:"notice"`
	Preview        PreviewConfig `yaml:"preview" koanf:"preview"`
}

// DraftConfig controls the submission draft.
type DraftConfig struct {
	AutosaveInterval time.Duration `yaml:"autosave_interval" koanf:"autosave_interval"`
	MaxAge           time.Duration `yaml:"max_age" koanf:"max_age"`
}

// LiveConfig controls reconnects of the push channel.
type LiveConfig struct {
	BaseDelay time.Duration `yaml:"base_delay" koanf:"base_delay"`
	// MaxAttempts of 0 disables reconnecting.
	MaxAttempts int `yaml:"max_attempts" koanf:"max_attempts"`
}

// NoticeConfig sets how long banners stay up.
type NoticeConfig struct {
	SuccessTTL time.Duration `yaml:"success_ttl" koanf:"success_ttl"`
	ErrorTTL   time.Duration `yaml:"error_ttl" koanf:"error_ttl"`
}

// PreviewConfig configures the local preview server.
type PreviewConfig struct {
	Addr     string `yaml:"addr" koanf:"addr"`
	AllowAll bool   `yaml:"allow_all" koanf:"allow_all"`
}
