package config

import "time"

// Relay kinds.
const (
	RelayForm = "form"
	RelaySMTP = "smtp"
)

// Config is the server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" koanf:"server"`
	Site      SiteConfig      `yaml:"site" koanf:"site"`
	Relay     RelayConfig     `yaml:"relay" koanf:"relay"`
	SMTP      SMTPConfig      `yaml:"smtp" koanf:"smtp"`
	Content   ContentConfig   `yaml:"content" koanf:"content"`
	DB        DBConfig        `yaml:"db" koanf:"db"`
	Admin     AdminConfig     `yaml:"admin" koanf:"admin"`
	Motion    MotionConfig    `yaml:"motion" koanf:"motion"`
	Retention RetentionConfig `yaml:"retention" koanf:"retention"`
}

type ServerConfig struct {
	Port        int      `yaml:"port" koanf:"port"`
	Mode        string   `yaml:"mode" koanf:"mode"`
	CORSOrigins []string `yaml:"cors_origins" koanf:"cors_origins"`
}

type SiteConfig struct {
	URL string `yaml:"url" koanf:"url"`
}

type RelayConfig struct {
	Kind     string        `yaml:"kind" koanf:"kind"`
	Endpoint string        `yaml:"endpoint" koanf:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" koanf:"timeout"`
}

type SMTPConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port string `yaml:"port" koanf:"port"`
	User string `yaml:"user" koanf:"user"`
	Pass string `yaml:"pass" koanf:"pass"`
	To   string `yaml:"to" koanf:"to"`
}

type ContentConfig struct {
	// Path overrides the embedded content file.
	Path      string `yaml:"path" koanf:"path"`
	StaticDir string `yaml:"static_dir" koanf:"static_dir"`
}

type DBConfig struct {
	Path string `yaml:"path" koanf:"path"`
	// Salt for visitor IP hashes; empty picks a random salt per run.
	Salt string `yaml:"salt" koanf:"salt"`
}

type AdminConfig struct {
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`
}

// MotionConfig tunes the choreography sessions.
type MotionConfig struct {
	Tablet    float64       `yaml:"tablet" koanf:"tablet"`
	Desktop   float64       `yaml:"desktop" koanf:"desktop"`
	Debounce  time.Duration `yaml:"debounce" koanf:"debounce"`
	FrameRate int           `yaml:"frame_rate" koanf:"frame_rate"`
	// SmoothLerp enables inertia scrolling when positive.
	SmoothLerp       float64 `yaml:"smooth_lerp" koanf:"smooth_lerp"`
	SmoothMultiplier float64 `yaml:"smooth_multiplier" koanf:"smooth_multiplier"`
}

type RetentionConfig struct {
	Months int           `yaml:"months" koanf:"months"`
	Every  time.Duration `yaml:"every" koanf:"every"`
}
