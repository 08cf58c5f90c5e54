package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StorageConfig struct {
	Driver        string        `yaml:"driver" validate:"required|in:file,memory"`
	FilePath      string        `yaml:"filePath" validate:"unixPath"`
	FlushInterval time.Duration `yaml:"flushInterval"`
	MemorySizeMB  int           `yaml:"memorySizeMB"`
	MaxRetries    int           `yaml:"maxRetries"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type SessionConfig struct {
	DefaultCity   string `yaml:"defaultCity"`
	CommentAuthor string `yaml:"commentAuthor"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Storage   StorageConfig `yaml:"storage"`
	Logger    LoggerConfig  `yaml:"logger"`
	Session   SessionConfig `yaml:"session"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}
