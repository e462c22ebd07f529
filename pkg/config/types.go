// pkg/config/types.go
package config

import "time"

// Config is the root configuration structure for the ViviDoc
// application. It aggregates all other specific configuration structs.
type Config struct {
	Log        LogConfig        `koanf:"log"`
	Server     ServerConfig     `koanf:"server"`
	LLM        LLMConfig        `koanf:"llm"`
	Generation GenerationConfig `koanf:"generation"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
	Format string `koanf:"format"` // "json" | "text"
	File   string `koanf:"file"`   // optional log file path
}

// ServerConfig holds configuration for the ViviDoc server runtime.
type ServerConfig struct {
	Addr string `koanf:"addr"`
	Port int    `koanf:"port"`

	APIEnabled bool `koanf:"api_enabled"`

	// WorkspaceDir overrides the default workspace root.
	WorkspaceDir string `koanf:"workspace_dir"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// LLMConfig holds generative-backend connection settings.
type LLMConfig struct {
	Provider string        `koanf:"provider"` // "openai" | "openrouter" | "ollama"
	BaseURL  string        `koanf:"base_url"`
	APIKey   string        `koanf:"api_key"`
	Timeout  time.Duration `koanf:"timeout"`
}

// GenerationConfig holds document-generation settings.
type GenerationConfig struct {
	Model string `koanf:"model"`
	// MaxAttempts bounds retries per generation stage.
	MaxAttempts int `koanf:"max_attempts"`
	// Resume skips stages completed by a prior partial run.
	Resume bool `koanf:"resume"`
	// MaxConcurrentJobs bounds generation jobs running at once.
	MaxConcurrentJobs int64 `koanf:"max_concurrent_jobs"`
}
