// pkg/config/config.go
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	mu            sync.RWMutex
}

// NewManager creates a Manager with a fresh koanf instance. Managers
// are constructed explicitly and passed by reference; there is no
// process-global configuration state.
func NewManager() *Manager {
	return &Manager{
		koanfInstance: koanf.New("."),
	}
}

// DefaultConfig returns a new Config struct populated with hardcoded
// default values. These serve as the baseline configuration if no other
// sources override them.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
		Server: DefaultServerConfig(),
		LLM: LLMConfig{
			Provider: "openrouter",
			BaseURL:  "https://openrouter.ai/api/v1",
			APIKey:   "",
			Timeout:  10 * time.Minute,
		},
		Generation: GenerationConfig{
			Model:             "google/gemini-2.5-pro",
			MaxAttempts:       3,
			Resume:            false,
			MaxConcurrentJobs: 4,
		},
	}
}

// Load merges configuration from all sources in precedence order
// (defaults, file, environment, flags) and unmarshals the result into
// the manager's current config.
func (m *Manager) Load(flags *pflag.FlagSet, configFilePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources := BuildSources(flags, configFilePath)
	for _, source := range sources {
		if err := source.Load(m.koanfInstance); err != nil {
			return fmt.Errorf("load config source %s: %w", source.Name(), err)
		}
	}

	var newCfg Config
	if err := m.koanfInstance.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("unmarshal final config: %w", err)
	}
	m.currentConfig = newCfg

	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentConfig
}

// DefaultConfigAsMap converts DefaultConfig to a flat map for koanf's
// confmap provider, so koanf knows every key up front.
func DefaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()
	return map[string]interface{}{
		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,
		"log.file":   def.Log.File,

		"server.addr":          def.Server.Addr,
		"server.port":          def.Server.Port,
		"server.api_enabled":   def.Server.APIEnabled,
		"server.workspace_dir": def.Server.WorkspaceDir,
		"server.read_timeout":  def.Server.ReadTimeout,
		"server.write_timeout": def.Server.WriteTimeout,

		"llm.provider": def.LLM.Provider,
		"llm.base_url": def.LLM.BaseURL,
		"llm.api_key":  def.LLM.APIKey,
		"llm.timeout":  def.LLM.Timeout,

		"generation.model":               def.Generation.Model,
		"generation.max_attempts":        def.Generation.MaxAttempts,
		"generation.resume":              def.Generation.Resume,
		"generation.max_concurrent_jobs": def.Generation.MaxConcurrentJobs,
	}
}

// BindFlags defines command-line flags corresponding to configuration
// settings. This function should be called when setting up Cobra
// commands.
func BindFlags(flags *pflag.FlagSet) {
	defaults := DefaultConfig()

	flags.String("log.level", defaults.Log.Level, "Log level (debug, info, warn, error)")
	flags.String("log.format", defaults.Log.Format, "Log format (text, json)")
	flags.String("llm.provider", defaults.LLM.Provider, "Generative backend provider (openai, openrouter, ollama)")
	flags.String("llm.base_url", defaults.LLM.BaseURL, "Generative backend API base URL")
	flags.String("llm.api_key", defaults.LLM.APIKey, "Generative backend API key")
	flags.String("generation.model", defaults.Generation.Model, "Model identifier for planning and generation")
	flags.Int("generation.max_attempts", defaults.Generation.MaxAttempts, "Retry budget per generation stage")
	flags.Bool("generation.resume", defaults.Generation.Resume, "Resume from snapshots of a prior partial run")

	var debug bool
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
}
