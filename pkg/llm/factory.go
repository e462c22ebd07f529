package llm

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Factory builds a Client from provider configuration.
type Factory func(cfg ProviderConfig) (Client, error)

// ProviderConfig carries the connection settings a Factory needs.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	// Timeout replaces the default request timeout when > 0.
	Timeout time.Duration
}

var (
	factoryMu sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs a provider factory under a name. Registering the
// same name twice panics; providers are registered from init functions
// and a duplicate is a programming error.
func Register(name string, factory Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("llm: provider %q registered twice", name))
	}
	factories[name] = factory
}

// NewClient builds a Client for the named provider.
func NewClient(provider string, cfg ProviderConfig) (Client, error) {
	factoryMu.RLock()
	factory, ok := factories[provider]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("llm: unsupported provider %q (supported: %v)", provider, Providers())
	}
	return factory(cfg)
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	openAICompatible := func(cfg ProviderConfig) (Client, error) {
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("llm: base URL is required")
		}
		var opts []OpenAIOption
		if cfg.Timeout > 0 {
			opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		}
		return NewOpenAIClient(cfg.BaseURL, cfg.APIKey, opts...), nil
	}

	Register("openai", openAICompatible)
	Register("openrouter", openAICompatible)
	Register("ollama", openAICompatible)
}
