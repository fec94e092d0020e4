// Package oracle owns the AI credential and the provider built from it,
// and implements the tutor chat, stats analysis and key probe on top.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/misparia/internal/llm"
)

// ErrNoCredential means no API key is configured; callers degrade.
var ErrNoCredential = errors.New("no oracle credential configured")

// Factory builds a provider for a fully keyed config.
type Factory func(ctx context.Context, cfg llm.Config) (llm.Provider, error)

// DefaultFactory wires llm.NewProvider with the given journal and logger.
func DefaultFactory(sink llm.EventSink, logger *zap.Logger) Factory {
	return func(ctx context.Context, cfg llm.Config) (llm.Provider, error) {
		return llm.NewProvider(ctx, cfg, sink, logger)
	}
}

// Client holds the current credential. The provider is rebuilt only when
// the key value changes.
type Client struct {
	mu       sync.RWMutex
	base     llm.Config
	key      string
	provider llm.Provider

	factory Factory
	logger  *zap.Logger
}

// NewClient creates a client for cfg. When cfg already carries a key the
// provider is built eagerly; a build failure is logged and leaves the
// client without a credential.
func NewClient(ctx context.Context, cfg llm.Config, factory Factory, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		base:    cfg.WithAPIKey(""),
		factory: factory,
		logger:  logger.Named("oracle"),
	}
	if key := cfg.APIKey(); key != "" || cfg.Provider == llm.ProviderMock {
		if err := c.SetCredential(ctx, key); err != nil {
			c.logger.Warn("oracle credential rejected at startup", zap.Error(err))
		}
	}
	return c
}

// SetCredential installs key. An empty key clears the provider, except for
// the keyless mock backend.
func (c *Client) SetCredential(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.provider != nil && key == c.key {
		return nil
	}
	if key == "" && c.base.Provider != llm.ProviderMock {
		c.key, c.provider = "", nil
		return nil
	}

	p, err := c.factory(ctx, c.base.WithAPIKey(key))
	if err != nil {
		c.key, c.provider = "", nil
		return fmt.Errorf("build %s provider: %w", c.base.Provider, err)
	}
	c.key, c.provider = key, p
	c.logger.Info("oracle ready", zap.String("provider", c.base.Provider), zap.String("model", p.ModelID()))
	return nil
}

// Provider returns the live provider, or nil without a credential.
func (c *Client) Provider() llm.Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.provider
}

// Available reports whether a provider is configured.
func (c *Client) Available() bool {
	return c.Provider() != nil
}

// ProviderName is the configured vendor, e.g. "gemini".
func (c *Client) ProviderName() string {
	return c.base.Provider
}

// ValidateKey sends a minimal "Test" request with a throwaway provider
// built from key. The live credential is untouched.
func (c *Client) ValidateKey(ctx context.Context, key string) error {
	if key == "" {
		return ErrNoCredential
	}
	p, err := c.factory(ctx, c.base.WithAPIKey(key))
	if err != nil {
		return err
	}

	ctx, cancel := c.withTimeout(llm.WithPurpose(ctx, llm.PurposeKeyCheck))
	defer cancel()

	_, err = p.Generate(ctx, llm.Request{
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: "Test"}},
		MaxTokens: 16,
	})
	return err
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.base.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
