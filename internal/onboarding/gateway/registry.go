package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Factory builds an uninitialised provider.
type Factory func() Provider

type RegistryConfig struct {
	Default         Tag
	TossClientKey   string
	StripeSecretKey string

	// TestMode substitutes the simulation provider for providers that are
	// not implemented or not configured.
	TestMode bool

	Logger *slog.Logger
}

// Registry constructs providers lazily and caches one per tag.
type Registry struct {
	cfg    RegistryConfig
	logger *slog.Logger

	mu        sync.Mutex
	factories map[Tag]Factory
	cache     map[Tag]Provider
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Default == "" {
		cfg.Default = TagToss
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		cfg:    cfg,
		logger: logger,
		factories: map[Tag]Factory{
			TagToss:    func() Provider { return NewToss() },
			TagStripe:  func() Provider { return NewStripe() },
			TagIamport: func() Provider { return NewIamport() },
			TagTest:    func() Provider { return NewSimulation() },
		},
		cache: make(map[Tag]Provider),
	}
}

// Register replaces the factory for tag and drops any cached instance.
func (r *Registry) Register(tag Tag, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[tag] = f
	delete(r.cache, tag)
}

func (r *Registry) Default() Tag { return r.cfg.Default }

func (r *Registry) TestMode() bool { return r.cfg.TestMode }

// Get returns the initialised provider for tag, or the default provider
// when tag is empty.
func (r *Registry) Get(ctx context.Context, tag Tag) (Provider, error) {
	if tag == "" {
		tag = r.cfg.Default
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.cache[tag]; ok {
		return p, nil
	}

	factory, ok := r.factories[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, tag)
	}

	p := factory()
	err := p.Init(ctx, r.options(tag))
	switch {
	case err == nil:
	case r.cfg.TestMode && (errors.Is(err, ErrProviderNotImplemented) || errors.Is(err, ErrNotConfigured)):
		r.logger.WarnContext(ctx, "payment provider unavailable, using simulation", "provider", tag, "err", err)
		p = NewSimulation()
		if err := p.Init(ctx, Options{TestMode: true}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("gateway: init %s: %w", tag, err)
	}

	r.cache[tag] = p
	return p, nil
}

// Reset drops every cached provider.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

func (r *Registry) options(tag Tag) Options {
	opts := Options{TestMode: r.cfg.TestMode}
	switch tag {
	case TagToss:
		opts.ClientKey = r.cfg.TossClientKey
	case TagStripe:
		opts.SecretKey = r.cfg.StripeSecretKey
	}
	return opts
}
