package repository

import (
	"context"

	"commerce-klaviyo-layer/internal/domain"
	"commerce-klaviyo-layer/internal/ports"
)

// StaticConfigProvider serves a fixed configuration. Used when the settings
// come from the environment instead of the host platform's database, and by
// tests.
type StaticConfigProvider struct {
	config domain.Config
}

// NewStaticConfigProvider creates a provider returning the given config.
func NewStaticConfigProvider(config domain.Config) ports.ConfigProvider {
	return &StaticConfigProvider{config: config}
}

// Get returns a copy of the fixed configuration.
func (p *StaticConfigProvider) Get(_ context.Context) (*domain.Config, error) {
	cfg := p.config
	return &cfg, nil
}
