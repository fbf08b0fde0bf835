package config

import (
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
)

const (
	defaultHTTPAddress   = "localhost:8080"
	defaultMirrorDSN     = "portal-mirror.db"
	defaultCacheSize     = 64
	defaultCacheTTL      = 5 * time.Minute
	defaultTokenIssuer   = "tech-support"
	defaultTokenDuration = time.Hour
	defaultAuthRate      = 1
	defaultAuthBurst     = 5
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, config.validate()
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flags, err := ParseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flags)
	return b
}

func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
			break
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, jsonCfg)

	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, &StructuredConfig{
		Remote: Remote{
			Mode:          RemoteModeHTTP,
			TokenIssuer:   defaultTokenIssuer,
			TokenDuration: defaultTokenDuration,
		},
		Mirror: Mirror{
			DSN:       defaultMirrorDSN,
			CacheSize: defaultCacheSize,
			CacheTTL:  defaultCacheTTL,
		},
		Server: Server{
			HTTPAddress:   defaultHTTPAddress,
			AuthRateLimit: defaultAuthRate,
			AuthRateBurst: defaultAuthBurst,
		},
	})
	return b
}
