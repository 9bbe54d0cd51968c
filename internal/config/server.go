package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes the environment variables read by LoadServerSettings.
const EnvPrefix = "FLIR_LSP_"

// maxDefaultWorkers caps the worker pool when not configured explicitly.
const maxDefaultWorkers = 4

// ServerSettings tunes the language server's lint pipeline.
type ServerSettings struct {
	// Workers is the number of lint workers.
	Workers int `koanf:"workers"`
	// QueueCapacity bounds the task and event channels.
	QueueCapacity int `koanf:"queue_capacity"`
}

// DefaultServerSettings returns min(GOMAXPROCS, 4) workers and queues of 100.
func DefaultServerSettings() ServerSettings {
	return ServerSettings{
		Workers:       max(1, min(runtime.GOMAXPROCS(0), maxDefaultWorkers)),
		QueueCapacity: 100,
	}
}

// LoadServerSettings overlays FLIR_LSP_WORKERS and FLIR_LSP_QUEUE_CAPACITY
// on the defaults. environ is the environment as KEY=VALUE pairs; nil means
// the process environment.
func LoadServerSettings(environ func() []string) (ServerSettings, error) {
	defaults := DefaultServerSettings()
	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return defaults, fmt.Errorf("load defaults: %w", err)
	}

	opt := env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), strings.TrimSpace(value)
		},
	}
	if environ != nil {
		opt.EnvironFunc = environ
	}
	if err := k.Load(env.Provider(".", opt), nil); err != nil {
		return defaults, fmt.Errorf("load environment: %w", err)
	}

	var s ServerSettings
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return defaults, fmt.Errorf("decode %s* settings: %w", EnvPrefix, err)
	}
	if s.Workers < 1 {
		return defaults, fmt.Errorf("%sWORKERS must be at least 1, got %d", EnvPrefix, s.Workers)
	}
	if s.QueueCapacity < 1 {
		return defaults, fmt.Errorf("%sQUEUE_CAPACITY must be at least 1, got %d", EnvPrefix, s.QueueCapacity)
	}
	return s, nil
}
