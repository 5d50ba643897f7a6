package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/silt"
	"gopkg.in/yaml.v3"
)

// loadConfig resolves the remote store configuration: silt.yaml first (when
// present), environment variables on top. Environment always wins so a
// checked-in silt.yaml can be overridden per shell.
func loadConfig() (silt.Config, error) {
	var cfg silt.Config

	path := configFile
	if path == "" {
		path = "silt.yaml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return silt.Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && configFile == "":
		// No default config file is fine; env may carry everything.
	default:
		return silt.Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	overlayEnv(&cfg.Endpoint, "SILT_ENDPOINT")
	overlayEnv(&cfg.Project, "SILT_PROJECT")
	overlayEnv(&cfg.Database, "SILT_DATABASE")
	overlayEnv(&cfg.NotesCollection, "SILT_NOTES_COLLECTION")
	overlayEnv(&cfg.Platform, "SILT_PLATFORM")

	return cfg, nil
}

func overlayEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// newService builds the service with the CLI's token store so sessions
// survive between invocations, and restores the session state.
func newService(ctx context.Context) (*silt.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	tokens, err := newFileTokenStore()
	if err != nil {
		return nil, err
	}
	svc, err := silt.New(cfg,
		silt.WithLogger(slog.Default()),
		silt.WithTokenStore(tokens),
	)
	if err != nil {
		return nil, err
	}
	svc.Restore(ctx)
	return svc, nil
}
