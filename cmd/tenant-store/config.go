package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/diwise/tenant-store/internal/pkg/application/subscriptions"
	"github.com/diwise/tenant-store/pkg/store"
	"github.com/diwise/tenant-store/pkg/store/memory"
	"github.com/diwise/tenant-store/pkg/store/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type FlagType int
type FlagMap map[FlagType]string

const (
	listenAddress FlagType = iota
	servicePort
	controlPort

	configPath
	storageType
	snapshotPath
	notifierEndpoint

	logFormat
)

const (
	StorageMemory   string = "memory"
	StoragePostgres string = "postgres"
)

type AppConfig struct {
	documentsConfig io.ReadCloser

	driver   store.Driver
	snapshot string
	notifier subscriptions.Notifier
	registry *prometheus.Registry

	publicPort  string
	controlPort string
}

func newConfig(ctx context.Context, flags FlagMap) (*AppConfig, error) {
	documentsConfig, err := os.Open(flags[configPath])
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file %s: %w", flags[configPath], err)
	}

	driver, err := newDriver(ctx, flags)
	if err != nil {
		documentsConfig.Close()
		return nil, err
	}

	cfg := &AppConfig{
		documentsConfig: documentsConfig,
		driver:          driver,
		registry:        newRegistry(),
	}

	if flags[storageType] == StorageMemory {
		cfg.snapshot = flags[snapshotPath]
	}

	if flags[notifierEndpoint] != "" {
		cfg.notifier, err = subscriptions.NewNotifier(ctx, flags[notifierEndpoint])
		if err != nil {
			return nil, fmt.Errorf("failed to create notifier: %w", err)
		}
	}

	return cfg, nil
}

func newDriver(ctx context.Context, flags FlagMap) (store.Driver, error) {
	switch flags[storageType] {
	case StorageMemory:
		return memory.New(), nil
	case StoragePostgres:
		return postgres.Connect(ctx, postgres.LoadConfiguration(ctx))
	}

	return nil, fmt.Errorf("unknown storage type %q", flags[storageType])
}

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// restoreSnapshot loads a previously saved memory store, if there is one
func (cfg *AppConfig) restoreSnapshot() error {
	m, ok := cfg.driver.(*memory.Driver)
	if !ok || cfg.snapshot == "" {
		return nil
	}

	f, err := os.Open(cfg.snapshot)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	return m.Restore(f)
}

func (cfg *AppConfig) saveSnapshot() error {
	m, ok := cfg.driver.(*memory.Driver)
	if !ok || cfg.snapshot == "" {
		return nil
	}

	f, err := os.Create(cfg.snapshot)
	if err != nil {
		return err
	}

	if err = m.Snapshot(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
