package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"accord/internal/domain"
	"accord/internal/observability"
	"accord/internal/relay"
	"accord/internal/services/identity"
	messagesvc "accord/internal/services/message"
	migrationsvc "accord/internal/services/migration"
	"accord/internal/store"
)

// ErrLocalOnly is returned for operations that need a local store.
var ErrLocalOnly = errors.New("operation needs a local store (file or sqlite)")

// Wire bundles all stores, services, and clients.
//
// With a local store, Profiles, Queue and Migration are set and Relay is
// nil. With the remote store, Relay serves as directory and message store and
// the local-only parts are nil.
type Wire struct {
	Config   Config
	Log      *observability.Logger
	Metrics  *observability.Metrics
	Registry *prometheus.Registry

	Directory domain.KeyDirectory
	Messages  domain.MessageStore
	Profiles  domain.ProfileStore
	Queue     domain.NotificationQueue
	Relay     *relay.HTTP

	Keys      *identity.Service
	Chat      *messagesvc.Service
	Migration *migrationsvc.Service

	closers []func() error
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, log *observability.Logger) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = observability.Nop()
	}
	reg := prometheus.NewRegistry()
	w := &Wire{
		Config:   cfg,
		Log:      log,
		Registry: reg,
		Metrics:  observability.NewMetrics(reg),
	}

	if cfg.Store == StoreRemote {
		httpClient := cfg.HTTP
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		w.Relay = relay.NewHTTP(cfg.ServerURL, httpClient)
		w.Directory = w.Relay
		w.Messages = w.Relay
	} else {
		if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
			return nil, fmt.Errorf("create home: %w", err)
		}
		backend, err := store.Open(cfg.Store, cfg.Home, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		w.closers = append(w.closers, backend.Close)

		queue, err := store.OpenBoltQueue(cfg.queuePath())
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		w.closers = append(w.closers, queue.Close)

		w.Directory = backend
		w.Messages = backend
		w.Profiles = backend
		w.Queue = queue
		w.Migration = migrationsvc.New(backend, queue, log, w.Metrics)
	}

	w.Keys = identity.New(w.Directory, log, w.Metrics)
	w.Chat = messagesvc.New(w.Keys, w.Messages, log, w.Metrics)
	return w, nil
}

// MigrationOptions fills in the configured concurrency.
func (w *Wire) MigrationOptions(dryRun bool, concurrency int) domain.MigrationOptions {
	if concurrency < 1 {
		concurrency = w.Config.MigrationConcurrency
	}
	return domain.MigrationOptions{DryRun: dryRun, Concurrency: concurrency}
}

// Close releases stores in reverse order of opening.
func (w *Wire) Close() error {
	var errs []error
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	w.closers = nil
	return errors.Join(errs...)
}
