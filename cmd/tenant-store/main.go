package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/tenant-store/internal/pkg/application/documents"
	"github.com/diwise/tenant-store/internal/pkg/infrastructure/router"
	api "github.com/diwise/tenant-store/internal/pkg/presentation/api/documents"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const serviceName string = "tenant-store"

func DefaultFlags() FlagMap {
	return FlagMap{
		listenAddress: "",     // listen on all ipv4 and ipv6 interfaces
		servicePort:   "8080", //
		controlPort:   "",     // control port disabled by default

		configPath:       "/opt/diwise/config/tenant-store.yaml",
		storageType:      StorageMemory,
		snapshotPath:     "",
		notifierEndpoint: "",

		logFormat: "json",
	}
}

func main() {
	ctx, flags := parseExternalConfig(context.Background(), DefaultFlags())

	serviceVersion := buildinfo.SourceVersion()
	ctx, logger, cleanup := o11y.Init(ctx, serviceName, serviceVersion, flags[logFormat])
	defer cleanup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := newConfig(ctx, flags)
	exitIf(err, logger, "failed to create application config")

	app, err := initialize(ctx, flags, cfg)
	exitIf(err, logger, "initialization failed")

	err = app.Run(ctx)
	exitIf(err, logger, "tenant store failed")
}

type worker func(context.Context, *AppConfig) error

type application struct {
	flags FlagMap
	cfg   *AppConfig

	manager documents.DocumentManager
	public  http.Handler
	control http.Handler
}

func initialize(ctx context.Context, flags FlagMap, cfg *AppConfig) (*application, error) {
	defer cfg.documentsConfig.Close()

	docsConfig, err := documents.LoadConfiguration(cfg.documentsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents configuration: %w", err)
	}

	if err = cfg.restoreSnapshot(); err != nil {
		return nil, fmt.Errorf("failed to restore snapshot: %w", err)
	}

	manager, err := documents.New(ctx, *docsConfig, cfg.driver, cfg.notifier)
	if err != nil {
		return nil, fmt.Errorf("failed to create document manager: %w", err)
	}

	r := router.New(serviceName)

	err = api.RegisterHandlers(ctx, r, nil, manager, cfg.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register api handlers: %w", err)
	}

	control := chi.NewRouter()
	control.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	control.Handle("/metrics", promhttp.HandlerFor(cfg.registry, promhttp.HandlerOpts{}))

	if flags[controlPort] == "" {
		// serve the control endpoints on the public port instead
		r.Mount("/debug", control)
	}

	return &application{
		flags:   flags,
		cfg:     cfg,
		manager: manager,
		public:  r,
		control: control,
	}, nil
}

// Run serves the api until ctx is done or any of the workers fail
func (app *application) Run(ctx context.Context, workers ...worker) error {
	logger := logging.GetFromContext(ctx)

	servers := []*http.Server{}
	listeners := []net.Listener{}

	listen := func(port string, handler http.Handler) (string, error) {
		l, err := net.Listen("tcp", net.JoinHostPort(app.flags[listenAddress], port))
		if err != nil {
			return "", err
		}

		listeners = append(listeners, l)
		servers = append(servers, &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return ctx },
		})

		_, p, err := net.SplitHostPort(l.Addr().String())
		return p, err
	}

	var err error

	app.cfg.publicPort, err = listen(app.flags[servicePort], app.public)
	if err != nil {
		return fmt.Errorf("failed to listen on service port: %w", err)
	}

	if app.flags[controlPort] != "" {
		app.cfg.controlPort, err = listen(app.flags[controlPort], app.control)
		if err != nil {
			listeners[0].Close()
			return fmt.Errorf("failed to listen on control port: %w", err)
		}
	}

	if err = app.manager.Start(); err != nil {
		for _, l := range listeners {
			l.Close()
		}
		return fmt.Errorf("failed to start document manager: %w", err)
	}

	logger.Info("starting to listen for connections", slog.String("port", app.cfg.publicPort))

	g, gctx := errgroup.WithContext(ctx)

	for idx := range servers {
		s, l := servers[idx], listeners[idx]
		g.Go(func() error {
			if err := s.Serve(l); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	for _, w := range workers {
		g.Go(func() error {
			return w(gctx, app.cfg)
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		for _, s := range servers {
			s.Shutdown(shutdownCtx)
		}

		return app.shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (app *application) shutdown(ctx context.Context) error {
	logger := logging.GetFromContext(ctx)

	errs := []error{}

	if err := app.manager.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop document manager: %w", err))
	}

	if err := app.cfg.saveSnapshot(); err != nil {
		errs = append(errs, fmt.Errorf("failed to save snapshot: %w", err))
	} else if app.cfg.snapshot != "" {
		logger.Info("snapshot saved", slog.String("path", app.cfg.snapshot))
	}

	if err := app.cfg.driver.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to close store: %w", err))
	}

	return errors.Join(errs...)
}

func parseExternalConfig(ctx context.Context, flags FlagMap) (context.Context, FlagMap) {

	// Allow environment variables to override certain defaults
	envOrDef := env.GetVariableOrDefault
	flags[servicePort] = envOrDef(ctx, "SERVICE_PORT", flags[servicePort])
	flags[controlPort] = envOrDef(ctx, "CONTROL_PORT", flags[controlPort])
	flags[configPath] = envOrDef(ctx, "TENANT_STORE_CONFIG_PATH", flags[configPath])
	flags[storageType] = envOrDef(ctx, "STORAGE_TYPE", flags[storageType])
	flags[snapshotPath] = envOrDef(ctx, "SNAPSHOT_PATH", flags[snapshotPath])
	flags[notifierEndpoint] = envOrDef(ctx, "NOTIFIER_ENDPOINT", flags[notifierEndpoint])
	flags[logFormat] = envOrDef(ctx, "LOG_FORMAT", flags[logFormat])

	apply := func(f FlagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("config", "tenants and collections configuration file", apply(configPath))
	flag.Func("storage", "storage type, memory or postgres", apply(storageType))
	flag.Func("snapshot", "file to restore the memory store from and save it to", apply(snapshotPath))
	flag.Func("notify", "endpoint to post change notifications to", apply(notifierEndpoint))
	flag.Parse()

	return ctx, flags
}

func exitIf(err error, logger *slog.Logger, msg string, args ...any) {
	if err != nil {
		logger.With(args...).Error(msg, "err", err.Error())
		os.Exit(1)
	}
}
