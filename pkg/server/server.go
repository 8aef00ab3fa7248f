// Package server provides the public entry point for initializing the
// profile gateway.
//
// This package exists in pkg/ (not internal/) so that a simulator host can
// embed the gateway and supply its own user directory or asset fetcher.
//
// Usage:
//
//	srv, err := server.New(ctx)
//	http.ListenAndServe(":8080", srv.Handler)
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gridbridge/profilegw/internal/api"
	"github.com/gridbridge/profilegw/internal/api/handlers"
	"github.com/gridbridge/profilegw/internal/assets"
	"github.com/gridbridge/profilegw/internal/classifieds"
	"github.com/gridbridge/profilegw/internal/config"
	"github.com/gridbridge/profilegw/internal/directory"
	"github.com/gridbridge/profilegw/internal/homegrid"
	"github.com/gridbridge/profilegw/internal/jsonrpc"
	"github.com/gridbridge/profilegw/internal/locator"
	"github.com/gridbridge/profilegw/internal/profiles"
	"github.com/gridbridge/profilegw/internal/telemetry"
	"github.com/gridbridge/profilegw/pkg/contracts"
)

// Directory is what the gateway needs from a user directory: lookups for
// routing plus seeding for the directory API.
type Directory interface {
	contracts.UserDirectory
	contracts.DirectoryAdmin
}

// Options lets a host replace bundled collaborators. Zero values select the
// bundled implementations.
type Options struct {
	Directory Directory
	Assets    contracts.AssetFetcher
}

// Server holds the initialized profile gateway.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Profiles is nil when no profile service is configured.
	Profiles *profiles.Service

	// Directory is the user directory in use.
	Directory Directory

	// Config is the server configuration.
	Config *config.Config

	// Port is the port the server should listen on.
	Port int

	handlers *handlers.Handlers
	closers  []func() error
	shutdown func(context.Context) error
}

// New loads configuration and initializes the gateway with bundled
// collaborators.
func New(ctx context.Context) (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(ctx, cfg, Options{})
}

// NewWithConfig initializes the gateway with an explicit configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config, opts Options) (*Server, error) {
	shutdown, err := telemetry.Init(cfg.Telemetry, cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	srv := &Server{Config: cfg, Port: cfg.Port, shutdown: shutdown}

	dir := opts.Directory
	if dir == nil {
		dir, err = srv.openDirectory(ctx, cfg.Directory)
		if err != nil {
			shutdown(ctx)
			return nil, err
		}
	}
	srv.Directory = dir

	if cfg.Profiles.Enabled() {
		fetcher := opts.Assets
		if fetcher == nil {
			fetcher = assets.NewHTTPFetcher()
		}
		rpc := jsonrpc.NewClient()
		srv.Profiles = profiles.NewService(
			rpc,
			locator.New(cfg.Profiles.ServiceURL, dir),
			dir,
			classifieds.NewCache(),
			fetcher,
			homegrid.New(rpc),
		)
		log.Info().Str("service", cfg.Profiles.ServiceURL).Msg("✅ Profile features enabled")
	} else {
		log.Warn().Msg("⚠️  No profile service configured; profile features disabled")
	}

	srv.handlers = handlers.New(srv.Profiles, dir, cfg.Profiles.PrefetchAssets)
	srv.Handler = api.NewRouter(cfg, srv.handlers)
	return srv, nil
}

func (s *Server) openDirectory(ctx context.Context, cfg config.DirectoryConfig) (Directory, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := directory.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open directory: %w", err)
		}
		if err := db.Init(ctx); err != nil {
			db.Close()
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		log.Info().Str("path", db.Path()).Msg("✅ SQLite directory initialized")
		return db, nil
	default:
		log.Info().Msg("✅ In-memory directory initialized")
		return directory.NewMemory(), nil
	}
}

// Shutdown waits for background prefetches, closes the directory and
// flushes telemetry.
func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.handlers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("Background prefetches still running at shutdown")
	}

	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("Failed to close directory")
		}
	}
	return s.shutdown(ctx)
}
