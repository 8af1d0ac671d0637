// Package ui serves the health and sales dashboards over HTTP.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/dashkit/internal/cache"
	"github.com/leapstack-labs/dashkit/internal/dashboard"
	"github.com/leapstack-labs/dashkit/internal/ui/features/common"
	"github.com/leapstack-labs/dashkit/internal/ui/notifier"
	"github.com/leapstack-labs/dashkit/internal/ui/router"
)

// debounceDelay collapses bursts of file events into one reload.
const debounceDelay = 100 * time.Millisecond

// Server is the dashboard web server.
type Server struct {
	cache        *cache.Cache
	paths        common.Paths
	health       dashboard.HealthOptions
	sales        dashboard.SalesOptions
	sessionStore *sessions.CookieStore
	addr         string
	watch        bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Cache         *cache.Cache
	Paths         common.Paths
	HealthOptions dashboard.HealthOptions
	SalesOptions  dashboard.SalesOptions
	Host          string
	Port          int
	Watch         bool
	// SessionSecret signs the selection cookie. Empty generates a secret
	// for this process only.
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore(sessionSecret(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		cache:        cfg.Cache,
		paths:        cfg.Paths,
		health:       cfg.HealthOptions,
		sales:        cfg.SalesOptions,
		sessionStore: sessionStore,
		addr:         net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		watch:        cfg.Watch,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// sessionSecret returns the configured secret or two random UUIDs.
func sessionSecret(configured string) []byte {
	if configured != "" {
		return []byte(configured)
	}
	return []byte(uuid.NewString() + uuid.NewString())
}

// Handler builds the router with middleware and all feature routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	deps := common.Deps{
		Source:        s.cache,
		Paths:         s.paths,
		HealthOptions: s.health,
		SalesOptions:  s.sales,
		Sessions:      s.sessionStore,
		Notifier:      s.notifier,
		Logger:        s.logger,
	}
	if err := router.SetupRoutes(r, deps); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting UI server", "addr", "http://"+s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    s.addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFiles watches the directories holding the data files. A change to a
// data file drops its cache entry and notifies the connected dashboards.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	files := make(map[string]struct{})
	for _, p := range []string{s.paths.Health, s.paths.Sales} {
		key, err := cache.Key(p)
		if err != nil {
			continue
		}
		files[key] = struct{}{}
		// Watch the directory so files replaced by rename are still seen.
		if err := watcher.Add(filepath.Dir(key)); err != nil {
			s.logger.Error("failed to watch data directory", "path", filepath.Dir(key), "error", err)
		}
	}

	d := newDebouncer(debounceDelay, func(path string) {
		s.logger.Debug("data file changed, reloading", "file", path)
		s.cache.Invalidate(path)
		s.notifier.Broadcast(path)
	})
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if _, watched := files[name]; !watched {
				continue
			}
			d.trigger(name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// debouncer runs fn once per path after events for that path stop arriving
// for delay.
type debouncer struct {
	delay time.Duration
	fn    func(string)

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

func newDebouncer(delay time.Duration, fn func(string)) *debouncer {
	return &debouncer{delay: delay, fn: fn, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[path]; ok {
		t.Stop()
	}
	d.timers[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, path)
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			d.fn(path)
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for p, t := range d.timers {
		t.Stop()
		delete(d.timers, p)
	}
}
