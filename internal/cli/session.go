package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qcore/internal/config"
	"github.com/roach88/qcore/internal/engine"
	"github.com/roach88/qcore/internal/planner"
	"github.com/roach88/qcore/internal/store"
)

// formatter builds the OutputFormatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// loadConfig loads the config file once. Without --config the defaults apply;
// --db overrides the database path either way.
func (o *RootOptions) loadConfig() (config.Config, error) {
	if o.resolved {
		return *o.cfg, nil
	}

	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if o.Database != "" {
		cfg.Database = o.Database
	}

	o.cfg = &cfg
	o.resolved = true
	return cfg, nil
}

// logger builds the slog logger for a command. Logs go to w, normally
// stderr, at the configured level; --verbose forces debug.
func (o *RootOptions) logger(cfg config.Config, w io.Writer) *slog.Logger {
	level := cfg.Level()
	if o.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// openStore opens the configured database.
func openStore(cfg config.Config) (*store.Store, error) {
	return store.Open(cfg.Database, store.Options{BusyTimeoutMS: cfg.BusyTimeoutMS})
}

// newEngine builds an engine over st with the configured limits.
func (o *RootOptions) newEngine(cfg config.Config, st *store.Store, logger *slog.Logger) *engine.Engine {
	return engine.New(planner.StoreSource{Store: st}, o.IDs,
		engine.WithLogger(logger),
		engine.WithMaxSortRows(cfg.MaxSortRows),
		engine.WithMaxResultRows(cfg.MaxResultRows),
	)
}

// session is an open store and an engine over it.
type session struct {
	cfg    config.Config
	store  *store.Store
	engine *engine.Engine
	logger *slog.Logger
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// openSession loads config, opens the store and builds the engine. Any
// failure is written through f and returned as an ExitError.
func (o *RootOptions) openSession(cmd *cobra.Command, f *OutputFormatter) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, err.Error(), err)
	}
	logger := o.logger(cfg, cmd.ErrOrStderr())

	logger.Debug("opening database", "path", cfg.Database)
	st, err := openStore(cfg)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, "failed to open database: "+err.Error(), err)
	}
	return &session{
		cfg:    cfg,
		store:  st,
		engine: o.newEngine(cfg, st, logger),
		logger: logger,
	}, nil
}
