// Package cli wires panectl's commands to the resolver.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/bnema/panectl/internal/application/port"
	"github.com/bnema/panectl/internal/application/usecase"
	"github.com/bnema/panectl/internal/cli/styles"
	"github.com/bnema/panectl/internal/domain/repository"
	"github.com/bnema/panectl/internal/domain/routepath"
	"github.com/bnema/panectl/internal/infrastructure/config"
	"github.com/bnema/panectl/internal/infrastructure/documents"
	"github.com/bnema/panectl/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/panectl/internal/infrastructure/structure"
	"github.com/bnema/panectl/internal/logging"
)

// Options are the global command-line overrides.
type Options struct {
	ConfigFile    string
	StructureFile string
	LogLevel      string
	LogOutput     io.Writer
}

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	db        *sqlite.LazyDB
	Documents repository.DocumentRepository
	Store     *documents.Store
	Structure *structure.Source

	Fallback *usecase.FallbackEditor
	Registry *usecase.ActivePanes
	Resolver *usecase.ResolvePanesUseCase
	Intents  *usecase.IntentUseCase

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp loads the configuration and builds every dependency. The database
// is only opened when a command first needs it.
func NewApp(opts Options) (*App, error) {
	var (
		mgr *config.Manager
		err error
	)
	if opts.ConfigFile != "" {
		mgr, err = config.NewManagerForFile(opts.ConfigFile)
	} else {
		mgr, err = config.NewManager()
	}
	if err != nil {
		return nil, fmt.Errorf("config manager: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	levelName := cfg.Logging.Level
	if opts.LogLevel != "" {
		levelName = opts.LogLevel
	}
	// the global level gates output so config reloads can change it
	zerolog.SetGlobalLevel(logging.ParseLevel(levelName))
	logger := logging.New(logging.Config{
		Level:      zerolog.TraceLevel,
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
		Output:     opts.LogOutput,
	})
	ctx, cancel := context.WithCancel(logging.WithContext(context.Background(), logger))

	structurePath := cfg.Structure.Path
	if opts.StructureFile != "" {
		structurePath = opts.StructureFile
	}

	db := sqlite.NewLazyDB(cfg.Database.Path)
	docs := sqlite.NewDocumentRepository(db)
	store := documents.NewStore(ctx, docs, cfg.Resolver.TypeCacheSize)
	source := structure.NewSource(structurePath, docs)

	fallback := usecase.NewFallbackEditor(cfg.Resolver.FallbackPrefix, source)
	registry := usecase.NewActivePanes()
	resolver := usecase.NewResolvePanesUseCase(
		source,
		routepath.NewParamPolicy(cfg.Resolver.ExclusiveParams),
		fallback,
	)

	logger.Debug().
		Str("config", mgr.GetConfigFile()).
		Str("structure", structurePath).
		Str("database", cfg.Database.Path).
		Msg("app initialized")

	return &App{
		Config:    cfg,
		Manager:   mgr,
		Theme:     styles.NewTheme(),
		db:        db,
		Documents: docs,
		Store:     store,
		Structure: source,
		Fallback:  fallback,
		Registry:  registry,
		Resolver:  resolver,
		Intents:   usecase.NewIntentUseCase(registry, fallback, store, nil),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// NewNavigator creates a navigation coordinator feeding the shared registry.
func (a *App) NewNavigator(router port.Router) *usecase.NavigatePanesUseCase {
	return usecase.NewNavigatePanesUseCase(a.Resolver, router, a.Registry, usecase.NavigateOptions{
		StabilizeDelay: a.Config.StabilizeDelay(),
		MaxSplits:      a.Config.Resolver.MaxSplits,
	})
}

// WatchConfig reloads the configuration on change and applies the new log
// level. Resolver settings apply to the next command run.
func (a *App) WatchConfig() error {
	a.Manager.OnConfigChange(func(cfg *config.Config) {
		level := logging.ParseLevel(cfg.Logging.Level)
		zerolog.SetGlobalLevel(level)
		logging.FromContext(a.ctx).Info().Str("log_level", level.String()).Msg("configuration reloaded")
	})
	return a.Manager.Watch()
}

// IndexStatus opens the document index if needed and reports its schema.
func (a *App) IndexStatus(ctx context.Context) (sqlite.SchemaStatus, error) {
	db, err := a.db.DB(ctx)
	if err != nil {
		return sqlite.SchemaStatus{}, err
	}
	return sqlite.MigrationStatus(ctx, db)
}

// IndexPath returns the document index location.
func (a *App) IndexPath() string {
	return a.db.Path()
}

// Close flushes pending document writes and releases the database.
func (a *App) Close() error {
	a.cancel()
	return errors.Join(a.Store.Close(), a.db.Close())
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
