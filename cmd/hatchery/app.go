package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/hatchery/internal/config"
	"github.com/cory-johannsen/hatchery/internal/game/rng"
	"github.com/cory-johannsen/hatchery/internal/game/roster"
	"github.com/cory-johannsen/hatchery/internal/observability"
	"github.com/cory-johannsen/hatchery/internal/storage"
	"github.com/cory-johannsen/hatchery/internal/storage/file"
	"github.com/cory-johannsen/hatchery/internal/storage/sqlite"
)

// app carries the state shared by every subcommand once the root command has
// loaded configuration.
type app struct {
	configPath string
	cfg        config.Config
	logger     *zap.Logger
	out        io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "hatchery",
		Short:         "Creature breeding roster manager",
		Long:          `hatchery keeps a roster of creatures, trains them, breeds eligible pairs, and persists the roster to disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.configPath, "config", "configs/dev.yaml", "path to configuration file; empty uses defaults and HATCHERY_* env vars")

	root.AddCommand(
		a.demoCmd(),
		a.listCmd(),
		a.addCmd(),
		a.trainCmd(),
		a.breedCmd(),
		a.filterCmd(),
		a.removeCmd(),
		a.seedCmd(),
		a.scriptCmd(),
		a.snapshotsCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// openStore opens the configured storage backend.
func (a *app) openStore() (storage.Store, error) {
	start := time.Now()
	var (
		s   storage.Store
		err error
	)
	switch a.cfg.Storage.Backend {
	case "file":
		var fs *file.Store
		if fs, err = file.New(a.cfg.Storage.Path, a.logger); err == nil {
			s = fs
		}
	case "sqlite":
		var ss *sqlite.Store
		if ss, err = sqlite.Open(a.cfg.Storage.Path, a.cfg.Storage.Roster, a.logger); err == nil {
			s = ss
		}
	default:
		err = fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", a.cfg.Storage.Backend, err)
	}
	a.logger.Debug("store opened",
		zap.String("backend", a.cfg.Storage.Backend),
		zap.String("path", a.cfg.Storage.Path),
		zap.Duration("elapsed", time.Since(start)),
	)
	return s, nil
}

// source returns the breeding randomness source selected by configuration.
func (a *app) source() rng.Source {
	if a.cfg.Random.Seed != 0 {
		return rng.NewSeededSource(a.cfg.Random.Seed)
	}
	return rng.NewCryptoSource()
}

// withRoster loads the roster (empty when nothing is saved), applies fn, and
// saves the result when fn reports a change.
func (a *app) withRoster(ctx context.Context, fn func(r *roster.Roster) (changed bool, err error)) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	r, err := storage.LoadOrEmpty(ctx, s)
	if err != nil {
		return fmt.Errorf("loading roster: %w", err)
	}
	r.WithLogger(a.logger)

	changed, err := fn(r)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := s.Save(ctx, r); err != nil {
		return fmt.Errorf("saving roster: %w", err)
	}
	a.logger.Info("roster saved", zap.Int("members", r.Len()))
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
