package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/jcheval/faceoff/internal/config"
	"github.com/jcheval/faceoff/internal/db"
	"github.com/jcheval/faceoff/internal/library"
)

type commandContext struct {
	dbFlag      *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(dbFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		dbFlag:      dbFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = config.Load()
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	level := slog.LevelWarn
	if c.verboseFlag != nil && *c.verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// databasePath resolves the store location: the --db flag wins, then
// the config file, then the default under the user data dir.
func (c *commandContext) databasePath() (string, error) {
	if c.dbFlag != nil && *c.dbFlag != "" {
		return *c.dbFlag, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if cfg.DatabasePath != "" {
		return cfg.DatabasePath, nil
	}
	return db.DefaultPath()
}

func (c *commandContext) openLibrary() (*library.Library, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	path, err := c.databasePath()
	if err != nil {
		return nil, nil, err
	}

	conn, err := db.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	lib, err := library.New(conn,
		library.WithLogger(c.logger()),
		library.WithPolicy(library.Policy{
			DeleteOrphanedTracks: cfg.Scan.DeleteOrphanedTracks,
			ReattachComparisons:  cfg.ReattachComparisons(),
		}),
	)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	return lib, func() { conn.Close() }, nil
}

// withLibrary runs fn against the store without locking. Read-only
// commands use it.
func (c *commandContext) withLibrary(fn func(*library.Library) error) error {
	lib, closeLib, err := c.openLibrary()
	if err != nil {
		return err
	}
	defer closeLib()
	return fn(lib)
}

// withLockedLibrary additionally holds the instance lock for the
// duration of fn. Commands that write to the store use it so two
// invocations cannot interleave scans or rating updates.
func (c *commandContext) withLockedLibrary(fn func(*library.Library) error) error {
	path, err := c.databasePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	lock := flock.New(db.LockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another faceoff instance is using the library")
	}
	defer func() { _ = lock.Unlock() }()

	return c.withLibrary(fn)
}
