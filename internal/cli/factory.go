package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/shopbot"
	"github.com/aretw0/shopbot/internal/config"
	"github.com/aretw0/shopbot/internal/logging"
	"github.com/aretw0/shopbot/pkg/adapters/bolt"
	"github.com/aretw0/shopbot/pkg/adapters/file"
	"github.com/aretw0/shopbot/pkg/adapters/memory"
	"github.com/aretw0/shopbot/pkg/adapters/redis"
	"github.com/aretw0/shopbot/pkg/adapters/sqlite"
	"github.com/aretw0/shopbot/pkg/catalog"
	"github.com/aretw0/shopbot/pkg/observability"
	"github.com/aretw0/shopbot/pkg/persistence/middleware"
	"github.com/aretw0/shopbot/pkg/ports"
)

// Default database files for the embedded drivers.
var (
	DefaultBoltPath   = filepath.Join(".shopbot", "sessions.db")
	DefaultSQLitePath = filepath.Join(".shopbot", "sessions.sqlite")
)

// Persistence is an opened store plus what is needed to release it.
type Persistence struct {
	Store  ports.StateStore
	Locker ports.SessionLocker
	close  func() error
}

// Close releases the underlying database or connection.
func (p *Persistence) Close() error {
	if p == nil || p.close == nil {
		return nil
	}
	return p.close()
}

// OpenStore opens the store selected by cfg.Store.Driver. The redis driver
// also provides a distributed locker. With an encryption key the store is
// wrapped by the encryption middleware.
func OpenStore(ctx context.Context, cfg *config.Config) (*Persistence, error) {
	p := &Persistence{}

	switch cfg.Store.Driver {
	case config.DriverMemory, "":
		p.Store = memory.NewStore()

	case config.DriverFile:
		p.Store = file.New(cfg.Store.Path)

	case config.DriverBolt:
		path := pathOr(cfg.Store.Path, DefaultBoltPath)
		if err := ensureDir(path); err != nil {
			return nil, err
		}
		s, err := bolt.Open(path)
		if err != nil {
			return nil, err
		}
		p.Store, p.close = s, s.Close

	case config.DriverSQLite:
		path := pathOr(cfg.Store.Path, DefaultSQLitePath)
		if err := ensureDir(path); err != nil {
			return nil, err
		}
		s, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		p.Store, p.close = s, s.Close

	case config.DriverRedis:
		var opts []redis.Option
		if cfg.Store.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Store.TTL))
		}
		if cfg.Store.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Store.Prefix))
		}
		s := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := s.Client().Ping(ctx).Err(); err != nil {
			s.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		p.Store, p.close = s, s.Close
		p.Locker = redis.NewLocker(s.Client(), s.Prefix())

	default:
		return nil, fmt.Errorf("%w: store.driver %q", config.ErrInvalidConfig, cfg.Store.Driver)
	}

	key, err := cfg.Store.Key()
	if err != nil {
		p.Close()
		return nil, err
	}
	if key != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			p.Close()
			return nil, err
		}
		p.Store = middleware.Chain(p.Store, enc)
	}

	return p, nil
}

// LoadCatalog reads a catalog file, or returns the embedded one for an empty path.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	c, err := catalog.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(level, logging.Format(cfg.Log.Format)), nil
}

// NewBot opens persistence and builds the bot described by cfg.
// Debug logging adds lifecycle logging hooks. The caller closes the
// returned Persistence.
func NewBot(ctx context.Context, cfg *config.Config, logger *slog.Logger, extra ...shopbot.Option) (*shopbot.Bot, *Persistence, error) {
	cat, err := LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, err
	}

	p, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []shopbot.Option{
		shopbot.WithStore(p.Store),
		shopbot.WithCatalog(cat),
		shopbot.WithWelcome(cfg.Bot.Welcome),
		shopbot.WithLogger(logger),
	}
	if p.Locker != nil {
		opts = append(opts, shopbot.WithLocker(p.Locker))
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		opts = append(opts, shopbot.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}
	opts = append(opts, extra...)

	return shopbot.New(opts...), p, nil
}

func pathOr(path, def string) string {
	if path == "" {
		return def
	}
	return path
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}
