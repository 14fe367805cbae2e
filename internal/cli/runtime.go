package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/samber/oops"

	"github.com/fragmede/safechain/internal/api"
	"github.com/fragmede/safechain/internal/auth"
	"github.com/fragmede/safechain/internal/cache"
	"github.com/fragmede/safechain/internal/config"
	"github.com/fragmede/safechain/internal/logging"
	"github.com/fragmede/safechain/internal/session"
	"github.com/fragmede/safechain/internal/store"
)

// runtime is everything a command needs, opened from a Config.
type runtime struct {
	cfg     config.Config
	logger  *slog.Logger
	api     *api.Client
	auth    *auth.Client
	session *session.Store
	// history is nil when the sqlite database could not be opened.
	history *cache.DB
	closers []io.Closer
}

// openRuntime wires the client together. Storage failures degrade to an
// in-memory session rather than failing the command.
func openRuntime(cfg config.Config, version string) *runtime {
	rt := &runtime{cfg: cfg}
	rt.logger = rt.openLogger(version)

	dataDirOK := true
	if err := cfg.EnsureDataDir(); err != nil {
		logging.LogError(rt.logger, "data directory unavailable", err)
		dataDirOK = false
	}

	if dataDirOK {
		db, err := cache.Open(cfg.DBPath())
		if err != nil {
			logging.LogError(rt.logger, "opening database",
				oops.Code("STORE_OPEN_FAILED").With("path", cfg.DBPath()).Wrap(err))
		} else {
			rt.history = db
			rt.closers = append(rt.closers, db)
		}
	}

	backend := rt.openBackend(dataDirOK)
	rt.session = session.New(backend, session.WithLogger(rt.logger))
	if err := rt.session.Initialize(); err != nil {
		logging.LogError(rt.logger, "restoring session", err)
	}

	rt.api = api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithUserAgent("safechain/"+version),
		api.WithLogger(rt.logger))
	rt.auth = auth.New(rt.api, rt.session, auth.WithLogger(rt.logger))
	return rt
}

func (rt *runtime) openLogger(version string) *slog.Logger {
	level, err := logging.ParseLevel(rt.cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	if err := rt.cfg.EnsureDataDir(); err != nil {
		return logging.Discard()
	}
	f, err := os.OpenFile(rt.cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return logging.Discard()
	}
	rt.closers = append(rt.closers, f)
	return logging.Setup("safechain", version, rt.cfg.LogFormat, level, f)
}

// openBackend picks the session backend named by the store setting, falling
// back to memory when it cannot be opened.
func (rt *runtime) openBackend(dataDirOK bool) store.Backend {
	kind := rt.cfg.Store
	if !dataDirOK && kind != config.StoreMemory {
		rt.logger.Warn("session will not persist", "store", kind)
		return store.NewMemory()
	}

	switch kind {
	case config.StoreSQLite:
		if rt.history != nil {
			return rt.history
		}
	case config.StoreBolt:
		b, err := store.OpenBolt(rt.cfg.BoltPath())
		if err == nil {
			rt.closers = append(rt.closers, b)
			return b
		}
		logging.LogError(rt.logger, "opening session store",
			oops.Code("STORE_OPEN_FAILED").With("path", rt.cfg.BoltPath()).Wrap(err))
	case config.StoreMemory:
		return store.NewMemory()
	}

	rt.logger.Warn("session will not persist", "store", kind)
	return store.NewMemory()
}

// Close releases everything in reverse order of opening.
func (rt *runtime) Close() error {
	var first error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	rt.closers = nil
	return first
}
