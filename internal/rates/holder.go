package rates

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Holder publishes the current rate table to concurrent readers. Reloads
// build a complete new table and swap the whole reference atomically, so a
// reader never observes a partially-updated table; a failed reload keeps the
// previous snapshot live.
type Holder struct {
	current atomic.Value // holds *Table
	path    string
	db      *sql.DB
	log     *zap.Logger
}

// NewHolder loads the initial table. Startup fails on bad reference data;
// there is no safe table to fall back to yet.
func NewHolder(path string, db *sql.DB, log *zap.Logger) (*Holder, error) {
	if log == nil {
		log = zap.NewNop()
	}

	h := &Holder{path: path, db: db, log: log}
	tbl, err := Load(path, db)
	if err != nil {
		return nil, err
	}
	h.current.Store(tbl)
	log.Info("rate table loaded", zap.String("path", path), zap.String("version", tbl.Version))
	return h, nil
}

// Table returns the current immutable snapshot.
func (h *Holder) Table() *Table {
	return h.current.Load().(*Table)
}

// Reload rebuilds the table from the rate card file and material catalog and
// swaps it in atomically.
func (h *Holder) Reload() error {
	tbl, err := Load(h.path, h.db)
	if err != nil {
		h.log.Error("rate table reload failed, keeping previous snapshot", zap.Error(err))
		return fmt.Errorf("reload rate table: %w", err)
	}
	h.current.Store(tbl)
	h.log.Info("rate table reloaded", zap.String("version", tbl.Version))
	return nil
}

// Watch reloads the table whenever the rate card file changes on disk. The
// returned stop function releases the watcher.
func (h *Holder) Watch() (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create rate card watcher: %w", err)
	}

	// Watch the directory: editors and config mounts replace the file,
	// which drops a watch registered on the file itself.
	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch rate card directory %s: %w", dir, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(h.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				_ = h.Reload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				h.log.Warn("rate card watcher error", zap.Error(err))
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
