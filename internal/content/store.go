package content

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/terraincognita07/mindharbor/internal/models"
	"go.uber.org/zap"
)

const reloadDebounce = 200 * time.Millisecond

// Store serves the current catalog. When it is backed by a directory, Watch
// swaps in a fresh snapshot whenever a YAML file there changes.
type Store struct {
	mu      sync.RWMutex
	catalog *Catalog
	dir     string
	logger  *zap.Logger
}

// NewStore loads content from dir, or from the embedded defaults when dir is
// empty.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir = strings.TrimSpace(dir)

	source := EmbeddedFS()
	if dir != "" {
		source = DirFS(dir)
	}
	catalog, err := Load(source)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return &Store{catalog: catalog, dir: dir, logger: logger}, nil
}

func (store *Store) Catalog() *Catalog {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.catalog
}

func (store *Store) Posts() []models.BlogPost {
	return store.Catalog().Posts
}

func (store *Store) Post(id string) (models.BlogPost, error) {
	return store.Catalog().Post(id)
}

func (store *Store) Profiles() []models.UserProfile {
	return store.Catalog().Profiles
}

func (store *Store) Profile(id string) (models.UserProfile, error) {
	return store.Catalog().Profile(id)
}

func (store *Store) Navigators() []models.Navigator {
	return store.Catalog().Navigators
}

func (store *Store) Navigator(id string) (models.Navigator, error) {
	return store.Catalog().Navigator(id)
}

func (store *Store) Appointments(specialty string) []models.Appointment {
	return store.Catalog().Appointments(specialty)
}

// Reload re-reads the backing directory. A broken file keeps the previous
// snapshot in place.
func (store *Store) Reload() error {
	if store.dir == "" {
		return nil
	}
	catalog, err := Load(DirFS(store.dir))
	if err != nil {
		return err
	}

	store.mu.Lock()
	store.catalog = catalog
	store.mu.Unlock()
	return nil
}

// Watch blocks until ctx is done, reloading the catalog on file changes. It
// returns immediately for embedded content.
func (store *Store) Watch(ctx context.Context) error {
	if store.dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create content watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(store.dir); err != nil {
		return fmt.Errorf("watch %s: %w", store.dir, err)
	}
	store.logger.Info("watching content directory", zap.String("dir", store.dir))

	timer := time.NewTimer(reloadDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isContentEvent(event) {
				continue
			}
			timer.Reset(reloadDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			store.logger.Warn("content watcher error", zap.Error(err))

		case <-timer.C:
			if err := store.Reload(); err != nil {
				store.logger.Warn("content reload failed, keeping previous catalog", zap.Error(err))
				continue
			}
			store.logger.Info("content reloaded", zap.String("dir", store.dir))
		}
	}
}

func isContentEvent(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != ".yaml" {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
