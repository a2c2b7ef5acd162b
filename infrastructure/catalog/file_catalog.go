package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"jobcore-api/domain/models"
	"jobcore-api/domain/ports"
	"jobcore-api/pkg/errors"
	"jobcore-api/pkg/logger"
)

// FileCatalog reads the task manifest lazily and keeps the parsed snapshot
// until the file changes. Without Watch it re-reads on every call.
type FileCatalog struct {
	path string

	mu       sync.RWMutex
	cached   *snapshot
	gen      uint64 // bumped by Invalidate
	watching bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

var _ ports.TaskCatalog = (*FileCatalog)(nil)

func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{path: path}
}

func (c *FileCatalog) Lookup(ctx context.Context, name string) (*models.TaskDefinition, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.lookup(name)
}

func (c *FileCatalog) List(ctx context.Context) ([]models.TaskDefinition, error) {
	snap, err := c.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.list(), nil
}

func (c *FileCatalog) current(ctx context.Context) (*snapshot, error) {
	c.mu.RLock()
	if c.cached != nil {
		snap := c.cached
		c.mu.RUnlock()
		return snap, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// ไม่ cache ถ้าไฟล์เปลี่ยนระหว่างอ่าน
	if c.watching && c.gen == gen {
		c.cached = snap
	}
	c.mu.Unlock()
	return snap, nil
}

func (c *FileCatalog) load(ctx context.Context) (*snapshot, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.WarnContext(ctx, "Task manifest not found, catalog is empty", "path", c.path)
			return newSnapshot(nil), nil
		}
		return nil, errors.Wrapf(err, "read task manifest %s", c.path)
	}
	return parseManifest(raw, c.path)
}

// Watch caches snapshots and drops them whenever the manifest is written,
// created, renamed or removed. The parent directory is watched so editors
// that replace the file atomically are picked up too.
func (c *FileCatalog) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create fsnotify watcher")
	}

	dir := filepath.Dir(c.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "watch manifest directory %s", dir)
	}

	c.mu.Lock()
	c.watcher = watcher
	c.done = make(chan struct{})
	c.watching = true
	c.cached = nil
	c.mu.Unlock()

	go c.watchLoop(watcher, c.done)
	logger.Info("Watching task manifest", "path", c.path)
	return nil
}

func (c *FileCatalog) watchLoop(watcher *fsnotify.Watcher, done chan struct{}) {
	target := filepath.Clean(c.path)
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Info("Task manifest changed", "path", event.Name, "op", event.Op.String())
			c.Invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Task manifest watcher error", "error", err)
		}
	}
}

// Invalidate drops the cached snapshot; the next call re-reads the file.
func (c *FileCatalog) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.gen++
	c.mu.Unlock()
}

func (c *FileCatalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher == nil {
		return nil
	}
	close(c.done)
	err := c.watcher.Close()
	c.watcher = nil
	c.watching = false
	c.cached = nil
	return err
}
