package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDelay absorbs the rename-then-write sequence editors use when saving.
const reloadDelay = 200 * time.Millisecond

// Live holds the current configuration and hot-reloads it when the config
// file changes on disk. Callbacks run on the watch goroutine.
type Live struct {
	path    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	once    sync.Once

	mu        sync.RWMutex
	current   Config
	callbacks []func(Config)
}

// NewLive loads the file once and starts watching it. A load failure at
// startup is fatal; later reload failures keep the previous configuration.
func NewLive(path string, logger *zap.Logger) (*Live, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the containing directory: editors replace the file on save,
	// which drops a watch registered on the file itself.
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	l := &Live{
		path:    path,
		logger:  logger,
		watcher: fsWatcher,
		stopCh:  make(chan struct{}),
		current: cfg,
	}
	go l.watchLoop()

	logger.Info("config watcher started", zap.String("path", path))
	return l, nil
}

// Snapshot returns the current configuration.
func (l *Live) Snapshot() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked after each successful reload.
func (l *Live) OnChange(fn func(Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.callbacks = append(l.callbacks, fn)
}

// Close stops watching. The last loaded configuration stays readable.
func (l *Live) Close() error {
	var err error
	l.once.Do(func() {
		close(l.stopCh)
		err = l.watcher.Close()
	})
	return err
}

func (l *Live) watchLoop() {
	timer := time.NewTimer(reloadDelay)
	timer.Stop()

	target := filepath.Clean(l.path)
	for {
		select {
		case <-l.stopCh:
			timer.Stop()
			return

		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(reloadDelay)
			}

		case err, ok := <-l.watcher.Errors:
			if !ok {
				continue
			}
			l.logger.Warn("config watcher error", zap.Error(err))

		case <-timer.C:
			l.reload()
		}
	}
}

func (l *Live) reload() {
	cfg, err := Load(l.path)
	if err != nil {
		l.logger.Warn("config reload failed, keeping previous configuration", zap.Error(err))
		return
	}

	l.mu.Lock()
	l.current = cfg
	callbacks := make([]func(Config), len(l.callbacks))
	copy(callbacks, l.callbacks)
	l.mu.Unlock()

	l.logger.Info("configuration reloaded",
		zap.String("directory_filter", cfg.Vault.DirectoryFilter),
		zap.String("log_level", cfg.Logging.Level))

	for _, fn := range callbacks {
		fn(cfg)
	}
}
