package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"notecanvas/domain/core/valueobjects"
)

// debounceDelay coalesces editor write bursts (atomic saves often produce
// several events per save) into one notification per note.
const debounceDelay = 150 * time.Millisecond

// Watcher implements the VaultNotifier port with a recursive fsnotify
// watch over the vault directory. All bookkeeping lives on the watch
// goroutine; the only shared state is the outbound channel.
type Watcher struct {
	root    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	changes chan valueobjects.NoteID
	stopCh  chan struct{}
	once    sync.Once
}

// NewWatcher starts watching the vault rooted at the repository's root
func NewWatcher(repo *Repository, logger *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:    repo.Root(),
		logger:  logger,
		watcher: fsWatcher,
		changes: make(chan valueobjects.NoteID, 64),
		stopCh:  make(chan struct{}),
	}

	if err := w.watchTree(w.root); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.watchLoop()

	logger.Info("vault watcher started", zap.String("root", w.root))
	return w, nil
}

// Changes emits the ID of each changed note
func (w *Watcher) Changes() <-chan valueobjects.NoteID {
	return w.changes
}

// Close stops the watcher and closes the change channel
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
	})
	return err
}

// watchTree registers the directory and every subdirectory with the
// filesystem watcher. Hidden directories are skipped.
func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && p != root {
			return filepath.SkipDir
		}
		if addErr := w.watcher.Add(p); addErr != nil {
			w.logger.Warn("failed to watch directory", zap.String("path", p), zap.Error(addErr))
		}
		return nil
	})
}

// watchLoop forwards note events with a single debounce window: changed
// notes accumulate in a dirty set and flush together when the window
// expires. Everything runs on this goroutine, so no locking is needed.
func (w *Watcher) watchLoop() {
	defer close(w.changes)

	dirty := make(map[valueobjects.NoteID]struct{})
	timer := time.NewTimer(debounceDelay)
	timer.Stop()

	for {
		select {
		case <-w.stopCh:
			timer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if id, relevant := w.noteFor(event); relevant {
				dirty[id] = struct{}{}
				timer.Reset(debounceDelay)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				continue
			}
			w.logger.Warn("vault watcher error", zap.Error(err))

		case <-timer.C:
			for id := range dirty {
				select {
				case w.changes <- id:
				case <-w.stopCh:
					return
				}
			}
			dirty = make(map[valueobjects.NoteID]struct{})
		}
	}
}

// noteFor maps a filesystem event to a note ID. Directory creations extend
// the watch tree and are not notes themselves.
func (w *Watcher) noteFor(event fsnotify.Event) (valueobjects.NoteID, bool) {
	if event.Op&fsnotify.Create != 0 && isDir(event.Name) {
		if err := w.watchTree(event.Name); err != nil {
			w.logger.Warn("failed to watch new directory", zap.String("path", event.Name), zap.Error(err))
		}
		return valueobjects.NoteID{}, false
	}
	if !strings.HasSuffix(event.Name, valueobjects.NoteExtension) {
		return valueobjects.NoteID{}, false
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return valueobjects.NoteID{}, false
	}
	id, err := valueobjects.NewNoteID(filepath.ToSlash(rel))
	if err != nil {
		return valueobjects.NoteID{}, false
	}
	return id, true
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
