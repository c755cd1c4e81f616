package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says which kind of prefab a changed file holds.
type ChangeKind int

const (
	ChangeUnknown ChangeKind = iota
	ChangeNPC
	ChangeItem
	ChangeLevel
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeNPC:
		return "npc"
	case ChangeItem:
		return "item"
	case ChangeLevel:
		return "level"
	case ChangeScript:
		return "script"
	}
	return "unknown"
}

// Change is one debounced file change under the prefab directory.
type Change struct {
	Path string
	Name string
	Kind ChangeKind
}

const watchDebounce = 100 * time.Millisecond

var watchedDirs = []string{"npcs", "items", "levels", "scripts"}

type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches the prefab subdirectories under root. Missing
// subdirectories are skipped.
func NewWatcher(root string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, sub := range watchedDirs {
		dir := filepath.Join(root, sub)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			change, ok := classify(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < watchDebounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(path string) (Change, bool) {
	dir := filepath.Base(filepath.Dir(path))
	change := Change{Path: path, Name: baseName(filepath.ToSlash(path))}
	switch {
	case isSpecFile(path) && dir == "npcs":
		change.Kind = ChangeNPC
	case isSpecFile(path) && dir == "items":
		change.Kind = ChangeItem
	case isSpecFile(path) && dir == "levels":
		change.Kind = ChangeLevel
	case isScriptFile(path):
		change.Kind = ChangeScript
		change.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	default:
		return Change{}, false
	}
	return change, true
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
