package prefabs

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

type Kind int

const (
	KindUnknown Kind = iota
	KindController
	KindActor
	KindScript
)

func (k Kind) String() string {
	switch k {
	case KindController:
		return "controller"
	case KindActor:
		return "actor"
	case KindScript:
		return "script"
	default:
		return "unknown"
	}
}

// Change is a debounced edit of a prefab file.
type Change struct {
	Path string
	Kind Kind
	Name string
}

type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches root and its controllers, actors and scripts directories.
// Missing subdirectories are skipped.
func NewWatcher(root string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := []string{root}
	for _, sub := range []string{"controllers", "actors", "scripts"} {
		dir := filepath.Join(root, sub)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
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
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			kind, name := Classify(event.Name)
			if kind == KindUnknown {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- Change{Path: event.Name, Kind: kind, Name: name}:
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

// Classify reports what a prefab path holds and its short name.
func Classify(p string) (Kind, string) {
	p = filepath.ToSlash(p)
	dir := path.Base(path.Dir(p))
	ext := strings.ToLower(path.Ext(p))
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))

	switch {
	case dir == "controllers" && isSpecFile(ext):
		return KindController, name
	case dir == "actors" && isSpecFile(ext):
		return KindActor, name
	case dir == "scripts" && ext == ".tengo":
		return KindScript, name
	}
	return KindUnknown, ""
}

func isSpecFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}
