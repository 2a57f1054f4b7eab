package script

import (
	"log"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// watcher flags changes to one file.
// The parent directory is watched since editors often replace files by rename.
type watcher struct {
	fsw   *fsnotify.Watcher
	name  string
	dirty atomic.Bool

	closeOnce sync.Once
	done      sync.WaitGroup
}

func newWatcher(path string, logger *log.Logger) (*watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &watcher{
		fsw:  fsw,
		name: filepath.Base(abs),
	}

	w.done.Add(1)
	go func() {
		defer w.done.Done()
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != w.name {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					w.dirty.Store(true)
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Printf("script watcher: %v", err)
			}
		}
	}()
	return w, nil
}

// changed reports and clears a pending change; never blocks
func (w *watcher) changed() bool {
	return w.dirty.Swap(false)
}

func (w *watcher) close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fsw.Close()
		w.done.Wait()
	})
	return err
}
