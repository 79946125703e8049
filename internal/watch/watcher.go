// Package watch notices when another process writes the database.
package watch

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls a notify func, debounced, when the database file or its
// journal changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	base     string
	debounce time.Duration
	notify   func()
	onError  func(error)

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Start watches the directory holding dbPath. notify runs on the watcher's
// goroutine after debounce of quiet.
func Start(dbPath string, debounce time.Duration, notify func(), onError func(error)) (*Watcher, error) {
	if notify == nil {
		return nil, errors.New("watch: nil notify func")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(dbPath)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	if onError == nil {
		onError = func(error) {}
	}
	w := &Watcher{
		fs:       fw,
		base:     filepath.Base(dbPath),
		debounce: debounce,
		notify:   notify,
		onError:  onError,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Matches reports whether name is the database or one of its sidecar files
// (-wal, -journal, -shm).
func (w *Watcher) Matches(name string) bool {
	return strings.HasPrefix(filepath.Base(name), w.base)
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.Matches(event.Name) || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.notify()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.onError(err)
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Stop ends the watch. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}
