package prefstore

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const retryDuration = time.Second

type fileWatcher struct {
	watcher *fsnotify.Watcher
	loggers ldlog.Loggers
	reload  func()
	path    string
	absPath string
}

// watchFile calls reload whenever the file at path is created, written, renamed or removed. The
// containing directory is watched as well, since editors and our own writes replace the file
// with a rename.
func watchFile(path string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create file watcher: %w", err)
	}
	fw := &fileWatcher{
		watcher: watcher,
		loggers: loggers,
		reload:  reload,
		path:    path,
	}
	go fw.run(closeCh)
	return nil
}

func (fw *fileWatcher) run(closeCh <-chan struct{}) {
	retryCh := make(chan struct{}, 1)
	scheduleRetry := func() {
		time.AfterFunc(retryDuration, func() {
			select {
			case retryCh <- struct{}{}:
			default:
			}
		})
	}
	for {
		if err := fw.setupWatch(); err != nil {
			fw.loggers.Warn(err)
			scheduleRetry()
		}

		// Reloading before waiting closes the window in which a change could happen before the
		// watch was set up.
		fw.reload()

		if quit := fw.waitForEvents(closeCh, retryCh); quit {
			return
		}
	}
}

func (fw *fileWatcher) setupWatch() error {
	absDir, err := filepath.Abs(filepath.Dir(fw.path))
	if err != nil {
		return err
	}
	realDir, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return fmt.Errorf(`unable to evaluate symlinks for "%s": %w`, absDir, err)
	}
	fw.absPath = filepath.Join(realDir, filepath.Base(fw.path))
	if err = fw.watcher.Add(realDir); err != nil {
		return fmt.Errorf(`unable to watch path "%s": %w`, realDir, err)
	}
	return nil
}

func (fw *fileWatcher) waitForEvents(closeCh <-chan struct{}, retryCh <-chan struct{}) bool {
	for {
		select {
		case <-closeCh:
			if err := fw.watcher.Close(); err != nil {
				fw.loggers.Warnf("Error closing file watcher: %s", err)
			}
			return true
		case event := <-fw.watcher.Events:
			if event.Name != fw.absPath {
				break
			}
			fw.drain()
			return false
		case err := <-fw.watcher.Errors:
			fw.loggers.Errorf("File watcher error: %s", err)
		case <-retryCh:
			return false
		}
	}
}

func (fw *fileWatcher) drain() {
	for {
		select {
		case <-fw.watcher.Events:
		default:
			return
		}
	}
}
