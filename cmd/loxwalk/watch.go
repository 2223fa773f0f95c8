package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/aledsdavies/loxwalk/pkgs/diag"
)

// watchFile re-runs path every time fsnotify reports it was written or
// created, until the watcher's channels close or the process is
// killed. Watcher errors are logged and watching continues.
func watchFile(path string, debug bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	fmt.Fprintf(os.Stderr, "loxwalk: watching %s for changes\n", path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := runFile(path, debug); err != nil {
				fmt.Fprintf(os.Stderr, "loxwalk: run failed: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "loxwalk: watcher error: %v\n", err)
		}
	}
}

func asDiag(err error) (*diag.Error, bool) {
	var d *diag.Error
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
