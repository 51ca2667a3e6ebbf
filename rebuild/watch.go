// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package rebuild

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"targetkit.sh/internal/errs"
)

// WaitForChange blocks until one of the file triggers is written, created,
// removed or renamed and returns its path.  Environment triggers cannot be
// observed from a running process and are ignored.
//
// The parent directories are watched rather than the files themselves so
// that editors replacing a file through a rename are noticed.
func WaitForChange(ctx context.Context, triggers []Trigger) (string, error) {
	files := map[string]struct{}{}
	dirs := map[string]struct{}{}

	for _, trigger := range triggers {
		if trigger.Kind != KindFile {
			continue
		}

		path, err := filepath.Abs(trigger.ID)
		if err != nil {
			return "", fmt.Errorf("could not resolve %s: %w", trigger.ID, err)
		}

		files[path] = struct{}{}
		dirs[filepath.Dir(path)] = struct{}{}
	}

	if len(files) == 0 {
		return "", fmt.Errorf("%w: no file to watch", errs.ErrInvalid)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return "", fmt.Errorf("setting up file watcher: %w", err)
	}

	defer watcher.Close()

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return "", fmt.Errorf("adding %s to watcher: %w", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return "", fmt.Errorf("file watcher closed")
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			if _, ok := files[filepath.Clean(event.Name)]; ok {
				return event.Name, nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return "", fmt.Errorf("file watcher closed")
			}

			return "", fmt.Errorf("watching files: %w", err)
		}
	}
}
