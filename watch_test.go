// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	if err := os.WriteFile(path, []byte("cell,type\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, nil, func(context.Context) error {
			calls <- struct{}{}
			return nil
		})
	}()

	// Writes are retried until the watcher is running.
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	timeout := time.After(5 * time.Second)
	for seen := false; !seen; {
		select {
		case <-tick.C:
			// Other files in the directory are ignored.
			os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x"), 0o644)
			if err := os.WriteFile(path, []byte("cell,type\n8928308280fffff,eval\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-calls:
			seen = true
		case err := <-done:
			t.Fatalf("watch returned early: %v", err)
		case <-timeout:
			t.Fatal("timed out waiting for a change")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("want nil after cancel, have %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
}

func TestWatchError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	errStop := errors.New("stop")
	done := make(chan error, 1)
	go func() {
		done <- Watch(context.Background(), path, time.Millisecond, nil, func(context.Context) error {
			return errStop
		})
	}()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case <-tick.C:
			os.WriteFile(path, []byte("cell,type\n"), 0o644)
		case err := <-done:
			if !errors.Is(err, errStop) {
				t.Errorf("want %v, have %v", errStop, err)
			}
			return
		case <-timeout:
			t.Fatal("timed out waiting for an error")
		}
	}
}
