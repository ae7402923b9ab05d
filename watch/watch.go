// Package watch re-runs a callback when a file changes.
//
// Changes are detected by polling the file's modification time and size;
// bursts of changes (editors often write a file several times) collapse
// into one call through a debouncer.
package watch

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/bep/debounce"
)

// Defaults for Watcher. DefaultDelay matches the preview resize debounce.
const (
	DefaultInterval = 250 * time.Millisecond
	DefaultDelay    = 100 * time.Millisecond
)

// Watcher polls Path and calls OnChange after it settles.
type Watcher struct {
	Path     string
	Interval time.Duration
	Delay    time.Duration
	OnChange func()
}

type stamp struct {
	modTime time.Time
	size    int64
	exists  bool
}

func (s stamp) same(o stamp) bool {
	return s.exists == o.exists && s.size == o.size && s.modTime.Equal(o.modTime)
}

func statFile(path string) stamp {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}
	}
	return stamp{modTime: info.ModTime(), size: info.Size(), exists: true}
}

// Run blocks until ctx is done. A pending debounced call is dropped on return.
func (w *Watcher) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	delay := w.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	var mu sync.Mutex
	done := false
	fire := func() {
		mu.Lock()
		defer mu.Unlock()
		if !done && w.OnChange != nil {
			w.OnChange()
		}
	}
	debounced := debounce.New(delay)

	last := statFile(w.Path)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			done = true
			mu.Unlock()
			return ctx.Err()
		case <-ticker.C:
			cur := statFile(w.Path)
			if !cur.same(last) {
				last = cur
				debounced(fire)
			}
		}
	}
}
