package boot

import (
	"context"
	"slices"
	"sync"
)

// Autostart is a Launcher that queues app ids for the desktop shell,
// which opens them when it connects
type Autostart struct {
	mu   sync.RWMutex
	apps []string
}

// NewAutostart returns an empty queue
func NewAutostart() *Autostart {
	return &Autostart{apps: []string{}}
}

// Launch records appID. Duplicates are kept; the shell decides whether a
// second window makes sense.
func (a *Autostart) Launch(_ context.Context, appID string) error {
	a.mu.Lock()
	a.apps = append(a.apps, appID)
	a.mu.Unlock()
	return nil
}

// Apps returns the recorded ids in launch order
func (a *Autostart) Apps() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.apps)
}
