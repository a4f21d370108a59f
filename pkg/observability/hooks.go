// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about vault scans, queue builds,
// and AnkiConnect calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import
// cycles and keeps the core packages free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetScanHooks(&myScanHooks{})
//	    observability.SetQueueHooks(&myQueueHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Scan().OnScanStart(ctx, root)
//	// ... walk the vault ...
//	observability.Scan().OnScanComplete(ctx, root, cards, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// ScanHooks receives events from vault scans.
type ScanHooks interface {
	// OnScanStart records the start of a vault walk.
	OnScanStart(ctx context.Context, root string)

	// OnScanComplete records a finished walk with the number of card
	// records extracted.
	OnScanComplete(ctx context.Context, root string, cards int, duration time.Duration, err error)
}

// QueueHooks receives events from study queue construction.
type QueueHooks interface {
	// OnBuildStart records the start of a queue build.
	OnBuildStart(ctx context.Context, dueCount int)

	// OnBuildComplete records a finished build with the resulting
	// queue sizes.
	OnBuildComplete(ctx context.Context, prereqCount, mainCount int, duration time.Duration, err error)
}

// AnkiHooks receives events from AnkiConnect calls.
type AnkiHooks interface {
	// OnCall records one AnkiConnect action round trip.
	OnCall(ctx context.Context, action string, duration time.Duration, err error)
}

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnScanStart(context.Context, string)                               {}
func (NoopScanHooks) OnScanComplete(context.Context, string, int, time.Duration, error) {}

// NoopQueueHooks is a no-op implementation of QueueHooks.
type NoopQueueHooks struct{}

func (NoopQueueHooks) OnBuildStart(context.Context, int)                               {}
func (NoopQueueHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {}

// NoopAnkiHooks is a no-op implementation of AnkiHooks.
type NoopAnkiHooks struct{}

func (NoopAnkiHooks) OnCall(context.Context, string, time.Duration, error) {}

var (
	scanHooks  ScanHooks  = NoopScanHooks{}
	queueHooks QueueHooks = NoopQueueHooks{}
	ankiHooks  AnkiHooks  = NoopAnkiHooks{}
	hooksMu    sync.RWMutex
)

// SetScanHooks registers custom scan hooks.
// This should be called once at application startup before any scans.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// SetQueueHooks registers custom queue hooks.
// This should be called once at application startup before any builds.
func SetQueueHooks(h QueueHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queueHooks = h
	}
}

// SetAnkiHooks registers custom AnkiConnect hooks.
// This should be called once at application startup before any calls.
func SetAnkiHooks(h AnkiHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		ankiHooks = h
	}
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Queue returns the registered queue hooks.
func Queue() QueueHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queueHooks
}

// Anki returns the registered AnkiConnect hooks.
func Anki() AnkiHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return ankiHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	scanHooks = NoopScanHooks{}
	queueHooks = NoopQueueHooks{}
	ankiHooks = NoopAnkiHooks{}
}
