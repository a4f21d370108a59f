package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Scan hooks
	s := NoopScanHooks{}
	s.OnScanStart(ctx, "/vault")
	s.OnScanComplete(ctx, "/vault", 42, time.Second, nil)

	// Queue hooks
	q := NoopQueueHooks{}
	q.OnBuildStart(ctx, 10)
	q.OnBuildComplete(ctx, 3, 7, time.Second, nil)

	// AnkiConnect hooks
	a := NoopAnkiHooks{}
	a.OnCall(ctx, "findNotes", time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Scan().(NoopScanHooks); !ok {
		t.Error("Scan() should return NoopScanHooks by default")
	}
	if _, ok := Queue().(NoopQueueHooks); !ok {
		t.Error("Queue() should return NoopQueueHooks by default")
	}
	if _, ok := Anki().(NoopAnkiHooks); !ok {
		t.Error("Anki() should return NoopAnkiHooks by default")
	}

	// Set custom hooks
	customScan := &testScanHooks{}
	SetScanHooks(customScan)
	if Scan() != customScan {
		t.Error("SetScanHooks should set custom hooks")
	}

	customQueue := &testQueueHooks{}
	SetQueueHooks(customQueue)
	if Queue() != customQueue {
		t.Error("SetQueueHooks should set custom hooks")
	}

	customAnki := &testAnkiHooks{}
	SetAnkiHooks(customAnki)
	if Anki() != customAnki {
		t.Error("SetAnkiHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Scan().(NoopScanHooks); !ok {
		t.Error("Reset() should restore NoopScanHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testScanHooks{}
	SetScanHooks(custom)

	// Setting nil should be ignored
	SetScanHooks(nil)

	if Scan() != custom {
		t.Error("SetScanHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testScanHooks struct{ NoopScanHooks }
type testQueueHooks struct{ NoopQueueHooks }
type testAnkiHooks struct{ NoopAnkiHooks }
