package services

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSyncQueue_DeliversToProcessor(t *testing.T) {
	q := NewSyncQueue()

	var (
		mu       sync.Mutex
		received []uint
	)
	done := make(chan struct{})

	q.SetProcessor(func(_ context.Context, task *NotifyTask) error {
		mu.Lock()
		received = append(received, task.GroupID)
		mu.Unlock()
		close(done)
		return nil
	})

	if err := q.EnqueueRecommendationsReady(42); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("processor was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 || received[0] != 42 {
		t.Errorf("received = %v, expected [42]", received)
	}
}

func TestSyncQueue_NoProcessorDropsTask(t *testing.T) {
	q := NewSyncQueue()

	if err := q.EnqueueRecommendationsReady(1); err != nil {
		t.Errorf("enqueue without processor should not fail: %v", err)
	}
}

func TestSyncQueue_IsNotAsync(t *testing.T) {
	q := NewSyncQueue()
	if q.IsAsync() {
		t.Error("SyncQueue.IsAsync() should be false")
	}
	if err := q.Close(); err != nil {
		t.Errorf("Close should be a no-op: %v", err)
	}
}
