package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devaccess/devaccess-go/pkg/version"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue[int](4)
	for i := 1; i <= 3; i++ {
		q.Push(i, version.Next())
	}

	for want := 1; want <= 3; want++ {
		got, _, err := q.Pop(context.Background())
		if err != nil {
			t.Fatalf("Pop failed: %v", err)
		}
		if got != want {
			t.Errorf("Pop = %d, want %d", got, want)
		}
	}
}

func TestQueueOverwritesNewestWhenFull(t *testing.T) {
	q := NewQueue[int](2)
	q.Push(1, version.Next())
	q.Push(2, version.Next())

	if overwritten := q.Push(3, version.Next()); !overwritten {
		t.Error("Push on full queue should report overwrite")
	}
	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2", q.Len())
	}

	first, _, _ := q.TryPop()
	second, _, _ := q.TryPop()
	if first != 1 || second != 3 {
		t.Errorf("popped %d, %d; want 1, 3", first, second)
	}
}

func TestQueuePopCancelled(t *testing.T) {
	q := NewQueue[int](1)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, _, err := q.Pop(ctx)
		errCh <- err
	}()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Pop error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not return after cancel")
	}
}

func TestQueueCloseWakesConsumer(t *testing.T) {
	q := NewQueue[int](1)

	errCh := make(chan error, 1)
	go func() {
		_, _, err := q.Pop(context.Background())
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrQueueClosed) {
			t.Errorf("Pop error = %v, want ErrQueueClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not return after Close")
	}

	if q.Push(1, version.Next()) {
		t.Error("Push on closed queue should not report overwrite")
	}
	if q.Len() != 0 {
		t.Error("closed queue should not accept values")
	}
}

func TestQueuePopLatest(t *testing.T) {
	q := NewQueue[string](3)
	if _, _, ok := q.PopLatest(); ok {
		t.Error("PopLatest on empty queue should return false")
	}

	q.Push("a", version.Next())
	q.Push("b", version.Next())
	vc := version.Next()
	q.Push("c", vc)

	got, v, ok := q.PopLatest()
	if !ok || got != "c" || !v.Equal(vc) {
		t.Errorf("PopLatest = %q, %v, %v; want c, %v, true", got, v, ok, vc)
	}
	if q.Len() != 0 {
		t.Errorf("Len = %d after PopLatest, want 0", q.Len())
	}
}
