package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNew_DefaultSize(t *testing.T) {
	pool, err := New("test", 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer pool.Close()

	if got := pool.Stats().Cap; got != DefaultSize() {
		t.Errorf("Cap = %d, want %d", got, DefaultSize())
	}
	if pool.Name() != "test" {
		t.Errorf("Name = %q", pool.Name())
	}
}

func TestPool_Submit(t *testing.T) {
	pool, err := New("test", 4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer pool.Close()

	var executed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := pool.Submit(context.Background(), func(ctx context.Context) {
			defer wg.Done()
			executed.Add(1)
		})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	wg.Wait()

	if executed.Load() != 20 {
		t.Errorf("executed %d tasks, want 20", executed.Load())
	}
}

func TestPool_Submit_CancelledContext(t *testing.T) {
	pool, err := New("test", 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = pool.Submit(ctx, func(ctx context.Context) {
		t.Error("task should not run with a cancelled context")
	})
	if err != context.Canceled {
		t.Errorf("Submit() error = %v, want context.Canceled", err)
	}
}

func TestPool_SubmitAfterClose(t *testing.T) {
	pool, err := New("test", 1)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	pool.Close()

	if err := pool.Submit(context.Background(), func(context.Context) {}); err != ErrPoolClosed {
		t.Errorf("Submit() error = %v, want ErrPoolClosed", err)
	}
}
