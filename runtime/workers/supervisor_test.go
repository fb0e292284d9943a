package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingWorker struct {
	calls atomic.Int32
	run   func(ctx context.Context) error
}

func (w *countingWorker) Run(ctx context.Context) error {
	w.calls.Add(1)
	return w.run(ctx)
}

func TestSupervisor_RestartOnPanic(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	worker := &countingWorker{}
	worker.run = func(ctx context.Context) error {
		panic("boom")
	}

	sup := NewSupervisor(log, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	go sup.Add(worker).Run(ctx)

	// Waiting for panics and restarts
	time.Sleep(900 * time.Millisecond)

	req.GreaterOrEqual(worker.calls.Load(), int32(2))
}

func TestSupervisor_StopOnSuccess(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	// Given a worker running only once
	worker := &countingWorker{}
	worker.run = func(ctx context.Context) error {
		return nil
	}

	sup := NewSupervisor(log, 50*time.Millisecond)

	// Given a channel to notify when Run() terminated
	done := make(chan struct{})

	go func() {
		sup.Add(worker).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
		// Then supervisor detected a success, returned nil and stopped
		req.Equal(int32(1), worker.calls.Load())
	case <-time.After(500 * time.Millisecond):
		req.Fail("Supervisor should have stopped after worker success")
	}
}

func TestSupervisor_Stop_Cancels_Workers(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	worker := &countingWorker{}
	worker.run = func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}

	sup := NewSupervisor(log, 50*time.Millisecond)
	done := make(chan struct{})
	go func() {
		sup.Add(worker).Run(context.Background())
		close(done)
	}()

	// When the supervisor is asked to stop
	time.Sleep(100 * time.Millisecond)
	sup.Stop()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		req.Fail("Supervisor should have stopped its workers")
	}
}

func TestSupervisor_Stop_Before_Run_Is_A_NoOp(t *testing.T) {
	sup := NewSupervisor(slog.Default(), 50*time.Millisecond)

	// When Stop fires before Run installed its cancellation trigger
	sup.Stop()
}

func TestSupervisor_Stop_Races_With_Run_Startup(t *testing.T) {
	req := require.New(t)
	log := slog.Default()

	worker := &countingWorker{}
	worker.run = func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}

	sup := NewSupervisor(log, 50*time.Millisecond)
	done := make(chan struct{})
	go func() {
		sup.Add(worker).Run(context.Background())
		close(done)
	}()

	// When Stop fires concurrently with Run publishing its trigger.
	// The first calls may land before the trigger exists, so keep
	// stopping until the supervisor goes down.
	deadline := time.After(2 * time.Second)
	for {
		sup.Stop()
		select {
		case <-done:
			return
		case <-deadline:
			req.Fail("Supervisor should have stopped")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
