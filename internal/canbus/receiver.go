package canbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// MessageManager decodes frames for one device.
type MessageManager interface {
	Parse(id uint32, data []byte)
}

// retryDelay is how long the receive loop waits after a transient error.
const retryDelay = 10 * time.Millisecond

// Receiver pulls frames from a Client in a goroutine and hands each to a
// MessageManager.
type Receiver struct {
	mu        sync.Mutex
	client    Client
	manager   MessageManager
	enableLog bool
	cancel    context.CancelFunc
	done      chan struct{}
	running   bool
	err       error

	frames atomic.Uint64
}

// Init binds the receiver to its client and manager.
func (r *Receiver) Init(client Client, manager MessageManager, enableLog bool) error {
	if client == nil {
		return fmt.Errorf("can receiver: client is nil")
	}
	if manager == nil {
		return fmt.Errorf("can receiver: message manager is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("can receiver: already running")
	}
	r.client = client
	r.manager = manager
	r.enableLog = enableLog
	return nil
}

// Start launches the receive loop. The loop ends when ctx ends, Stop is
// called, or the client reports it is closed.
func (r *Receiver) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return fmt.Errorf("can receiver: not initialized")
	}
	if r.running {
		return fmt.Errorf("can receiver: already running")
	}
	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running = true
	r.err = nil
	go r.loop(loopCtx, r.done)
	diagf("can receiver started (log=%t)", r.enableLog)
	return nil
}

// Stop ends the receive loop and waits for it to exit.
func (r *Receiver) Stop() error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	diagf("can receiver stopped after %d frames", r.FrameCount())
	return nil
}

// IsRunning reports whether the receive loop is active.
func (r *Receiver) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Err returns the error that ended the loop, if the client ended it.
func (r *Receiver) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// FrameCount returns the number of frames dispatched so far.
func (r *Receiver) FrameCount() uint64 {
	return r.frames.Load()
}

func (r *Receiver) loop(ctx context.Context, done chan struct{}) {
	var exitErr error
	defer func() {
		r.mu.Lock()
		r.running = false
		r.err = exitErr
		r.mu.Unlock()
		close(done)
	}()

	for {
		frames, err := r.client.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, ErrClientClosed) || errors.Is(err, ErrClientNotStarted) {
				opsf("can receiver: %v", err)
				exitErr = err
				return
			}
			opsf("can receiver: receive failed: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
			continue
		}
		for _, f := range frames {
			if r.enableLog {
				tracef("rx %s", f)
			}
			r.manager.Parse(f.ID, f.Data)
			r.frames.Add(1)
		}
	}
}
