package canbus

import (
	"context"
	"sync"
)

// FakeClient is an in-memory Client. Frames handed to Inject are returned
// by Receive in order, one batch per Inject call; frames passed to Send are
// recorded for inspection.
type FakeClient struct {
	// StartErr and StopErr, when set before use, are returned by Start and
	// Stop.
	StartErr error
	StopErr  error

	queue chan []Frame

	mu      sync.Mutex
	started bool
	stopped chan struct{}
	sent    []Frame
}

// NewFakeClient returns a stopped FakeClient.
func NewFakeClient() *FakeClient {
	return &FakeClient{queue: make(chan []Frame, 64)}
}

func (c *FakeClient) Start() error {
	if c.StartErr != nil {
		return c.StartErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		c.started = true
		c.stopped = make(chan struct{})
	}
	return nil
}

func (c *FakeClient) Stop() error {
	c.mu.Lock()
	if c.started {
		c.started = false
		close(c.stopped)
	}
	c.mu.Unlock()
	return c.StopErr
}

func (c *FakeClient) Send(frames []Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return ErrClientNotStarted
	}
	for _, f := range frames {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	c.sent = append(c.sent, frames...)
	return nil
}

func (c *FakeClient) Receive(ctx context.Context) ([]Frame, error) {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil, ErrClientNotStarted
	}
	stopped := c.stopped
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-stopped:
		return nil, ErrClientClosed
	case batch := <-c.queue:
		return batch, nil
	}
}

// Inject queues one batch for Receive. It blocks once 64 batches are
// pending.
func (c *FakeClient) Inject(frames ...Frame) {
	c.queue <- append([]Frame(nil), frames...)
}

// Sent returns a copy of every frame accepted by Send.
func (c *FakeClient) Sent() []Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Frame(nil), c.sent...)
}

// Started reports whether Start has been called without a matching Stop.
func (c *FakeClient) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}
