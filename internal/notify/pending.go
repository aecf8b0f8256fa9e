package notify

import (
	"context"
	"fmt"
	"sync"
)

// Pending holds approval requests that are waiting for an out-of-band
// answer, keyed by request ID. RequestApproval parks the caller on a
// channel; Respond from another goroutine (typically an HTTP handler)
// releases it.
type Pending struct {
	mu      sync.Mutex
	waiting map[string]chan Response
	// requests keeps the parked request visible to pollers.
	requests map[string]Request

	notifications chan Notification
}

func NewPending() *Pending {
	return &Pending{
		waiting:       make(map[string]chan Response),
		requests:      make(map[string]Request),
		notifications: make(chan Notification, 64),
	}
}

func (p *Pending) RequestApproval(ctx context.Context, req Request) (Response, error) {
	ch := make(chan Response, 1)

	p.mu.Lock()
	p.waiting[req.ID] = ch
	p.requests[req.ID] = req
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.waiting, req.ID)
		delete(p.requests, req.ID)
		p.mu.Unlock()
	}()

	select {
	case resp := <-ch:
		return resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

func (p *Pending) SendNotification(ctx context.Context, n Notification) error {
	select {
	case p.notifications <- n:
	default:
		// Nobody is draining; drop rather than block the hook.
	}
	return nil
}

// Respond resolves a parked approval by ID.
func (p *Pending) Respond(id string, resp Response) error {
	p.mu.Lock()
	ch, ok := p.waiting[id]
	if ok {
		delete(p.waiting, id)
		delete(p.requests, id)
	}
	p.mu.Unlock()

	if !ok {
		return fmt.Errorf("no pending approval with id %q", id)
	}
	ch <- resp
	return nil
}

// List returns the requests currently waiting for an answer.
func (p *Pending) List() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Request, 0, len(p.requests))
	for _, req := range p.requests {
		out = append(out, req)
	}
	return out
}
