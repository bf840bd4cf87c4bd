package testutil

import (
	"context"
	"fmt"
	"sync"

	"storefront/pkg/payment"
)

// NewGate returns an open-ended Gate for use outside the backend.
func NewGate() *Gate {
	return &Gate{Entered: make(chan struct{}), Release: make(chan struct{})}
}

// Processor is a scripted payment.Processor.
type Processor struct {
	mu         sync.Mutex
	notReady   bool
	cardErr    error
	confirmErr error
	gate       *Gate
	methods    int
	confirms   int
	secrets    []string
}

// NewProcessor returns a ready processor that accepts every card.
func NewProcessor() *Processor {
	return &Processor{}
}

// SetReady toggles readiness.
func (p *Processor) SetReady(ready bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notReady = !ready
}

// RejectCards makes tokenization fail with err until called with nil.
func (p *Processor) RejectCards(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cardErr = err
}

// FailConfirm makes confirmation fail with err until called with nil.
func (p *Processor) FailConfirm(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmErr = err
}

// HoldConfirm blocks the next confirmations on the returned Gate.
func (p *Processor) HoldConfirm() *Gate {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gate = NewGate()
	return p.gate
}

// Counts returns how many tokenizations and confirmations were attempted.
func (p *Processor) Counts() (methods, confirms int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.methods, p.confirms
}

// ConfirmedSecrets returns the client secrets passed to ConfirmIntent.
func (p *Processor) ConfirmedSecrets() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.secrets...)
}

func (p *Processor) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.notReady
}

func (p *Processor) CreatePaymentMethod(_ context.Context, card payment.Card) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.methods++
	if p.cardErr != nil {
		return "", p.cardErr
	}
	return fmt.Sprintf("pm_%d", p.methods), nil
}

func (p *Processor) ConfirmIntent(ctx context.Context, clientSecret, methodID string) (string, error) {
	p.mu.Lock()
	p.confirms++
	p.secrets = append(p.secrets, clientSecret)
	gate := p.gate
	err := p.confirmErr
	p.mu.Unlock()

	if gate != nil {
		gate.once.Do(func() { close(gate.Entered) })
		select {
		case <-gate.Release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	id, perr := payment.IntentID(clientSecret)
	if perr != nil {
		return "", &payment.Error{Op: "confirm payment", Message: perr.Error()}
	}
	return id, nil
}
