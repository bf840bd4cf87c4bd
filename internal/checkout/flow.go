// Package checkout drives one user's payment from intent to confirmation.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"storefront/pkg/payment"

	"github.com/shopspring/decimal"
)

// State is a checkout step.
type State string

const (
	StateIdle            State = "idle"
	StateIntentRequested State = "intent_requested"
	StateMethodCreated   State = "method_created"
	StateConfirmed       State = "confirmed"
	StateFailed          State = "failed"
)

var (
	// ErrSubmitDisabled is returned when Submit is called while CanSubmit is false.
	ErrSubmitDisabled = errors.New("checkout cannot be submitted now")
	// ErrCardRejected means the processor could not tokenize the card.
	ErrCardRejected = errors.New("card was rejected")
	// ErrConfirmFailed means the processor refused to confirm the payment.
	ErrConfirmFailed = errors.New("payment confirmation failed")
)

// IntentFunc requests a payment intent for amount and returns its client secret.
type IntentFunc func(ctx context.Context, amount decimal.Decimal) (string, error)

// Receipt describes a confirmed payment.
type Receipt struct {
	TransactionID string
	Amount        decimal.Decimal
}

// Status is a point-in-time view of a Flow.
type Status struct {
	State         State  `json:"state"`
	Amount        string `json:"amount"`
	HasIntent     bool   `json:"hasIntent"`
	Submitting    bool   `json:"submitting"`
	TransactionID string `json:"transactionId,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Flow is the checkout state machine:
//
//	idle -> intent_requested -> method_created -> confirmed | failed
//
// A tokenization failure returns to intent_requested. A failed confirmation
// keeps the intent so the user may resubmit.
type Flow struct {
	mu            sync.Mutex
	processor     payment.Processor
	state         State
	amount        decimal.Decimal
	clientSecret  string
	transactionID string
	lastError     string
	submitting    bool
	// prepares and submits count started calls; an intent request commits
	// only if it is still the newest and no submit started meanwhile.
	prepares uint64
	submits  uint64
}

// NewFlow returns an idle flow.
func NewFlow(processor payment.Processor) *Flow {
	return &Flow{processor: processor, state: StateIdle}
}

// Prepare requests an intent for total. A non-positive total resets the flow to
// idle. An existing intent for the same amount is reused.
func (f *Flow) Prepare(ctx context.Context, total decimal.Decimal, request IntentFunc) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitDisabled
	}
	if !total.IsPositive() {
		f.reset()
		f.mu.Unlock()
		return nil
	}
	if f.clientSecret != "" && f.amount.Equal(total) {
		f.mu.Unlock()
		return nil
	}
	f.prepares++
	seq, submits := f.prepares, f.submits
	f.mu.Unlock()

	secret, err := request(ctx, total)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting || f.submits != submits {
		log.Printf("[checkout] dropping intent for %s: a submit started while it was requested", total.StringFixed(2))
		return ErrSubmitDisabled
	}
	if f.prepares != seq {
		return nil
	}
	if err != nil {
		f.reset()
		f.lastError = err.Error()
		return fmt.Errorf("failed to create payment intent: %w", err)
	}
	f.state = StateIntentRequested
	f.amount = total
	f.clientSecret = secret
	f.transactionID = ""
	f.lastError = ""
	return nil
}

func (f *Flow) reset() {
	f.state = StateIdle
	f.amount = decimal.Zero
	f.clientSecret = ""
	f.transactionID = ""
	f.lastError = ""
}

// CanSubmit reports whether the processor is ready, an intent exists and no
// confirmation is in flight.
func (f *Flow) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmit()
}

func (f *Flow) canSubmit() bool {
	return f.processor != nil && f.processor.Ready() && f.clientSecret != "" && !f.submitting
}

// Amount returns the amount of the current intent.
func (f *Flow) Amount() decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.amount
}

// Submit tokenizes card and confirms the current intent.
func (f *Flow) Submit(ctx context.Context, card payment.Card) (*Receipt, error) {
	f.mu.Lock()
	if !f.canSubmit() {
		f.mu.Unlock()
		return nil, ErrSubmitDisabled
	}
	f.submitting = true
	f.submits++
	secret := f.clientSecret
	amount := f.amount
	f.lastError = ""
	f.mu.Unlock()

	methodID, err := f.processor.CreatePaymentMethod(ctx, card)
	if err != nil {
		f.finish(StateIntentRequested, err)
		return nil, fmt.Errorf("%w: %w", ErrCardRejected, err)
	}

	f.mu.Lock()
	f.state = StateMethodCreated
	f.mu.Unlock()

	txn, err := f.processor.ConfirmIntent(ctx, secret, methodID)
	if err != nil {
		log.Printf("[checkout] confirmation failed: %v", err)
		f.finish(StateFailed, err)
		return nil, fmt.Errorf("%w: %w", ErrConfirmFailed, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	f.state = StateConfirmed
	f.transactionID = txn
	f.clientSecret = ""
	return &Receipt{TransactionID: txn, Amount: amount}, nil
}

func (f *Flow) finish(state State, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	f.state = state
	f.lastError = processorMessage(err)
}

func processorMessage(err error) string {
	var perr *payment.Error
	if errors.As(err, &perr) && perr.Message != "" {
		return perr.Message
	}
	return err.Error()
}

// Snapshot returns the current status.
func (f *Flow) Snapshot() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Status{
		State:         f.state,
		Amount:        f.amount.StringFixed(2),
		HasIntent:     f.clientSecret != "",
		Submitting:    f.submitting,
		TransactionID: f.transactionID,
		Error:         f.lastError,
	}
}
