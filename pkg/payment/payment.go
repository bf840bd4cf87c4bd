// Package payment tokenizes cards and confirms payment intents with the card
// processor.
package payment

import (
	"context"
	"fmt"
	"strings"
)

// Card is the raw card entry. It is sent to the processor and never stored.
type Card struct {
	Number   string `json:"number" validate:"required,numeric,min=12,max=19"`
	ExpMonth int    `json:"expMonth" validate:"required,gte=1,lte=12"`
	ExpYear  int    `json:"expYear" validate:"required,gte=2000"`
	CVC      string `json:"cvc" validate:"required,numeric,min=3,max=4"`
	Name     string `json:"name,omitempty"`
}

// Processor is the card processor as seen from checkout.
type Processor interface {
	// Ready reports whether the processor can accept card data.
	Ready() bool
	// CreatePaymentMethod tokenizes card and returns the payment method id.
	CreatePaymentMethod(ctx context.Context, card Card) (string, error)
	// ConfirmIntent confirms the intent behind clientSecret with methodID and
	// returns the transaction reference.
	ConfirmIntent(ctx context.Context, clientSecret, methodID string) (string, error)
}

// Error is a processor-side rejection carrying the processor's message.
type Error struct {
	Op      string
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// IntentID extracts the intent id from a client secret of the form
// "<id>_secret_<nonce>".
func IntentID(clientSecret string) (string, error) {
	id, _, found := strings.Cut(clientSecret, "_secret_")
	if !found || id == "" {
		return "", fmt.Errorf("malformed client secret")
	}
	return id, nil
}
