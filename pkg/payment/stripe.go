package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultStripeURL is Stripe's public API.
const DefaultStripeURL = "https://api.stripe.com"

// StripeProcessor calls Stripe's public REST endpoints with a publishable key,
// the way a browser checkout form does.
type StripeProcessor struct {
	baseURL        string
	publishableKey string
	timeout        time.Duration
	http           *fiber.Client
}

// NewStripeProcessor creates a processor. An empty key leaves it not ready.
func NewStripeProcessor(baseURL, publishableKey string, timeout time.Duration) *StripeProcessor {
	if baseURL == "" {
		baseURL = DefaultStripeURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &StripeProcessor{
		baseURL:        strings.TrimRight(baseURL, "/"),
		publishableKey: publishableKey,
		timeout:        timeout,
		http:           &fiber.Client{UserAgent: "storefront"},
	}
}

// Ready reports whether a publishable key is configured.
func (p *StripeProcessor) Ready() bool {
	return p.publishableKey != ""
}

type stripeObject struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	LastPaymentError *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"last_payment_error"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *StripeProcessor) post(ctx context.Context, op, path string, fill func(args *fiber.Args)) (*stripeObject, error) {
	if !p.Ready() {
		return nil, &Error{Op: op, Message: "payment processor is not configured"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	fill(args)

	a := p.http.Post(p.baseURL + path)
	a.Timeout(p.timeout)
	a.Set(fiber.HeaderAuthorization, "Bearer "+p.publishableKey)
	a.Form(args)

	status, body, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}

	var obj stripeObject
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response (%d): %w", op, status, err)
	}
	if status < 200 || status >= 300 {
		if obj.Error != nil {
			return nil, &Error{Op: op, Code: obj.Error.Code, Message: obj.Error.Message}
		}
		return nil, &Error{Op: op, Message: fmt.Sprintf("processor answered %d", status)}
	}
	return &obj, nil
}

// CreatePaymentMethod tokenizes card.
func (p *StripeProcessor) CreatePaymentMethod(ctx context.Context, card Card) (string, error) {
	obj, err := p.post(ctx, "create payment method", "/v1/payment_methods", func(args *fiber.Args) {
		args.Set("type", "card")
		args.Set("card[number]", card.Number)
		args.Set("card[exp_month]", strconv.Itoa(card.ExpMonth))
		args.Set("card[exp_year]", strconv.Itoa(card.ExpYear))
		args.Set("card[cvc]", card.CVC)
		if card.Name != "" {
			args.Set("billing_details[name]", card.Name)
		}
	})
	if err != nil {
		return "", err
	}
	if obj.ID == "" {
		return "", &Error{Op: "create payment method", Message: "processor returned no payment method"}
	}
	return obj.ID, nil
}

// ConfirmIntent confirms the intent and returns its id as the transaction
// reference once the processor reports it succeeded.
func (p *StripeProcessor) ConfirmIntent(ctx context.Context, clientSecret, methodID string) (string, error) {
	intentID, err := IntentID(clientSecret)
	if err != nil {
		return "", &Error{Op: "confirm payment", Message: err.Error()}
	}

	obj, err := p.post(ctx, "confirm payment", "/v1/payment_intents/"+intentID+"/confirm", func(args *fiber.Args) {
		args.Set("client_secret", clientSecret)
		args.Set("payment_method", methodID)
	})
	if err != nil {
		return "", err
	}
	if obj.Status != "succeeded" {
		e := &Error{Op: "confirm payment", Code: obj.Status, Message: "payment was not completed"}
		if obj.LastPaymentError != nil {
			e.Code = obj.LastPaymentError.Code
			e.Message = obj.LastPaymentError.Message
		}
		return "", e
	}
	if obj.ID == "" {
		return intentID, nil
	}
	return obj.ID, nil
}
