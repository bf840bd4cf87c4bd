// Package orders holds the admin-driven order status rules.
package orders

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"
)

var (
	// ErrInvalidTransition is returned for a status change the table does not allow.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrDeleteNotAllowed is returned when deleting an order whose fulfillment has begun.
	ErrDeleteNotAllowed = errors.New("order cannot be deleted once fulfillment has started")

	// ErrUnknownStatus is returned for a status outside the lifecycle.
	ErrUnknownStatus = errors.New("unknown order status")
)

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:    {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:  {models.StatusProcessing},
	models.StatusProcessing: {models.StatusShipped},
	models.StatusShipped:    {models.StatusDelivered},
	models.StatusDelivered:  nil,
	models.StatusCancelled:  nil,
}

// ParseStatus normalizes s and checks it names a lifecycle status.
func ParseStatus(s string) (models.OrderStatus, error) {
	status := models.OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// Next returns the statuses reachable from status in one step.
func Next(status models.OrderStatus) []models.OrderStatus {
	return append([]models.OrderStatus(nil), transitions[status]...)
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status models.OrderStatus) bool {
	next, ok := transitions[status]
	return ok && len(next) == 0
}

// CanTransition reports whether from → to is allowed.
func CanTransition(from, to models.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition validates from → to.
func Transition(from, to models.OrderStatus) error {
	if IsTerminal(from) {
		return fmt.Errorf("%w: %s is final", ErrInvalidTransition, from)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// CanDelete reports whether an order in status may be deleted.
func CanDelete(status models.OrderStatus) bool {
	switch status {
	case models.StatusPending, models.StatusConfirmed, models.StatusCancelled:
		return true
	}
	return false
}

// Action is one button on the admin order row.
type Action struct {
	Kind   string             `json:"kind"` // "status" or "delete"
	Label  string             `json:"label"`
	Status models.OrderStatus `json:"status,omitempty"`
}

var labels = map[models.OrderStatus]string{
	models.StatusConfirmed:  "Confirm",
	models.StatusCancelled:  "Cancel",
	models.StatusProcessing: "Start processing",
	models.StatusShipped:    "Mark shipped",
	models.StatusDelivered:  "Mark delivered",
}

// Actions lists the buttons valid for order in its current status.
func Actions(order models.Order) []Action {
	actions := make([]Action, 0, 3)
	for _, s := range Next(order.Status) {
		actions = append(actions, Action{Kind: "status", Label: labels[s], Status: s})
	}
	if CanDelete(order.Status) {
		actions = append(actions, Action{Kind: "delete", Label: "Delete"})
	}
	return actions
}

// MatchesDisplayStatus applies the dashboard status filter. "completed" and
// "failed" are display aliases of delivered and cancelled.
func MatchesDisplayStatus(order models.Order, filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	switch filter {
	case "", "all":
		return true
	case string(models.StatusCompleted):
		return order.Status == models.StatusDelivered || order.Status == models.StatusCompleted
	case string(models.StatusFailed):
		return order.Status == models.StatusCancelled || order.Status == models.StatusFailed
	}
	return string(order.Status) == filter
}

// FilterByDisplayStatus keeps the orders matching filter, in order.
func FilterByDisplayStatus(list []models.Order, filter string) []models.Order {
	out := make([]models.Order, 0, len(list))
	for _, o := range list {
		if MatchesDisplayStatus(o, filter) {
			out = append(out, o)
		}
	}
	return out
}
