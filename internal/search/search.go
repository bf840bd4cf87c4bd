// Package search implements the dashboard's free-text order and user search.
//
// Every field is matched case-insensitively and the fields are ORed. Identifiers
// and transaction references also match on their last eight characters, which
// is how the dashboard abbreviates them.
package search

import (
	"strings"

	"storefront/internal/models"
)

// ShortIDLength is the length of an abbreviated identifier.
const ShortIDLength = 8

// ShortID returns the last ShortIDLength characters of id.
func ShortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[len(id)-ShortIDLength:]
}

func contains(field, q string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), q)
}

// matchesID accepts an exact id or a query found in the abbreviated id.
func matchesID(id, q string) bool {
	if id == "" {
		return false
	}
	lower := strings.ToLower(id)
	return lower == q || strings.Contains(strings.ToLower(ShortID(id)), q)
}

// matchesReference accepts a query found anywhere in the reference or in its
// abbreviated form.
func matchesReference(ref, q string) bool {
	return contains(ref, q) || contains(ShortID(ref), q)
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// OrderMatches reports whether order matches the normalized query q.
func OrderMatches(order models.Order, q string) bool {
	return contains(order.Email, q) ||
		matchesID(order.ID, q) ||
		matchesReference(order.TransactionID, q)
}

// Orders returns the orders matching query, in order. A blank query returns
// list unchanged.
func Orders(list []models.Order, query string) []models.Order {
	q := normalize(query)
	if q == "" {
		return list
	}
	out := make([]models.Order, 0, len(list))
	for _, o := range list {
		if OrderMatches(o, q) {
			out = append(out, o)
		}
	}
	return out
}

// UserMatches reports whether user matches the normalized query q.
func UserMatches(user models.User, q string) bool {
	return contains(user.Email, q) ||
		contains(user.Name, q) ||
		matchesID(user.ID, q)
}

// Users returns the users matching query, in order. A blank query returns
// list unchanged.
func Users(list []models.User, query string) []models.User {
	q := normalize(query)
	if q == "" {
		return list
	}
	out := make([]models.User, 0, len(list))
	for _, u := range list {
		if UserMatches(u, q) {
			out = append(out, u)
		}
	}
	return out
}
