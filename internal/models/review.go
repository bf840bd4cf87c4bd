package models

import "time"

// Review is a customer rating of a product.
type Review struct {
	ID        string    `json:"_id,omitempty"`
	ProductID string    `json:"productId" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string    `json:"comment" validate:"required,max=2000"`
	Date      time.Time `json:"date"`
}
