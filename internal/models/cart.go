package models

// CartItem is one row of a user's cart. Title, Image and Price are a snapshot
// taken when the item was added and are never re-priced.
type CartItem struct {
	ID        string  `json:"_id,omitempty"`
	Email     string  `json:"email" validate:"required,email"`
	ProductID string  `json:"menuId" validate:"required"`
	Title     string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
}

// WishlistEntry marks a product as wished by a user.
type WishlistEntry struct {
	Email     string `json:"email" validate:"required,email"`
	ProductID string `json:"productId" validate:"required"`
}
