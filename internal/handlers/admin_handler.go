package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/search"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the user and product management pages.
type AdminHandler struct {
	admin    *services.AdminService
	products *services.ProductService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *services.AdminService, products *services.ProductService) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		products: products,
	}
}

// RegisterAdminRoutes registers user and product routes on an admin group.
func (h *AdminHandler) RegisterAdminRoutes(admin fiber.Router) {
	userRoutes := admin.Group("/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Patch("/:id/role", h.HandleToggleRole)
	userRoutes.Delete("/:id", h.HandleDeleteUser)

	productRoutes := admin.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Patch("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

type userRow struct {
	models.User
	ShortID string `json:"shortId"`
	Admin   bool   `json:"admin"`
}

// HandleGetUsers lists users matching ?q=.
func (h *AdminHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.admin.Users(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err, "Could not retrieve users")
	}
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{User: u, ShortID: search.ShortID(u.ID), Admin: u.IsAdmin()})
	}
	return c.JSON(fiber.Map{
		"users": rows,
		"total": len(rows),
		"empty": len(rows) == 0,
	})
}

// HandleToggleRole flips a user's admin role.
func (h *AdminHandler) HandleToggleRole(c *fiber.Ctx) error {
	if err := h.admin.ToggleRole(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Could not change role")
	}
	return c.JSON(fiber.Map{"message": "Role updated"})
}

// HandleDeleteUser deletes a user. Admins cannot delete themselves.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	users, err := h.admin.Users(c.UserContext(), "")
	if err != nil {
		return respondError(c, err, "Could not delete user")
	}
	for _, u := range users {
		if u.ID == id && u.Email == middleware.CurrentEmail(c) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "You cannot delete your own account",
			})
		}
	}
	if err := h.admin.DeleteUser(c.UserContext(), id); err != nil {
		return respondError(c, err, "Could not delete user")
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// HandleCreateProduct adds a product to the catalog.
func (h *AdminHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	id, err := h.products.CreateProduct(c.UserContext(), &product)
	if err != nil {
		return respondError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created",
		"id":      id,
		"product": product,
	})
}

// HandleUpdateProduct replaces a product.
func (h *AdminHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.products.UpdateProduct(c.UserContext(), c.Params("id"), &product); err != nil {
		return respondError(c, err, "Could not update product")
	}
	return c.JSON(fiber.Map{
		"message": "Product updated",
		"product": product,
	})
}

// HandleDeleteProduct removes a product.
func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.products.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
