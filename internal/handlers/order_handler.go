package handlers

import (
	"log"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/orders"
	"storefront/internal/search"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the payment history route.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Get("/orders", requireAuth, h.HandleHistory)
}

// RegisterAdminRoutes registers the dashboard order routes on an admin group.
func (h *OrderHandler) RegisterAdminRoutes(admin fiber.Router) {
	orderRoutes := admin.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
}

// orderRow is one dashboard row with the buttons valid for it.
type orderRow struct {
	models.Order
	ShortID  string          `json:"shortId"`
	Terminal bool            `json:"terminal"`
	Actions  []orders.Action `json:"actions"`
}

func rowsOf(list []models.Order) []orderRow {
	rows := make([]orderRow, 0, len(list))
	for _, o := range list {
		rows = append(rows, orderRow{
			Order:    o,
			ShortID:  search.ShortID(o.ID),
			Terminal: orders.IsTerminal(o.Status),
			Actions:  orders.Actions(o),
		})
	}
	return rows
}

// HandleHistory returns the caller's payment history.
func (h *OrderHandler) HandleHistory(c *fiber.Ctx) error {
	list, err := h.service.History(c.UserContext(), middleware.CurrentEmail(c))
	if err != nil {
		return respondError(c, err, "Could not retrieve payment history")
	}
	return c.JSON(fiber.Map{
		"orders": list,
		"empty":  len(list) == 0,
	})
}

// HandleGetOrders lists orders matching ?q= and ?status=.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	list, err := h.service.SearchOrders(c.UserContext(), c.Query("q"), c.Query("status"))
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(fiber.Map{
		"orders": rowsOf(list),
		"total":  len(list),
		"empty":  len(list) == 0,
	})
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), orderID, updateData.Status)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return respondError(c, err, "Could not update order status")
	}

	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"order":   rowsOf([]models.Order{*order})[0],
	})
}

// HandleDeleteOrder deletes an order that has not entered fulfillment.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.service.DeleteOrder(c.UserContext(), orderID); err != nil {
		log.Printf("Error deleting order %s: %v", orderID, err)
		return respondError(c, err, "Could not delete order")
	}
	return c.JSON(fiber.Map{
		"message": "Order deleted",
	})
}
