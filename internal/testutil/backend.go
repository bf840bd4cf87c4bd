// Package testutil provides an in-memory shop backend for tests.
package testutil

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
)

// Gate holds matching requests until Release is closed. Entered is closed when
// the first matching request arrives.
type Gate struct {
	Entered chan struct{}
	Release chan struct{}
	once    sync.Once
}

type failure struct {
	status int
	times  int
}

// Backend is a fake of the shop REST API backed by in-memory collections.
type Backend struct {
	URL string

	mu        sync.RWMutex
	products  []models.Product
	carts     []models.CartItem
	wishlist  []models.WishlistEntry
	payments  []models.Order
	users     []models.User
	reviews   []models.Review
	token     string
	failures  map[string]*failure
	gates     map[string]*Gate
	calls     map[string]int
	lastAuth  string
	intentSeq int

	server *httptest.Server
}

// NewBackend starts a fake backend that is shut down with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		failures: make(map[string]*failure),
		gates:    make(map[string]*Gate),
		calls:    make(map[string]int),
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(b.intercept)
	b.routes(app)

	b.server = httptest.NewServer(adaptor.FiberApp(app))
	b.URL = b.server.URL
	t.Cleanup(b.server.Close)
	return b
}

func key(method, path string) string {
	return method + " " + path
}

// RequireToken makes every request without "Bearer token" fail with 401.
func (b *Backend) RequireToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
}

// Fail answers the next times requests to method+path with status.
func (b *Backend) Fail(method, path string, status, times int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[key(method, path)] = &failure{status: status, times: times}
}

// Hold installs a Gate on method+path.
func (b *Backend) Hold(method, path string) *Gate {
	b.mu.Lock()
	defer b.mu.Unlock()
	g := &Gate{Entered: make(chan struct{}), Release: make(chan struct{})}
	b.gates[key(method, path)] = g
	return g
}

// Calls returns how many requests reached method+path.
func (b *Backend) Calls(method, path string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.calls[key(method, path)]
}

// LastAuthorization returns the Authorization header of the latest request.
func (b *Backend) LastAuthorization() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastAuth
}

func (b *Backend) intercept(c *fiber.Ctx) error {
	k := key(c.Method(), c.Path())

	b.mu.Lock()
	b.calls[k]++
	b.lastAuth = c.Get(fiber.HeaderAuthorization)
	gate := b.gates[k]
	token := b.token
	var status int
	if f, ok := b.failures[k]; ok && f.times > 0 {
		f.times--
		status = f.status
	}
	b.mu.Unlock()

	if gate != nil {
		gate.once.Do(func() { close(gate.Entered) })
		<-gate.Release
	}
	if token != "" && c.Get(fiber.HeaderAuthorization) != "Bearer "+token {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized access"})
	}
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"message": fmt.Sprintf("injected failure %d", status)})
	}
	return c.Next()
}

func acknowledged(c *fiber.Ctx, inserted string) error {
	return c.JSON(fiber.Map{"acknowledged": true, "insertedId": inserted})
}

func (b *Backend) routes(app *fiber.App) {
	app.Get("/products", b.listProducts)
	app.Get("/products/search", b.searchProducts)
	app.Post("/products/bulk", b.bulkProducts)
	app.Get("/products/category/:category", b.productsByCategory)
	app.Get("/products/:id", b.getProduct)
	app.Post("/products", b.createProduct)
	app.Patch("/products/:id", b.updateProduct)
	app.Delete("/products/:id", b.deleteProduct)

	app.Get("/carts", b.listCarts)
	app.Post("/carts", b.addCart)
	app.Patch("/carts/:id", b.updateCart)
	app.Delete("/carts/:id", b.deleteCart)

	app.Get("/wishlist/:email", b.listWishlist)
	app.Post("/wishlist", b.addWishlist)
	app.Delete("/wishlist", b.removeWishlist)

	app.Get("/payments", b.listPayments)
	app.Get("/payments/user/:email", b.userPayments)
	app.Post("/payments/create-payment-intent", b.createIntent)
	app.Get("/payments/:id", b.getPayment)
	app.Post("/payments", b.createPayment)
	app.Patch("/payments/:id", b.updatePayment)
	app.Delete("/payments/:id", b.deletePayment)

	app.Get("/users", b.listUsers)
	app.Post("/users", b.saveUser)
	app.Get("/users/admin/:email", b.isAdmin)
	app.Patch("/users/role/:id", b.toggleRole)
	app.Delete("/users/:id", b.deleteUser)

	app.Get("/reviews", b.listReviews)
	app.Post("/reviews", b.createReview)
}

// --- seeding and inspection ---

// SeedProducts appends products, assigning ids where missing.
func (b *Backend) SeedProducts(products ...models.Product) []models.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.New().String()
		}
		b.products = append(b.products, products[i])
	}
	return products
}

// SeedUsers appends users, assigning ids where missing.
func (b *Backend) SeedUsers(users ...models.User) []models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range users {
		if users[i].ID == "" {
			users[i].ID = uuid.New().String()
		}
		b.users = append(b.users, users[i])
	}
	return users
}

// SeedOrders appends orders, assigning ids where missing.
func (b *Backend) SeedOrders(orders ...models.Order) []models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range orders {
		if orders[i].ID == "" {
			orders[i].ID = uuid.New().String()
		}
		b.payments = append(b.payments, orders[i])
	}
	return orders
}

// SeedCart appends cart rows, assigning ids where missing.
func (b *Backend) SeedCart(items ...models.CartItem) []models.CartItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		b.carts = append(b.carts, items[i])
	}
	return items
}

// SeedWishlist appends wishlist entries.
func (b *Backend) SeedWishlist(entries ...models.WishlistEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wishlist = append(b.wishlist, entries...)
}

// CartRows returns a copy of every cart row.
func (b *Backend) CartRows() []models.CartItem {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.CartItem(nil), b.carts...)
}

// WishlistRows returns a copy of every wishlist entry.
func (b *Backend) WishlistRows() []models.WishlistEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.WishlistEntry(nil), b.wishlist...)
}

// Orders returns a copy of every order.
func (b *Backend) Orders() []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.Order(nil), b.payments...)
}

// Users returns a copy of every user.
func (b *Backend) Users() []models.User {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.User(nil), b.users...)
}

// Reviews returns a copy of every review.
func (b *Backend) Reviews() []models.Review {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.Review(nil), b.reviews...)
}

// --- products ---

func (b *Backend) listProducts(c *fiber.Ctx) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return c.JSON(append([]models.Product{}, b.products...))
}

func (b *Backend) searchProducts(c *fiber.Ctx) error {
	q := strings.ToLower(c.Query("query"))
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []models.Product{}
	for _, p := range b.products {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return c.JSON(out)
}

func (b *Backend) bulkProducts(c *fiber.Ctx) error {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	want := make(map[string]bool, len(req.IDs))
	for _, id := range req.IDs {
		want[id] = true
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []models.Product{}
	for _, p := range b.products {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return c.JSON(out)
}

func (b *Backend) productsByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []models.Product{}
	for _, p := range b.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return c.JSON(out)
}

func (b *Backend) getProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, p := range b.products {
		if p.ID == id {
			return c.JSON(p)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
}

func (b *Backend) createProduct(c *fiber.Ctx) error {
	var p models.Product
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	p.ID = uuid.New().String()
	b.mu.Lock()
	b.products = append(b.products, p)
	b.mu.Unlock()
	return acknowledged(c, p.ID)
}

func (b *Backend) updateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	var p models.Product
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.products {
		if b.products[i].ID == id {
			p.ID = id
			b.products[i] = p
			return c.JSON(fiber.Map{"acknowledged": true, "modifiedCount": 1})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
}

func (b *Backend) deleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.products {
		if b.products[i].ID == id {
			b.products = append(b.products[:i], b.products[i+1:]...)
			return c.JSON(fiber.Map{"acknowledged": true, "deletedCount": 1})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
}

// --- carts ---

func (b *Backend) listCarts(c *fiber.Ctx) error {
	email := c.Query("email")
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []models.CartItem{}
	for _, item := range b.carts {
		if item.Email == email {
			out = append(out, item)
		}
	}
	return c.JSON(out)
}

func (b *Backend) addCart(c *fiber.Ctx) error {
	var item models.CartItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	item.ID = uuid.New().String()
	b.mu.Lock()
	b.carts = append(b.carts, item)
	b.mu.Unlock()
	return acknowledged(c, item.ID)
}

func (b *Backend) updateCart(c *fiber.Ctx) error {
	id := c.Params("id")
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.carts {
		if b.carts[i].ID == id {
			b.carts[i].Quantity = req.Quantity
			return c.JSON(fiber.Map{"acknowledged": true, "modifiedCount": 1})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart item not found"})
}

func (b *Backend) deleteCart(c *fiber.Ctx) error {
	id := c.Params("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.carts {
		if b.carts[i].ID == id {
			b.carts = append(b.carts[:i], b.carts[i+1:]...)
			return c.JSON(fiber.Map{"acknowledged": true, "deletedCount": 1})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart item not found"})
}

// --- wishlist ---

func (b *Backend) listWishlist(c *fiber.Ctx) error {
	email := c.Params("email")
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []models.WishlistEntry{}
	for _, e := range b.wishlist {
		if e.Email == email {
			out = append(out, e)
		}
	}
	return c.JSON(out)
}

func (b *Backend) addWishlist(c *fiber.Ctx) error {
	var entry models.WishlistEntry
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.wishlist {
		if e == entry {
			return c.JSON(fiber.Map{"acknowledged": true})
		}
	}
	b.wishlist = append(b.wishlist, entry)
	return acknowledged(c, entry.ProductID)
}

func (b *Backend) removeWishlist(c *fiber.Ctx) error {
	var entry models.WishlistEntry
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.wishlist {
		if e == entry {
			b.wishlist = append(b.wishlist[:i], b.wishlist[i+1:]...)
			return c.JSON(fiber.Map{"acknowledged": true, "deletedCount": 1})
		}
	}
	return c.JSON(fiber.Map{"acknowledged": true, "deletedCount": 0})
}

// --- payments ---

func (b *Backend) listPayments(c *fiber.Ctx) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return c.JSON(append([]models.Order{}, b.payments...))
}

func (b *Backend) userPayments(c *fiber.Ctx) error {
	email := c.Params("email")
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []models.Order{}
	for _, o := range b.payments {
		if o.Email == email {
			out = append(out, o)
		}
	}
	return c.JSON(out)
}

func (b *Backend) createIntent(c *fiber.Ctx) error {
	var req struct {
		Price float64 `json:"price"`
	}
	if err := c.BodyParser(&req); err != nil || req.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "price must be positive"})
	}
	b.mu.Lock()
	b.intentSeq++
	seq := b.intentSeq
	b.mu.Unlock()
	return c.JSON(fiber.Map{"clientSecret": fmt.Sprintf("pi_%d_secret_%d", seq, int64(req.Price*100))})
}

func (b *Backend) getPayment(c *fiber.Ctx) error {
	id := c.Params("id")
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, o := range b.payments {
		if o.ID == id {
			return c.JSON(o)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "payment not found"})
}

// createPayment records the order and clears the purchased cart rows, as the
// real backend does.
func (b *Backend) createPayment(c *fiber.Ctx) error {
	var order models.Order
	if err := c.BodyParser(&order); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	order.ID = uuid.New().String()
	purchased := make(map[string]bool, len(order.CartIDs))
	for _, id := range order.CartIDs {
		purchased[id] = true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payments = append(b.payments, order)
	kept := b.carts[:0]
	for _, item := range b.carts {
		if !purchased[item.ID] {
			kept = append(kept, item)
		}
	}
	b.carts = kept
	return acknowledged(c, order.ID)
}

func (b *Backend) updatePayment(c *fiber.Ctx) error {
	id := c.Params("id")
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.payments {
		if b.payments[i].ID == id {
			b.payments[i].Status = req.Status
			return c.JSON(fiber.Map{"acknowledged": true, "modifiedCount": 1})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "payment not found"})
}

func (b *Backend) deletePayment(c *fiber.Ctx) error {
	id := c.Params("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.payments {
		if b.payments[i].ID == id {
			b.payments = append(b.payments[:i], b.payments[i+1:]...)
			return c.JSON(fiber.Map{"acknowledged": true, "deletedCount": 1})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "payment not found"})
}

// --- users ---

func (b *Backend) listUsers(c *fiber.Ctx) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return c.JSON(append([]models.User{}, b.users...))
}

func (b *Backend) saveUser(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Email == user.Email {
			return c.JSON(fiber.Map{"message": "user already exists", "insertedId": nil})
		}
	}
	user.ID = uuid.New().String()
	b.users = append(b.users, user)
	return acknowledged(c, user.ID)
}

func (b *Backend) isAdmin(c *fiber.Ctx) error {
	email := c.Params("email")
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, u := range b.users {
		if u.Email == email {
			return c.JSON(fiber.Map{"admin": u.IsAdmin()})
		}
	}
	return c.JSON(fiber.Map{"admin": false})
}

func (b *Backend) toggleRole(c *fiber.Ctx) error {
	id := c.Params("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.users {
		if b.users[i].ID == id {
			if b.users[i].IsAdmin() {
				b.users[i].Role = ""
			} else {
				b.users[i].Role = models.RoleAdmin
			}
			return c.JSON(fiber.Map{"acknowledged": true, "modifiedCount": 1})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
}

func (b *Backend) deleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.users {
		if b.users[i].ID == id {
			b.users = append(b.users[:i], b.users[i+1:]...)
			return c.JSON(fiber.Map{"acknowledged": true, "deletedCount": 1})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
}

// --- reviews ---

func (b *Backend) listReviews(c *fiber.Ctx) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return c.JSON(append([]models.Review{}, b.reviews...))
}

func (b *Backend) createReview(c *fiber.Ctx) error {
	var review models.Review
	if err := c.BodyParser(&review); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	review.ID = uuid.New().String()
	b.mu.Lock()
	b.reviews = append(b.reviews, review)
	b.mu.Unlock()
	return acknowledged(c, review.ID)
}
