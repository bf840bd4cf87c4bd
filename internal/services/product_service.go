package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/shopapi"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// ProductService handles business logic related to products.
type ProductService struct {
	api      *shopapi.Client
	cache    repositories.ProductCache
	ttl      time.Duration
	now      func() time.Time
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	validate *validator.Validate
}

// NewProductService creates a new ProductService. A zero ttl disables caching
// of fresh reads but keeps the stale fallback.
func NewProductService(api *shopapi.Client, cache repositories.ProductCache, ttl time.Duration) *ProductService {
	return &ProductService{
		api:      api,
		cache:    cache,
		ttl:      ttl,
		now:      time.Now,
		markdown: goldmark.New(),
		policy:   bluemonday.UGCPolicy(),
		validate: validator.New(),
	}
}

// GetAllProducts returns the catalog, served from the cache while it is fresh.
// When the backend fails, a stale cache is served instead.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	cached, fetchedAt, err := s.cache.All()
	if err != nil {
		log.Printf("[products] reading cache: %v", err)
		cached = nil
	}
	if len(cached) > 0 && s.now().Sub(fetchedAt) < s.ttl {
		return cached, nil
	}

	products, err := s.api.Products(ctx)
	if err != nil {
		if len(cached) > 0 {
			log.Printf("[products] backend unavailable, serving catalog cached at %s: %v", fetchedAt.Format(time.RFC3339), err)
			return cached, nil
		}
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	if err := s.cache.Replace(products); err != nil {
		log.Printf("[products] refreshing cache: %v", err)
	}
	return products, nil
}

// TagPage renders one page of the tag listing over the cached catalog. step
// "next" or "prev" moves one page from page and stops at the boundaries.
func (s *ProductService) TagPage(ctx context.Context, tag models.Tag, page int, step string) (catalog.Page, error) {
	products, err := s.GetAllProducts(ctx)
	if err != nil {
		return catalog.Page{}, err
	}

	listing := catalog.NewListing(tag, catalog.PageSize)
	listing.SetProducts(products)
	listing.GoTo(page)
	switch step {
	case "next":
		listing.Next()
	case "prev":
		listing.Prev()
	}
	return listing.Current(), nil
}

// GetProductsByCategory returns the products of category. When the backend
// fails, the category is filtered out of the cached catalog instead.
func (s *ProductService) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.api.ProductsByCategory(ctx, category)
	if err == nil {
		return products, nil
	}

	cached, _, cerr := s.cache.All()
	if cerr != nil || len(cached) == 0 {
		return nil, fmt.Errorf("failed to load category %s: %w", category, err)
	}
	log.Printf("[products] category %s served from cache: %v", category, err)
	return catalog.FilterByCategory(cached, category), nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.api.Product(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %s: %w", id, err)
	}
	return product, nil
}

// SearchProducts runs a title search. A blank query matches nothing.
func (s *ProductService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Product{}, nil
	}
	products, err := s.api.SearchProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// GetProductsByIDs resolves ids without calling the backend for an empty set.
func (s *ProductService) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	products, err := s.api.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// RenderDescription converts a Markdown description to sanitized HTML.
func (s *ProductService) RenderDescription(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(description), &buf); err != nil {
		log.Printf("[products] rendering description: %v", err)
		return s.policy.Sanitize(description)
	}
	return s.policy.Sanitize(buf.String())
}

func (s *ProductService) check(product *models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		return err
	}
	if err := product.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	return nil
}

func (s *ProductService) invalidate() {
	if err := s.cache.Invalidate(); err != nil {
		log.Printf("[products] invalidating cache: %v", err)
	}
}

// CreateProduct validates and creates a product, returning its id.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (string, error) {
	if err := s.check(product); err != nil {
		return "", err
	}
	res, err := s.api.CreateProduct(ctx, product)
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	s.invalidate()
	product.ID = res.InsertedID
	return res.InsertedID, nil
}

// UpdateProduct validates and replaces the product with id.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, product *models.Product) error {
	product.ID = id
	if err := s.check(product); err != nil {
		return err
	}
	if _, err := s.api.UpdateProduct(ctx, id, product); err != nil {
		return fmt.Errorf("failed to update product %s: %w", id, err)
	}
	s.invalidate()
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.api.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	s.invalidate()
	return nil
}
