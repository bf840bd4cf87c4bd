package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/pkg/shopapi"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

// ReviewRequest is the review form.
type ReviewRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"required,min=2,max=2000"`
}

// ReviewSummary is the rating overview of a product.
type ReviewSummary struct {
	Count   int    `json:"count"`
	Average string `json:"average"`
}

// ReviewService lists and creates product reviews.
type ReviewService struct {
	api      *shopapi.Client
	policy   *bluemonday.Policy
	validate *validator.Validate
}

// NewReviewService creates a new ReviewService.
func NewReviewService(api *shopapi.Client) *ReviewService {
	return &ReviewService{
		api:      api,
		policy:   bluemonday.StrictPolicy(),
		validate: validator.New(),
	}
}

// ForProduct returns the reviews of productID in backend order.
func (s *ReviewService) ForProduct(ctx context.Context, productID string) ([]models.Review, error) {
	all, err := s.api.Reviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	out := make([]models.Review, 0, len(all))
	for _, r := range all {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Summarize averages the ratings of reviews to one decimal.
func Summarize(reviews []models.Review) ReviewSummary {
	if len(reviews) == 0 {
		return ReviewSummary{Average: "0.0"}
	}
	sum := decimal.Zero
	for _, r := range reviews {
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(reviews))))
	return ReviewSummary{Count: len(reviews), Average: avg.StringFixed(1)}
}

// Create stores a review by the signed-in user. The comment is stripped of markup.
func (s *ReviewService) Create(ctx context.Context, user *models.User, req ReviewRequest) (*models.Review, error) {
	if user == nil || user.Email == "" {
		return nil, &SignInRequiredError{From: "/products/" + req.ProductID}
	}
	req.Comment = strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(req.Comment)))
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID: req.ProductID,
		Email:     user.Email,
		Name:      user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Date:      time.Now().UTC(),
	}
	res, err := s.api.CreateReview(WithEmail(ctx, user.Email), review)
	if err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}
	review.ID = res.InsertedID
	return review, nil
}
