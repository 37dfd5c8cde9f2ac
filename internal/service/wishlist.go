package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/wishlist-service/internal/domain"
	"github.com/utafrali/wishlist-service/internal/event"
	"github.com/utafrali/wishlist-service/internal/repository"
	apperrors "github.com/utafrali/wishlist-service/pkg/errors"
)

// DefaultMaxItems is the default ceiling on the sum of all product quantities
// in one wishlist, used when no limit is configured.
const DefaultMaxItems = 20

// maxSaveAttempts bounds the number of times a mutation is re-applied against
// freshly read state after a version conflict before the conflict surfaces to
// the caller.
const maxSaveAttempts = 3

// ProductInput holds the parameters for a product being added to a wishlist.
type ProductInput struct {
	ProductID   string `json:"product_id" validate:"required"`
	ProductName string `json:"product_name" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gte=1"`
}

// WishlistService implements the business logic for wishlist operations.
// All cross-request coordination happens through the repository's optimistic
// versioning; the service itself holds no mutable state.
type WishlistService struct {
	repo     repository.WishlistRepository
	producer *event.Producer
	logger   *slog.Logger
	maxItems int
}

// NewWishlistService creates a new wishlist service. maxItems caps the total
// quantity across all products of a single wishlist.
func NewWishlistService(repo repository.WishlistRepository, producer *event.Producer, logger *slog.Logger, maxItems int) *WishlistService {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &WishlistService{
		repo:     repo,
		producer: producer,
		logger:   logger,
		maxItems: maxItems,
	}
}

// Create builds and persists a new wishlist for the user with the given
// products. Fails with AlreadyExists if the user already has a wishlist and
// with CapacityExceeded if the products alone break the quantity limit.
// A concurrent create that wins the race also surfaces as AlreadyExists;
// create never retries.
func (s *WishlistService) Create(ctx context.Context, userID string, products []ProductInput) (*domain.Wishlist, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if err := validateProducts(products); err != nil {
		return nil, err
	}

	if _, err := s.repo.Get(ctx, userID); err == nil {
		return nil, apperrors.AlreadyExists("wishlist", "user_id", userID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	now := time.Now().UTC()
	wishlist := &domain.Wishlist{
		UserID:    userID,
		Products:  make([]domain.Product, 0, len(products)),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, p := range products {
		wishlist.Products = append(wishlist.Products, domain.Product{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Quantity:    p.Quantity,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := wishlist.CheckCapacity(s.maxItems); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, wishlist); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			// Another create won the race between our existence check and
			// the atomic insert.
			return nil, apperrors.AlreadyExists("wishlist", "user_id", userID)
		}
		return nil, fmt.Errorf("create wishlist: %w", err)
	}

	s.publishCreated(ctx, wishlist)

	s.logger.InfoContext(ctx, "wishlist created",
		slog.String("user_id", userID),
		slog.Int("products", len(wishlist.Products)),
		slog.Int("total_quantity", wishlist.TotalQuantity()),
	)

	return wishlist, nil
}

// AddProduct adds a product to the user's wishlist. If a product with the
// same ID already exists its quantity is increased by the incoming quantity
// (merge by addition, never replacement); otherwise the product is appended.
// On a version conflict the mutation is re-applied against freshly read state
// up to maxSaveAttempts times.
func (s *WishlistService) AddProduct(ctx context.Context, userID string, input ProductInput) (*domain.Wishlist, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}

	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		wishlist, err := s.repo.Get(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NotFound("wishlist", userID)
			}
			return nil, fmt.Errorf("get wishlist: %w", err)
		}

		expectedVersion := wishlist.Version
		now := time.Now().UTC()

		if i := wishlist.FindProductIndex(input.ProductID); i >= 0 {
			wishlist.Products[i].Quantity += input.Quantity
			wishlist.Products[i].UpdatedAt = now
		} else {
			wishlist.Products = append(wishlist.Products, domain.Product{
				ProductID:   input.ProductID,
				ProductName: input.ProductName,
				Quantity:    input.Quantity,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}

		if err := wishlist.CheckCapacity(s.maxItems); err != nil {
			return nil, err
		}

		wishlist.UpdatedAt = now
		wishlist.Version = expectedVersion + 1

		ok, err := s.repo.SaveIfVersion(ctx, wishlist, expectedVersion)
		if err != nil {
			return nil, fmt.Errorf("save wishlist: %w", err)
		}
		if ok {
			s.publishUpdated(ctx, wishlist)

			s.logger.InfoContext(ctx, "product added to wishlist",
				slog.String("user_id", userID),
				slog.String("product_id", input.ProductID),
				slog.Int("quantity", input.Quantity),
			)

			return wishlist, nil
		}

		s.logger.WarnContext(ctx, "wishlist version conflict, retrying",
			slog.String("user_id", userID),
			slog.Int("attempt", attempt),
		)
	}

	return nil, apperrors.Conflict("wishlist was modified concurrently, please retry")
}

// RemoveProduct removes one unit of the product from the user's wishlist.
// A quantity above one is decremented; a quantity of exactly one removes the
// product from the list entirely. Fails with NotFound when the wishlist or
// the product is absent, never silently.
func (s *WishlistService) RemoveProduct(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}
	if productID == "" {
		return apperrors.InvalidInput("product id is required")
	}

	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		wishlist, err := s.repo.Get(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NotFound("wishlist", userID)
			}
			return fmt.Errorf("get wishlist: %w", err)
		}

		i := wishlist.FindProductIndex(productID)
		if i < 0 {
			return apperrors.NotFound("product", productID)
		}

		expectedVersion := wishlist.Version
		now := time.Now().UTC()

		if wishlist.Products[i].Quantity > 1 {
			wishlist.Products[i].Quantity--
			wishlist.Products[i].UpdatedAt = now
		} else {
			wishlist.Products = append(wishlist.Products[:i], wishlist.Products[i+1:]...)
		}

		if err := wishlist.CheckCapacity(s.maxItems); err != nil {
			return err
		}

		wishlist.UpdatedAt = now
		wishlist.Version = expectedVersion + 1

		ok, err := s.repo.SaveIfVersion(ctx, wishlist, expectedVersion)
		if err != nil {
			return fmt.Errorf("save wishlist: %w", err)
		}
		if ok {
			s.publishUpdated(ctx, wishlist)

			s.logger.InfoContext(ctx, "product removed from wishlist",
				slog.String("user_id", userID),
				slog.String("product_id", productID),
			)

			return nil
		}

		s.logger.WarnContext(ctx, "wishlist version conflict, retrying",
			slog.String("user_id", userID),
			slog.Int("attempt", attempt),
		)
	}

	return apperrors.Conflict("wishlist was modified concurrently, please retry")
}

// GetByUserID retrieves the user's wishlist. Fails with NotFound if the user
// has no wishlist. Every call reads the latest persisted state.
func (s *WishlistService) GetByUserID(ctx context.Context, userID string) (*domain.Wishlist, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	wishlist, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("wishlist", userID)
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	return wishlist, nil
}

// IsProductInWishlist returns the current snapshot of the product if it is
// present in the user's wishlist, and NotFound when either the wishlist or
// the product is absent.
func (s *WishlistService) IsProductInWishlist(ctx context.Context, userID, productID string) (*domain.Product, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	wishlist, err := s.repo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("get wishlist by user and product: %w", err)
	}

	i := wishlist.FindProductIndex(productID)
	if i < 0 {
		return nil, apperrors.NotFound("product", productID)
	}

	product := wishlist.Products[i]
	return &product, nil
}

// validateProducts checks the create payload: every product needs an ID and a
// positive quantity, and IDs must be unique so the aggregate invariant holds
// from the first persist.
func validateProducts(products []ProductInput) error {
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if p.ProductID == "" {
			return apperrors.InvalidInput("product id is required")
		}
		if p.Quantity <= 0 {
			return apperrors.InvalidInput("quantity must be greater than 0")
		}
		if _, dup := seen[p.ProductID]; dup {
			return apperrors.InvalidInput(fmt.Sprintf("duplicate product id %q", p.ProductID))
		}
		seen[p.ProductID] = struct{}{}
	}
	return nil
}

// publishCreated publishes the wishlist.created event. Event publishing is
// best-effort: a broker outage must not fail the request.
func (s *WishlistService) publishCreated(ctx context.Context, wishlist *domain.Wishlist) {
	if err := s.producer.PublishWishlistCreated(ctx, wishlist); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.created event",
			slog.String("user_id", wishlist.UserID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *WishlistService) publishUpdated(ctx context.Context, wishlist *domain.Wishlist) {
	if err := s.producer.PublishWishlistUpdated(ctx, wishlist); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("user_id", wishlist.UserID),
			slog.String("error", err.Error()),
		)
	}
}
