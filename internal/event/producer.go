package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/wishlist-service/internal/domain"
	pkgkafka "github.com/utafrali/wishlist-service/pkg/kafka"
)

// Kafka topic constants for wishlist domain events.
const (
	TopicWishlistCreated = "ecommerce.wishlist.created"
	TopicWishlistUpdated = "ecommerce.wishlist.updated"
)

// Aggregate type constant.
const AggregateTypeWishlist = "wishlist"

// Source identifier for events originating from the wishlist service.
const SourceWishlistService = "wishlist-service"

// WishlistData is the payload for wishlist.created and wishlist.updated events.
type WishlistData struct {
	UserID        string        `json:"user_id"`
	Products      []ProductData `json:"products"`
	TotalQuantity int           `json:"total_quantity"`
	Version       int           `json:"version"`
}

// ProductData is the product payload within wishlist events.
type ProductData struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// Producer publishes wishlist domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the wishlist service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishWishlistCreated publishes a wishlist.created event.
func (p *Producer) PublishWishlistCreated(ctx context.Context, wishlist *domain.Wishlist) error {
	return p.publish(ctx, TopicWishlistCreated, wishlist)
}

// PublishWishlistUpdated publishes a wishlist.updated event. Both product
// additions and removals produce this event; consumers diff on content.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, wishlist *domain.Wishlist) error {
	return p.publish(ctx, TopicWishlistUpdated, wishlist)
}

func (p *Producer) publish(ctx context.Context, topic string, wishlist *domain.Wishlist) error {
	products := make([]ProductData, len(wishlist.Products))
	for i, product := range wishlist.Products {
		products[i] = ProductData{
			ProductID:   product.ProductID,
			ProductName: product.ProductName,
			Quantity:    product.Quantity,
		}
	}

	data := WishlistData{
		UserID:        wishlist.UserID,
		Products:      products,
		TotalQuantity: wishlist.TotalQuantity(),
		Version:       wishlist.Version,
	}

	evt, err := pkgkafka.NewEvent(topic, wishlist.UserID, AggregateTypeWishlist, SourceWishlistService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published wishlist event",
		slog.String("topic", topic),
		slog.String("user_id", wishlist.UserID),
		slog.Int("total_quantity", wishlist.TotalQuantity()),
	)

	return nil
}
