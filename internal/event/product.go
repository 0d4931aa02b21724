package event

import (
	"context"
	"log/slog"
	"time"
)

const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
)

// ProductTopics lists every topic the product service publishes to.
func ProductTopics() []string {
	return []string{TopicProductCreated, TopicProductUpdated, TopicProductDeleted}
}

// ProductEvent is the payload of product.created and product.updated.
// Price is the exact decimal as text.
type ProductEvent struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Sku         string    `json:"sku"`
	Price       string    `json:"price"`
	Quantity    int       `json:"quantity"`
	Type        string    `json:"type"`
	IsVisible   bool      `json:"is_visible"`
	IsFeatured  bool      `json:"is_featured"`
	PublishedAt time.Time `json:"published_at"`
	BrandID     *string   `json:"brand_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ProductDeletedEvent is the payload of product.deleted.
type ProductDeletedEvent struct {
	ProductID  string    `json:"product_id"`
	Slug       string    `json:"slug"`
	Sku        string    `json:"sku"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (s *Service) handleProductEvent(ctx context.Context, topic string, ev ProductEvent) error {
	s.logger.InfoContext(ctx, "handling product event",
		slog.String("topic", topic),
		slog.String("product_id", ev.ProductID),
		slog.String("slug", ev.Slug),
		slog.String("sku", ev.Sku),
	)
	return nil
}

func (s *Service) handleProductDeletedEvent(ctx context.Context, ev ProductDeletedEvent) error {
	s.logger.InfoContext(ctx, "handling product deleted event",
		slog.String("product_id", ev.ProductID),
		slog.String("sku", ev.Sku),
	)
	return nil
}
