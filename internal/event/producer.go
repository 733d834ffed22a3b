package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
	pkgkafka "github.com/utafrali/ReviewAnalyzer/pkg/kafka"
	"github.com/utafrali/ReviewAnalyzer/pkg/logger"
)

// TopicReviewCreated carries one event per accepted review.
var TopicReviewCreated = pkgkafka.Topic("review", "created")

// EventTypeReviewCreated is the event_type of review.created envelopes.
const EventTypeReviewCreated = "review.created"

// Aggregate type constant.
const AggregateTypeReview = "review"

// Source identifier for events originating from this service.
const SourceReviewAnalyzer = "review-analyzer"

// MetadataLocation lets consumers route on location without decoding data.
const MetadataLocation = "location"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ReviewID   string `json:"review_id"`
	ReviewBody string `json:"review_body"`
	Location   string `json:"location"`
	Timestamp  string `json:"timestamp"`
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, clock clockwork.Clock, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		clock:  clock,
		logger: logger,
	}
}

// PublishReviewCreated publishes a review.created event keyed by review ID.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ReviewID:   review.ReviewID,
		ReviewBody: review.ReviewBody,
		Location:   review.Location,
		Timestamp:  review.Timestamp.String(),
	}

	event, err := pkgkafka.NewEventAt(p.clock.Now(), EventTypeReviewCreated, review.ReviewID, AggregateTypeReview, SourceReviewAnalyzer, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}
	event.WithMetadata(MetadataLocation, review.Location)
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ReviewID),
		slog.String("location", review.Location),
	)

	return nil
}

// NoopPublisher discards events. It is used when Kafka is disabled.
type NoopPublisher struct{}

// PublishReviewCreated does nothing.
func (NoopPublisher) PublishReviewCreated(context.Context, *domain.Review) error {
	return nil
}
