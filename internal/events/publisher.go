package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/62String/devicerent-sub000/internal/models"
)

// RentalEventsTopic carries one message per rent/return action.
const RentalEventsTopic = "rental-events"

// RentalEvent is the published form of a ledger entry.
type RentalEvent struct {
	SerialNumber string              `json:"serial_number"`
	UserID       string              `json:"user_id"`
	Action       models.RentalAction `json:"action"`
	Timestamp    time.Time           `json:"timestamp"`
	ModelName    string              `json:"model_name"`
	Remark       string              `json:"remark,omitempty"`
}

// RentalPublisher publishes rental events for downstream consumers
// (reporting, notifications). Publishing is best-effort: a failed publish
// never fails the rental operation.
type RentalPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewKafkaRentalPublisher publishes to Kafka when brokers are configured.
func NewKafkaRentalPublisher(brokers []string, logger *slog.Logger) (*RentalPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}

	return &RentalPublisher{publisher: publisher, logger: logger}, nil
}

// NewLocalRentalPublisher uses an in-process pub/sub when no broker is
// configured (development, tests).
func NewLocalRentalPublisher(logger *slog.Logger) *RentalPublisher {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
	return &RentalPublisher{publisher: pubSub, logger: logger}
}

// Publish emits a rental event. Errors are logged, not propagated.
func (p *RentalPublisher) Publish(event RentalEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal rental event", "error", err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.publisher.Publish(RentalEventsTopic, msg); err != nil {
		p.logger.Error("publish rental event",
			"error", err,
			"serial_number", event.SerialNumber,
			"action", event.Action,
		)
	}
}

func (p *RentalPublisher) Close() error {
	return p.publisher.Close()
}
