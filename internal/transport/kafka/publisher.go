package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/asquebay/meal-ticket-service/internal/model"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher публикует принятые заказы для кухни
type Publisher struct {
	writer messageWriter
	log    *slog.Logger
}

// NewPublisher создает продюсера событий о принятых заказах
// ключ сообщения — UID заказа, поэтому события одного заказа попадают в одну партицию
func NewPublisher(brokers []string, topic string, log *slog.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		log: log.With(slog.String("component", "kafka_publisher")),
	}
}

// PublishAccepted отправляет событие о принятом заказе
func (p *Publisher) PublishAccepted(ctx context.Context, event model.AcceptedEvent) error {
	const op = "transport.kafka.Publisher.PublishAccepted"

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal event: %w", op, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderUID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Debug("accepted order published", slog.String("order_uid", event.OrderUID))
	return nil
}

// Close дожидается отправки буферизованных сообщений и закрывает продюсера
func (p *Publisher) Close() error {
	p.log.Info("closing kafka publisher")
	return p.writer.Close()
}
