package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/asquebay/meal-ticket-service/internal/model"
	"github.com/asquebay/meal-ticket-service/internal/repository/postgres"
	"github.com/asquebay/meal-ticket-service/internal/service"

	"github.com/segmentio/kafka-go"
)

// OrderSubmitter абстрагирует консьюмер от конкретной реализации сервисного слоя
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, req model.SubmitRequest) (model.Order, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	retryBackoff    = time.Second
	maxRetryBackoff = 30 * time.Second
)

// Consumer читает заявки на заказ с кухонных терминалов
type Consumer struct {
	reader  messageReader
	service OrderSubmitter
	log     *slog.Logger
	backoff time.Duration
}

// NewConsumer создает новый экземпляр консьюмера
func NewConsumer(brokers []string, topic, groupID string, service OrderSubmitter, log *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
	})

	return &Consumer{
		reader:  reader,
		service: service,
		log:     log.With(slog.String("component", "kafka_consumer")),
		backoff: retryBackoff,
	}
}

// Run запускает цикл чтения сообщений из Kafka
// эта функция блокирующая, поэтому она запускается в отдельной горутине
func (c *Consumer) Run(ctx context.Context) {
	c.log.Info("kafka consumer started")

	for {
		select {
		case <-ctx.Done():
			c.log.Info("context cancelled, stopping consumer")
			return
		default:
		}

		// FetchMessage блокирует до тех пор, пока не придет новое сообщение или не возникнет ошибка
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			if errors.Is(err, io.EOF) {
				c.log.Info("kafka reader closed")
				return
			}
			c.log.Error("failed to fetch message", slog.String("error", err.Error()))
			continue
		}

		c.log.Debug("received message",
			slog.String("topic", msg.Topic),
			slog.Int("partition", msg.Partition),
			slog.Int64("offset", msg.Offset),
		)

		// следующий коммит в партиции перекрыл бы и это сообщение,
		// поэтому дальше не читаем, пока оно не обработано
		if err := c.process(ctx, msg); err != nil {
			c.log.Info("context cancelled, message left uncommitted",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
			return
		}

		// offset фиксируем только после успешной обработки
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("failed to commit message", slog.String("error", err.Error()))
		}
	}
}

// process обрабатывает сообщение, повторяя попытки с растущей паузой
// возвращает ошибку только при отмене контекста
func (c *Consumer) process(ctx context.Context, msg kafka.Message) error {
	backoff := c.backoff
	for {
		err := c.handleMessage(ctx, msg)
		if err == nil {
			return nil
		}

		c.log.Error("failed to handle message, retrying",
			slog.String("error", err.Error()),
			slog.Int64("offset", msg.Offset),
			slog.Duration("backoff", backoff),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff = min(backoff*2, maxRetryBackoff)
	}
}

// handleMessage парсит и обрабатывает одну заявку
// ошибкой считается только то, что имеет смысл повторить: сбой хранилища
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	var req model.SubmitRequest

	if err := json.Unmarshal(msg.Value, &req); err != nil {
		c.log.Warn("failed to unmarshal message, skipping", slog.String("error", err.Error()))
		return nil
	}
	req.Source = model.SourceKitchen

	order, err := c.service.SubmitOrder(ctx, req)
	switch {
	case err == nil:
		c.log.Info("kitchen order accepted", slog.String("order_uid", order.OrderUID))
		return nil
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrOrderRejected),
		errors.Is(err, postgres.ErrShiftNotFound):
		// повтор даст тот же результат
		c.log.Warn("kitchen order rejected, skipping",
			slog.String("error", err.Error()),
			slog.Int64("shift_id", req.ShiftID),
		)
		return nil
	default:
		return err
	}
}

// Close останавливает консьюмер
func (c *Consumer) Close() error {
	c.log.Info("closing kafka consumer")
	return c.reader.Close()
}
