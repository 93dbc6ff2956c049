// Package worker consumes placed orders from the queue and advances them
// through the fulfillment statuses.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/careplus/pharmacy-api/internal/kvstore"
	"github.com/careplus/pharmacy-api/internal/model"
)

const (
	orderQueueName = "orders"
	dlxExchange    = "orders.dlx"
	dlqQueueName   = "orders.dlq"
	idempotencyTTL = 24 * time.Hour
)

type FulfillmentWorker struct {
	channel       *amqp.Channel
	store         kvstore.Store
	redisClient   *redis.Client
	log           *slog.Logger
	deliveryDelay time.Duration
	done          chan struct{}
}

func NewFulfillmentWorker(
	ch *amqp.Channel,
	store kvstore.Store,
	redisClient *redis.Client,
	log *slog.Logger,
	deliveryDelay time.Duration,
) *FulfillmentWorker {
	return &FulfillmentWorker{
		channel:       ch,
		store:         store,
		redisClient:   redisClient,
		log:           log,
		deliveryDelay: deliveryDelay,
		done:          make(chan struct{}),
	}
}

// SetupRabbitMQ declares exchanges, queues, and bindings (DLX/DLQ).
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, orderQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": orderQueueName,
	}); err != nil {
		return fmt.Errorf("declare order queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *FulfillmentWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("fulfillment worker started")
	return nil
}

func (w *FulfillmentWorker) Stop() { close(w.done) }

func (w *FulfillmentWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var orderMsg model.OrderMessage
	if err := json.Unmarshal(msg.Body, &orderMsg); err != nil {
		w.log.Error("unmarshal order message", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("order_id", orderMsg.OrderID, "user_id", orderMsg.UserID)

	idempotencyKey := "order_processed:" + strconv.FormatInt(orderMsg.OrderID, 10)
	if w.redisClient != nil {
		exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
		if err != nil {
			log.Error("check idempotency key", "error", err)
			_ = msg.Nack(false, true)
			return
		}
		if exists > 0 {
			log.Info("order already processed, skipping")
			_ = msg.Ack(false)
			return
		}
	}

	if err := w.ProcessOrder(ctx, orderMsg.UserID, orderMsg.OrderID); err != nil {
		log.Error("process order failed", "error", err)
		_ = msg.Nack(false, false) // to DLQ
		return
	}

	if w.redisClient != nil {
		if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
			log.Error("set idempotency key", "error", err)
		}
	}

	_ = msg.Ack(false)
	log.Info("order processed successfully")
}

// ProcessOrder advances a pending order to processing and, after the
// delivery delay, to delivered. Orders already past pending are left
// untouched.
func (w *FulfillmentWorker) ProcessOrder(ctx context.Context, userID, orderID int64) error {
	order, err := w.setStatus(ctx, userID, orderID, model.OrderStatusPending, model.OrderStatusProcessing)
	if err != nil {
		return err
	}
	if order == nil {
		// Not pending anymore; nothing to do.
		return nil
	}

	if w.deliveryDelay > 0 {
		select {
		case <-time.After(w.deliveryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	_, err = w.setStatus(ctx, userID, orderID, model.OrderStatusProcessing, model.OrderStatusDelivered)
	return err
}

// setStatus transitions the order from one status to the next inside a
// whole-document read-modify-write of the user's order list. Returns nil
// without error when the order exists but is not in the expected status.
func (w *FulfillmentWorker) setStatus(ctx context.Context, userID, orderID int64, from, to model.OrderStatus) (*model.Order, error) {
	key := kvstore.Key("orders", userID)
	orders := kvstore.Load(ctx, w.store, w.log, key, []model.Order(nil))
	for i := range orders {
		if orders[i].ID != orderID {
			continue
		}
		if orders[i].Status != from {
			return nil, nil
		}
		orders[i].Status = to
		kvstore.Save(ctx, w.store, w.log, key, orders)
		return &orders[i], nil
	}
	return nil, fmt.Errorf("order not found: %d", orderID)
}
