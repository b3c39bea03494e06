package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"safarihub/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPPublisher publishes booking events to a durable RabbitMQ queue.
type AMQPPublisher struct {
	pool      *ChannelPool
	queueName string
	logger    *zap.Logger
}

// NewAMQPPublisher wires a publisher over a fresh channel pool.
func NewAMQPPublisher(amqpURL, queueName string, logger *zap.Logger) (*AMQPPublisher, error) {
	pool, err := NewChannelPool(amqpURL, queueName, 4)
	if err != nil {
		return nil, err
	}
	return &AMQPPublisher{pool: pool, queueName: queueName, logger: logger}, nil
}

// Publish sends one event as a persistent JSON message.
func (p *AMQPPublisher) Publish(event models.BookingEvent) error {
	ch, err := p.pool.GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel from pool: %w", err)
	}
	defer p.pool.ReturnChannel(ch)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",          // exchange
		p.queueName, // routing key (queue name)
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published booking event",
		zap.String("type", event.Type),
		zap.String("bookingID", event.BookingID))
	return nil
}

// Close releases the underlying channel pool.
func (p *AMQPPublisher) Close() {
	p.pool.Close()
}
