package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"
)

// rabbitMQPublisher implements SessionEventPublisher over one channel and
// queue. Assumes the channel is already open.
type rabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
	logger    *zap.Logger
}

var _ interfaces.SessionEventPublisher = (*rabbitMQPublisher)(nil)

// NewRabbitMQSessionEventPublisher opens a channel, declares the durable
// lifecycle queue and returns a publisher bound to it.
func NewRabbitMQSessionEventPublisher(conn *amqp.Connection, queueName string, logger *zap.Logger) (interfaces.SessionEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("session event publisher: failed to open channel: %w", err)
	}

	// Declaring on the publisher side keeps startup order between services
	// irrelevant. Parameters must match the consumer's declaration.
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("session event publisher: failed to declare queue '%s': %w", queueName, err)
	}

	log := logger.Named("SessionEventPublisher")
	log.Info("Session event queue declared", zap.String("queue", queueName))
	return &rabbitMQPublisher{channel: ch, queueName: queueName, logger: log}, nil
}

// PublishSessionEnded publishes a terminal session event.
func (p *rabbitMQPublisher) PublishSessionEnded(ctx context.Context, event models.SessionEndedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session ended event for session %d: %w", event.SessionID, err)
	}

	if err := p.publishMessage(ctx, body); err != nil {
		return fmt.Errorf("failed to publish session ended event for session %d: %w", event.SessionID, err)
	}

	p.logger.Info("Session ended event published",
		zap.Int64("sessionID", event.SessionID),
		zap.String("status", string(event.Status)))
	return nil
}

func (p *rabbitMQPublisher) publishMessage(ctx context.Context, body []byte) error {
	if p.channel == nil {
		return errors.New("rabbitmq channel is not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // exchange (default)
			p.queueName, // routing key (queue name)
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        "survival-server",
			},
		)
		if err == nil {
			return nil
		}
		p.logger.Warn("Publish attempt failed",
			zap.Int("attempt", attempt),
			zap.String("queue", p.queueName),
			zap.Error(err))
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	return fmt.Errorf("failed to publish to queue %s after retries: %w", p.queueName, err)
}
