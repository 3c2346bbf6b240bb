package queue

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/phambaophuc/outfit-ml/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// JobStore persists job state between submission and completion.
type JobStore interface {
	SaveJob(ctx context.Context, job *models.InferenceJob) error
	GetJob(ctx context.Context, id string) (*models.InferenceJob, error)
}

// Runner executes one inference operation by job kind.
type Runner interface {
	Run(ctx context.Context, kind models.JobKind, imageURL string) (interface{}, error)
}

// channel is the subset of *amqp.Channel used by the service.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	QueueInspect(name string) (amqp.Queue, error)
	Close() error
}

type QueueService struct {
	conn      *amqp.Connection
	channel   channel
	logger    *zap.Logger
	queueName string
	runner    Runner
	store     JobStore
	workers   atomic.Int64
}

func NewQueueService(
	rabbitmqURL string,
	queueName string,
	runner Runner,
	store JobStore,
	logger *zap.Logger,
) (*QueueService, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

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
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// One unacked inference job per worker at a time.
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	return &QueueService{
		conn:      conn,
		channel:   ch,
		logger:    logger.Named("queue"),
		queueName: queueName,
		runner:    runner,
		store:     store,
	}, nil
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
	return nil
}
