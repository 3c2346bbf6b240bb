package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/outfit-ml/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

var (
	ErrInvalidJobKind  = errors.New("invalid job kind")
	ErrMissingImageURL = errors.New("image_url is required for this job kind")
)

// SubmitJob records a pending job and publishes it for the workers.
func (q *QueueService) SubmitJob(ctx context.Context, kind models.JobKind, imageURL string) (*models.InferenceJob, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidJobKind, kind)
	}
	if kind.NeedsImage() && imageURL == "" {
		return nil, ErrMissingImageURL
	}

	job := &models.InferenceJob{
		ID:        uuid.New().String(),
		Kind:      kind,
		ImageURL:  imageURL,
		Status:    models.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := q.store.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	if err := q.PublishJob(ctx, job); err != nil {
		// The pending record would otherwise never be picked up.
		completedAt := time.Now().UTC()
		job.Status = models.StatusFailed
		job.Error = err.Error()
		job.CompletedAt = &completedAt
		q.storeJob(context.WithoutCancel(ctx), job)
		return nil, err
	}
	return job, nil
}

func (q *QueueService) PublishJob(ctx context.Context, job *models.InferenceJob) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = q.channel.Publish(
		"",          // exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         jobBytes,
			DeliveryMode: amqp.Persistent,
			MessageId:    job.ID,
			Type:         string(job.Kind),
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Info("Job published to queue",
		zap.String("job_id", job.ID),
		zap.String("kind", string(job.Kind)))
	return nil
}

// GetJob returns nil when the job is unknown or has expired.
func (q *QueueService) GetJob(ctx context.Context, id string) (*models.InferenceJob, error) {
	return q.store.GetJob(ctx, id)
}
