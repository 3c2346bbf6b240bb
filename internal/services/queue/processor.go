package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/phambaophuc/outfit-ml/internal/models"
)

// processJob runs the job and returns its serialized record.
func (q *QueueService) processJob(ctx context.Context, job *models.InferenceJob) (json.RawMessage, error) {
	result, err := q.runner.Run(ctx, job.Kind, job.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", job.Kind, err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s result: %w", job.Kind, err)
	}
	return data, nil
}
