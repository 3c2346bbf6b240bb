package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/phambaophuc/outfit-ml/internal/models"
	"github.com/redis/go-redis/v9"
)

const jobKeyPrefix = "ml_job:"

func (s *StorageService) GetFromCache(ctx context.Context, cacheKey string) ([]byte, error) {
	data, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	return data, nil
}

func (s *StorageService) SetCache(ctx context.Context, cacheKey string, data []byte) error {
	return s.redisClient.Set(ctx, cacheKey, data, s.cacheDuration).Err()
}

// SaveJob stores the job under its id for the configured job TTL.
func (s *StorageService) SaveJob(ctx context.Context, job *models.InferenceJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return s.redisClient.Set(ctx, jobKeyPrefix+job.ID, data, s.jobTTL).Err()
}

// GetJob returns nil and no error when the job is unknown or expired.
func (s *StorageService) GetJob(ctx context.Context, id string) (*models.InferenceJob, error) {
	data, err := s.GetFromCache(ctx, jobKeyPrefix+id)
	if err != nil || data == nil {
		return nil, err
	}

	var job models.InferenceJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job %s: %w", id, err)
	}
	return &job, nil
}
