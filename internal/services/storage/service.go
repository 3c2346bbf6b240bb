package storage

import (
	"errors"
	"time"

	"github.com/phambaophuc/outfit-ml/internal/config"
	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"
)

var (
	ErrStorageNotConfigured = errors.New("supabase storage is not configured")
	ErrUnsupportedImageType = errors.New("unsupported image type")
)

type StorageService struct {
	sbClient      *storage_go.Client
	redisClient   *redis.Client
	bucket        string
	uploadPath    string
	allowedTypes  []string
	cacheDuration time.Duration
	jobTTL        time.Duration
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	var sbClient *storage_go.Client
	if cfg.Supabase.URL != "" {
		sbClient = storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	return &StorageService{
		sbClient:      sbClient,
		redisClient:   redisClient,
		bucket:        cfg.Supabase.BUCKET,
		uploadPath:    cfg.Storage.UploadPath,
		allowedTypes:  cfg.Storage.AllowedTypes,
		cacheDuration: cfg.Storage.CacheDuration,
		jobTTL:        cfg.Storage.JobTTL,
	}, nil
}

// Close releases the Redis connection pool.
func (s *StorageService) Close() error {
	return s.redisClient.Close()
}
