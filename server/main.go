package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phambaophuc/outfit-ml/internal/config"
	"github.com/phambaophuc/outfit-ml/internal/http/handlers"
	"github.com/phambaophuc/outfit-ml/internal/http/routes"
	"github.com/phambaophuc/outfit-ml/internal/logging"
	"github.com/phambaophuc/outfit-ml/internal/services/classifier"
	"github.com/phambaophuc/outfit-ml/internal/services/gpu"
	"github.com/phambaophuc/outfit-ml/internal/services/inference"
	"github.com/phambaophuc/outfit-ml/internal/services/processor"
	"github.com/phambaophuc/outfit-ml/internal/services/queue"
	"github.com/phambaophuc/outfit-ml/internal/services/storage"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.Server.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	store, err := storage.NewStorageService(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}
	defer store.Close()

	svc := newInferenceService(cfg, store, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Continue without queue service for synchronous endpoints
	var jobs handlers.JobQueue
	q, err := queue.NewQueueService(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName, svc, store, logger)
	if err != nil {
		logger.Warn("Failed to initialize queue service", zap.Error(err))
	} else {
		defer q.Close()
		startWorkers(ctx, q, cfg.RabbitMQ.Workers, logger)
		jobs = q
	}

	handler := handlers.NewInferenceHandler(svc, jobs, store, logger)
	router := routes.NewRouter(handler, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	logger.Info("Starting server",
		zap.String("addr", server.Addr),
		zap.String("background_backend", cfg.ML.BackgroundBackend))
	if err := serveHTTPServer(server, cfg.Server.ShutdownTimeout, logger); err != nil {
		logger.Error("Server failed", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newInferenceService(cfg *config.Config, store *storage.StorageService, logger *zap.Logger) *inference.Service {
	probe := gpu.NewProbe(cfg.ML.GPUCommand, cfg.ML.GPUProbeTimeout, logger)

	primary := classifier.Timed(classifier.NewPrimaryStub(), "fashionclip", logger)
	fallback := classifier.Timed(classifier.NewVisionStub(), "vlm", logger)
	router := classifier.NewRouter(primary, fallback, cfg.ML.ConfidenceThreshold, store, logger)

	return inference.NewService(
		probe,
		primary,
		fallback,
		router,
		newBackgroundRemover(cfg, store, logger),
		cfg.ML.BatchWorkers,
		logger,
	)
}

func newBackgroundRemover(cfg *config.Config, store *storage.StorageService, logger *zap.Logger) processor.BackgroundRemover {
	switch cfg.ML.BackgroundBackend {
	case config.BackendLocal:
		imageProcessor := processor.NewImageProcessor(cfg.ML.MaxImageEdge, cfg.ML.MaxPixels, cfg.ML.ColorTolerance)
		return processor.NewSegmentingRemover(imageProcessor, store, store, cfg.Storage.MaxFileSize, logger)
	case config.BackendStub:
	default:
		logger.Warn("Unknown background backend, using stub",
			zap.String("backend", cfg.ML.BackgroundBackend))
	}
	return processor.NewStubRemover(logger)
}

func startWorkers(ctx context.Context, q *queue.QueueService, workers int, logger *zap.Logger) {
	for i := 1; i <= workers; i++ {
		if err := q.StartWorker(ctx, i); err != nil {
			logger.Error("Failed to start worker", zap.Int("worker_id", i), zap.Error(err))
		}
	}
}

func serveHTTPServer(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	return serveHTTPServerWithOptions(server, shutdownTimeout, logger, nil, nil)
}

func serveHTTPServerWithOptions(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger, listener net.Listener, signalCh <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if listener != nil {
			err = server.Serve(listener)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	var (
		sigCh       <-chan os.Signal
		stopSignals func()
	)

	if signalCh != nil {
		sigCh = signalCh
		stopSignals = func() {}
	} else {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		sigCh = ch
		stopSignals = func() {
			signal.Stop(ch)
		}
	}
	defer stopSignals()

	select {
	case err := <-errCh:
		return err
	case sig, ok := <-sigCh:
		if !ok {
			return <-errCh
		}
		logger.Info("Shutting down server...", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return <-errCh
	}
}
