package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/docinsight/internal/config"
	"github.com/kirillkom/docinsight/internal/core/ports"
	"github.com/kirillkom/docinsight/internal/core/usecase"
	"github.com/kirillkom/docinsight/internal/infrastructure/extractor"
	"github.com/kirillkom/docinsight/internal/infrastructure/llm/openai"
	"github.com/kirillkom/docinsight/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/docinsight/internal/infrastructure/storage/s3"
	"github.com/kirillkom/docinsight/internal/observability/metrics"
)

// App holds everything the API binary needs after wiring.
type App struct {
	Config    config.Config
	Metrics   *metrics.HTTPServerMetrics
	Processor ports.TaskProcessor
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}

	store, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init blob store: %w", err)
	}

	m := metrics.NewHTTPServerMetrics(service)

	completer := openai.New(openai.Options{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: time.Duration(cfg.OpenAITimeoutSeconds) * time.Second,
	}, func(model string, promptTokens, completionTokens int) {
		m.RecordTokenUsage(service, model, promptTokens, completionTokens)
	})

	processor := usecase.NewProcessTaskUseCase(
		store,
		extractor.NewRegistry(),
		completer,
		usecase.TextLimits{
			Default:     cfg.MaxTextLength,
			Translation: cfg.TranslationMaxTextLength,
		},
	)

	return &App{
		Config:    cfg,
		Metrics:   m,
		Processor: processor,
	}, nil
}

func newBlobStore(ctx context.Context, cfg config.Config) (ports.BlobStore, error) {
	switch cfg.StorageBackend {
	case "s3":
		if cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are not set")
		}
		return s3.New(ctx, s3.Options{
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
		})
	case "localfs":
		return localfs.New(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
