package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/kirillkom/resume-ranker/internal/config"
	"github.com/kirillkom/resume-ranker/internal/core/scoring"
	"github.com/kirillkom/resume-ranker/internal/core/usecase"
	"github.com/kirillkom/resume-ranker/internal/infrastructure/extractor"
	"github.com/kirillkom/resume-ranker/internal/infrastructure/resilience"
	"github.com/kirillkom/resume-ranker/internal/infrastructure/stopwords"
	"github.com/kirillkom/resume-ranker/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Executor  *resilience.Executor
	Stopwords *stopwords.Provider
	Ranker    *usecase.RankUseCase
	Comparer  *usecase.CompareUseCase
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	storage, err := localfs.New(filepath.Dir(cfg.StopwordsPath))
	if err != nil {
		return nil, fmt.Errorf("init resource storage: %w", err)
	}

	executor := resilience.NewExecutor(cfg.Resilience(), logger)
	loader := stopwords.NewLoader(storage, stopwords.Options{
		Key:      filepath.Base(cfg.StopwordsPath),
		URL:      cfg.StopwordsURL,
		Client:   &http.Client{Timeout: time.Duration(cfg.StopwordsFetchTimeoutSeconds) * time.Second},
		Executor: executor,
		Logger:   logger,
	})
	provider := stopwords.NewProvider(loader)

	// Load eagerly so the first request does not pay for the download.
	// A failure here is retried lazily on the first scoring call.
	if _, err := provider.Stopwords(ctx); err != nil {
		logger.Warn("stopwords_warmup_failed", "error", err)
	}

	dispatcher := extractor.NewDispatcher()
	vectorizer := scoring.NewVectorizer(scoring.VectorizerOptions{
		Lowercase:      cfg.VocabularyLowercase,
		MinTokenLength: cfg.VocabularyMinTokenLength,
	})

	return &App{
		Config:    cfg,
		Executor:  executor,
		Stopwords: provider,
		Ranker:    usecase.NewRankUseCase(provider, vectorizer, dispatcher, logger),
		Comparer:  usecase.NewCompareUseCase(provider, dispatcher, logger),
	}, nil
}
