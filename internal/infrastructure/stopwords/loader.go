package stopwords

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
	"github.com/kirillkom/resume-ranker/internal/core/ports"
	"github.com/kirillkom/resume-ranker/internal/infrastructure/resilience"
)

const maxListBytes = 1 << 20

type Options struct {
	// Key is the resource name inside storage.
	Key string
	// URL is fetched when the resource is missing locally. Empty disables fetching.
	URL      string
	Client   *http.Client
	Executor *resilience.Executor
	Logger   *slog.Logger
}

// Loader resolves the stopword list from local storage, then the configured
// URL (persisting the download), then the built-in list.
type Loader struct {
	storage  ports.ObjectStorage
	key      string
	url      string
	client   *http.Client
	executor *resilience.Executor
	logger   *slog.Logger
}

func NewLoader(storage ports.ObjectStorage, opts Options) *Loader {
	key := strings.TrimSpace(opts.Key)
	if key == "" || key == "." || key == "/" {
		key = "corpora/stopwords/english"
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	executor := opts.Executor
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig(), logger)
	}
	return &Loader{
		storage:  storage,
		key:      key,
		url:      strings.TrimSpace(opts.URL),
		client:   client,
		executor: executor,
		logger:   logger,
	}
}

func (l *Loader) Load(ctx context.Context) (domain.StopwordSet, error) {
	if l.storage != nil {
		set, err := l.loadLocal(ctx)
		switch {
		case err == nil:
			l.logger.Info("stopwords_loaded", "source", "storage", "key", l.key, "count", len(set))
			return set, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	if l.url != "" {
		set, err := l.download(ctx)
		if err == nil {
			l.logger.Info("stopwords_loaded", "source", "download", "url", l.url, "count", len(set))
			return set, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		l.logger.Warn("stopwords_download_failed", "url", l.url, "error", err)
	}

	set := domain.NewStopwordSet(english)
	l.logger.Info("stopwords_loaded", "source", "builtin", "count", len(set))
	return set, nil
}

func (l *Loader) loadLocal(ctx context.Context) (domain.StopwordSet, error) {
	rc, err := l.storage.Open(ctx, l.key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	words, err := parseList(io.LimitReader(rc, maxListBytes))
	if err != nil {
		return nil, fmt.Errorf("parse stopword file: %w", err)
	}
	if len(words) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "load stopwords", fmt.Errorf("stopword file %q is empty", l.key))
	}
	return domain.NewStopwordSet(words), nil
}

func (l *Loader) download(ctx context.Context) (domain.StopwordSet, error) {
	body, err := resilience.Run(ctx, l.executor, "stopwords.fetch", l.fetch, classifyFetchError)
	if err != nil {
		if resilience.IsCircuitOpen(err) {
			return nil, domain.WrapError(domain.ErrTemporary, "fetch stopwords", err)
		}
		return nil, err
	}

	words, err := parseList(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse downloaded stopwords: %w", err)
	}
	if len(words) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "fetch stopwords", errors.New("downloaded list is empty"))
	}

	if l.storage != nil {
		if err := l.storage.Save(ctx, l.key, bytes.NewReader(body)); err != nil {
			l.logger.Warn("stopwords_persist_failed", "key", l.key, "error", err)
		}
	}
	return domain.NewStopwordSet(words), nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build stopwords request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get stopwords: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &statusError{code: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListBytes))
	if err != nil {
		return nil, fmt.Errorf("read stopwords body: %w", err)
	}
	return body, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("stopwords endpoint returned status %d", e.code)
}

func classifyFetchError(err error) resilience.ErrorClassification {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		transient := statusErr.code >= 500 || statusErr.code == http.StatusTooManyRequests
		return resilience.ErrorClassification{Retryable: transient, RecordFailure: transient}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

// parseList reads one word per line; blank lines and '#' comments are skipped.
func parseList(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
