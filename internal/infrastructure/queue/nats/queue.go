package nats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/kirillkom/resume-ranker/internal/infrastructure/resilience"
)

const requestIDHeader = "X-Request-Id"

// Handler turns a request payload into a reply. A non-nil failure means the
// reply describes an error; the reply is sent either way.
type Handler func(ctx context.Context, data []byte) (reply []byte, failure error)

// Observer receives per-message timings. WorkerMetrics satisfies it.
type Observer interface {
	StartMessage()
	FinishMessage(service, subject string, duration time.Duration, err error)
}

type Queue struct {
	conn     *nats.Conn
	service  string
	executor *resilience.Executor
	observer Observer
	logger   *slog.Logger
	closed   chan struct{}
}

type Options struct {
	Service              string
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	DrainTimeout         time.Duration
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
	Observer             Observer
	Logger               *slog.Logger
}

func New(url string) (*Queue, error) {
	return NewWithOptions(url, Options{})
}

func NewWithOptions(url string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}
	drainTimeout := options.DrainTimeout
	if drainTimeout <= 0 {
		drainTimeout = 30 * time.Second
	}
	service := options.Service
	if service == "" {
		service = "resume-ranker-worker"
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	closed := make(chan struct{})
	conn, err := nats.Connect(
		url,
		nats.Name(service),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DrainTimeout(drainTimeout),
		nats.ClosedHandler(func(_ *nats.Conn) {
			close(closed)
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			logger.Error("nats_async_error", "subject", subject, "error", err)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:     conn,
		service:  service,
		executor: options.ResilienceExecutor,
		observer: options.Observer,
		logger:   logger,
		closed:   closed,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

// Serve answers requests on every subject in routes as a member of
// queueGroup until ctx is canceled. It then drains the connection: messages
// already delivered are still answered, and Serve returns once the
// connection is closed.
func (q *Queue) Serve(ctx context.Context, queueGroup string, routes map[string]Handler) error {
	msgCtx := context.WithoutCancel(ctx)
	for subject, handler := range routes {
		_, err := q.conn.QueueSubscribe(subject, queueGroup, func(msg *nats.Msg) {
			q.handle(msgCtx, msg, handler)
		})
		if err != nil {
			return fmt.Errorf("nats subscribe %s: %w", subject, err)
		}
		q.logger.Info("nats_subscribed", "subject", subject, "queue_group", queueGroup)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	q.logger.Info("nats_draining")
	if err := q.conn.Drain(); err != nil {
		return fmt.Errorf("nats drain: %w", err)
	}
	<-q.closed
	return nil
}

func (q *Queue) handle(ctx context.Context, msg *nats.Msg, handler Handler) {
	requestID := requestIDFromMsg(msg)
	if msg.Reply == "" {
		q.logger.Warn("nats_request_without_reply", "subject", msg.Subject, "request_id", requestID)
		return
	}

	start := time.Now()
	if q.observer != nil {
		q.observer.StartMessage()
	}

	handlerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	reply, failure := handler(handlerCtx, msg.Data)
	if failure != nil {
		q.logger.Warn("nats_request_failed", "subject", msg.Subject, "request_id", requestID, "error", failure)
	}

	err := q.respond(handlerCtx, msg, requestID, reply)
	if err != nil {
		q.logger.Error("nats_reply_failed", "subject", msg.Subject, "request_id", requestID, "error", err)
	}
	if q.observer != nil {
		if err == nil {
			err = failure
		}
		q.observer.FinishMessage(q.service, msg.Subject, time.Since(start), err)
	}
}

func (q *Queue) respond(ctx context.Context, msg *nats.Msg, requestID string, data []byte) error {
	out := nats.NewMsg(msg.Reply)
	out.Data = data
	out.Header.Set(requestIDHeader, requestID)

	call := func(_ context.Context) error {
		if err := msg.RespondMsg(out); err != nil {
			return fmt.Errorf("nats respond: %w", err)
		}
		return nil
	}

	var err error
	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.respond", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	return wrapTemporaryIfNeeded(err)
}

func requestIDFromMsg(msg *nats.Msg) string {
	if msg.Header != nil {
		if id := strings.TrimSpace(msg.Header.Get(requestIDHeader)); id != "" {
			return id
		}
	}
	return uuid.NewString()
}
