package nats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

func runServer(t *testing.T) *server.Server {
	t.Helper()
	srv, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: server.RANDOM_PORT, NoLog: true, NoSigs: true})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	go srv.Start()
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatalf("nats server not ready")
	}
	t.Cleanup(srv.Shutdown)
	return srv
}

func TestServeAnswersInFlightRequestsOnShutdown(t *testing.T) {
	const (
		subject  = "resumes.rank"
		requests = 5
	)
	srv := runServer(t)

	queue, err := NewWithOptions(srv.ClientURL(), Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("NewWithOptions() error = %v", err)
	}
	defer queue.Close()

	started := make(chan struct{}, 1)
	var handled atomic.Int32
	handler := func(_ context.Context, data []byte) ([]byte, error) {
		if string(data) == "warmup" {
			return data, nil
		}
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(100 * time.Millisecond)
		handled.Add(1)
		return append([]byte("ok:"), data...), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	served := make(chan error, 1)
	go func() {
		served <- queue.Serve(ctx, "workers", map[string]Handler{subject: handler})
	}()

	requester, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("nats.Connect() error = %v", err)
	}
	defer requester.Close()

	deadline := time.Now().Add(5 * time.Second)
	for {
		_, err := requester.Request(subject, []byte("warmup"), time.Second)
		if err == nil {
			break
		}
		if !errors.Is(err, nats.ErrNoResponders) || time.Now().After(deadline) {
			t.Fatalf("warmup Request() error = %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	inbox := nats.NewInbox()
	replies, err := requester.SubscribeSync(inbox)
	if err != nil {
		t.Fatalf("SubscribeSync() error = %v", err)
	}
	for i := 0; i < requests; i++ {
		if err := requester.PublishRequest(subject, inbox, []byte(fmt.Sprintf("req-%d", i))); err != nil {
			t.Fatalf("PublishRequest() error = %v", err)
		}
	}
	if err := requester.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatalf("handler never started")
	}
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-served:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("Serve() did not return after drain")
	}
	if got := handled.Load(); got != requests {
		t.Fatalf("handled %d requests before Serve returned, want %d", got, requests)
	}

	for i := 0; i < requests; i++ {
		msg, err := replies.NextMsg(2 * time.Second)
		if err != nil {
			t.Fatalf("reply %d: NextMsg() error = %v", i, err)
		}
		if msg.Header.Get(requestIDHeader) == "" {
			t.Fatalf("reply %d has no request id header", i)
		}
	}
}

func TestServeReturnsWhenCanceledWithoutTraffic(t *testing.T) {
	srv := runServer(t)
	queue, err := NewWithOptions(srv.ClientURL(), Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("NewWithOptions() error = %v", err)
	}
	defer queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan error, 1)
	go func() {
		done <- queue.Serve(ctx, "workers", map[string]Handler{
			"resumes.compare": func(context.Context, []byte) ([]byte, error) { return nil, nil },
		})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve() did not return")
	}
}
