package stopwords

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
)

type countingSource struct {
	calls atomic.Int32
	errs  []error
}

func (s *countingSource) Load(context.Context) (domain.StopwordSet, error) {
	n := int(s.calls.Add(1))
	time.Sleep(5 * time.Millisecond)
	if n <= len(s.errs) && s.errs[n-1] != nil {
		return nil, s.errs[n-1]
	}
	return domain.NewStopwordSet([]string{"the"}), nil
}

func TestProviderLoadsOnceUnderConcurrency(t *testing.T) {
	src := &countingSource{}
	p := NewProvider(src)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			set, err := p.Stopwords(context.Background())
			if err != nil {
				t.Errorf("Stopwords() error = %v", err)
				return
			}
			if !set.Contains("THE") {
				t.Errorf("expected loaded set")
			}
		}()
	}
	wg.Wait()

	if got := src.calls.Load(); got != 1 {
		t.Fatalf("expected a single load, got %d", got)
	}
}

func TestProviderRetriesAfterFailedLoad(t *testing.T) {
	src := &countingSource{errs: []error{errors.New("disk unavailable")}}
	p := NewProvider(src)

	if _, err := p.Stopwords(context.Background()); err == nil {
		t.Fatalf("expected first load to fail")
	}
	if _, err := p.Stopwords(context.Background()); err != nil {
		t.Fatalf("Stopwords() second call error = %v", err)
	}
	if got := src.calls.Load(); got != 2 {
		t.Fatalf("expected 2 loads, got %d", got)
	}
}

func TestBuiltinMatchesEnglishCorpus(t *testing.T) {
	set, err := Builtin().Stopwords(context.Background())
	if err != nil {
		t.Fatalf("Stopwords() error = %v", err)
	}
	if len(set) != 179 {
		t.Fatalf("expected 179 stopwords, got %d", len(set))
	}
	for _, w := range []string{"with", "for", "the", "wouldn't"} {
		if !set.Contains(w) {
			t.Fatalf("expected %q in builtin set", w)
		}
	}
}

type blockingSource struct {
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSource) Load(context.Context) (domain.StopwordSet, error) {
	close(s.entered)
	<-s.release
	return domain.NewStopwordSet([]string{"and"}), nil
}

func TestProviderWaiterHonoursOwnContext(t *testing.T) {
	src := &blockingSource{entered: make(chan struct{}), release: make(chan struct{})}
	p := NewProvider(src)

	first := make(chan error, 1)
	go func() {
		_, err := p.Stopwords(context.Background())
		first <- err
	}()
	<-src.entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	waited := make(chan error, 1)
	go func() {
		_, err := p.Stopwords(ctx)
		waited <- err
	}()

	select {
	case err := <-waited:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Stopwords() error = %v, want %v", err, context.DeadlineExceeded)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("waiter stayed blocked behind the running load")
	}

	close(src.release)
	if err := <-first; err != nil {
		t.Fatalf("Stopwords() first caller error = %v", err)
	}
	set, err := p.Stopwords(context.Background())
	if err != nil {
		t.Fatalf("Stopwords() after load error = %v", err)
	}
	if !set.Contains("and") {
		t.Fatalf("expected loaded set to be cached")
	}
}
