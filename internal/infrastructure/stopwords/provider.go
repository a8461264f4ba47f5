// Package stopwords owns the process-wide stopword set: it is loaded once on
// first use and shared read-only afterwards.
package stopwords

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/kirillkom/resume-ranker/internal/core/domain"
)

type source interface {
	Load(ctx context.Context) (domain.StopwordSet, error)
}

// Provider guards the one-time load. Concurrent callers share one load, and
// each of them stops waiting when its own ctx ends. A failed load is retried
// on the next call; a successful one is never repeated.
type Provider struct {
	src   source
	group singleflight.Group

	mu  sync.RWMutex
	set domain.StopwordSet
}

func NewProvider(src source) *Provider {
	return &Provider{src: src}
}

// NewStaticProvider returns a provider that is already initialised.
func NewStaticProvider(set domain.StopwordSet) *Provider {
	return &Provider{set: set}
}

// Builtin serves the embedded English list without touching disk or network.
func Builtin() *Provider {
	return NewStaticProvider(domain.NewStopwordSet(english))
}

func (p *Provider) Stopwords(ctx context.Context) (domain.StopwordSet, error) {
	if set := p.cached(); set != nil {
		return set, nil
	}
	if p.src == nil {
		return nil, fmt.Errorf("stopwords: no source configured")
	}

	// The shared load outlives any single waiter.
	loadCtx := context.WithoutCancel(ctx)
	result := p.group.DoChan("stopwords", func() (any, error) {
		if set := p.cached(); set != nil {
			return set, nil
		}
		set, err := p.src.Load(loadCtx)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.set = set
		p.mu.Unlock()
		return set, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, fmt.Errorf("load stopwords: %w", res.Err)
		}
		return res.Val.(domain.StopwordSet), nil
	}
}

func (p *Provider) cached() domain.StopwordSet {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.set
}
