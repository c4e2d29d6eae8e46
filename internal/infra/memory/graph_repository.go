package memory

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"risk-profile-service/internal/domain"
)

// GraphLoader fetches a question graph from a backing store (file, document DB).
type GraphLoader interface {
	LoadGraph(ctx context.Context, questionnaireID string) (*domain.QuestionGraph, error)
}

// GraphRepository caches question graphs with TTL to avoid repeated loads.
// A zero TTL caches forever; graphs are immutable once loaded.
type GraphRepository struct {
	loader GraphLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedGraph
}

type cachedGraph struct {
	graph     *domain.QuestionGraph
	expiresAt time.Time
}

func NewGraphRepository(loader GraphLoader, ttl time.Duration) *GraphRepository {
	return &GraphRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedGraph),
	}
}

func (r *GraphRepository) GetGraph(ctx context.Context, questionnaireID string) (*domain.QuestionGraph, error) {
	if g, ok := r.lookup(questionnaireID); ok {
		return g, nil
	}

	result, err, _ := r.sf.Do(questionnaireID, func() (interface{}, error) {
		if g, ok := r.lookup(questionnaireID); ok {
			return g, nil
		}

		graph, err := r.loader.LoadGraph(ctx, questionnaireID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[questionnaireID] = cachedGraph{
			graph:     graph,
			expiresAt: r.expiry(),
		}
		r.mu.Unlock()
		return graph, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.QuestionGraph), nil
}

func (r *GraphRepository) lookup(questionnaireID string) (*domain.QuestionGraph, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[questionnaireID]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(now) {
		return nil, false
	}
	return entry.graph, true
}

func (r *GraphRepository) expiry() time.Time {
	if r.ttl <= 0 {
		return time.Time{}
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	jitter := time.Duration(r.rnd.Int63n(jitterMax + 1))
	r.rndMu.Unlock()
	return r.clock().Add(r.ttl + jitter)
}

// StaticGraphLoader is a loader backed by an in-memory map (useful for tests/demos).
type StaticGraphLoader struct {
	graphs map[string]*domain.QuestionGraph
}

func NewStaticGraphLoader(graphs map[string]*domain.QuestionGraph) *StaticGraphLoader {
	return &StaticGraphLoader{graphs: graphs}
}

func (l *StaticGraphLoader) LoadGraph(_ context.Context, questionnaireID string) (*domain.QuestionGraph, error) {
	if g, ok := l.graphs[questionnaireID]; ok {
		return g, nil
	}
	return nil, domain.ErrQuestionnaireNotFound
}

// ChainLoader tries each loader in turn, moving on only when a loader does
// not know the questionnaire.
type ChainLoader []GraphLoader

func (c ChainLoader) LoadGraph(ctx context.Context, questionnaireID string) (*domain.QuestionGraph, error) {
	for _, l := range c {
		g, err := l.LoadGraph(ctx, questionnaireID)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, domain.ErrQuestionnaireNotFound) {
			return nil, err
		}
	}
	return nil, domain.ErrQuestionnaireNotFound
}
