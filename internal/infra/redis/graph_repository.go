package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"risk-profile-service/internal/domain"
)

// GraphLoader fetches a question graph from a backing store (file, document DB).
type GraphLoader interface {
	LoadGraph(ctx context.Context, questionnaireID string) (*domain.QuestionGraph, error)
}

// GraphRepository caches question graphs in Redis and falls back to a loader on cache miss.
// Graphs are stored as JSON: SET questionnaire:{id}:graph {json} EX ttl
type GraphRepository struct {
	client *redis.Client
	loader GraphLoader
	ttl    time.Duration
	log    *zap.Logger
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewGraphRepository(client *redis.Client, loader GraphLoader, ttl time.Duration, log *zap.Logger) *GraphRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &GraphRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *GraphRepository) GetGraph(ctx context.Context, questionnaireID string) (*domain.QuestionGraph, error) {
	if g, ok := r.fromCache(ctx, questionnaireID); ok {
		return g, nil
	}

	result, err, _ := r.sf.Do(questionnaireID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if g, ok := r.fromCache(ctx, questionnaireID); ok {
			return g, nil
		}

		graph, err := r.loader.LoadGraph(ctx, questionnaireID)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(graph)
		if err != nil {
			return nil, err
		}
		if err := r.client.Set(ctx, r.graphKey(questionnaireID), data, r.ttlWithJitter()).Err(); err != nil {
			r.log.Warn("cache question graph", zap.String("questionnaire", questionnaireID), zap.Error(err))
		}
		return graph, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.QuestionGraph), nil
}

// Invalidate drops the cached graph so the next read reloads it.
func (r *GraphRepository) Invalidate(ctx context.Context, questionnaireID string) error {
	return r.client.Del(ctx, r.graphKey(questionnaireID)).Err()
}

func (r *GraphRepository) fromCache(ctx context.Context, questionnaireID string) (*domain.QuestionGraph, bool) {
	data, err := r.client.Get(ctx, r.graphKey(questionnaireID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("read cached question graph", zap.String("questionnaire", questionnaireID), zap.Error(err))
		}
		return nil, false
	}
	var g domain.QuestionGraph
	if err := json.Unmarshal(data, &g); err != nil {
		r.log.Warn("decode cached question graph", zap.String("questionnaire", questionnaireID), zap.Error(err))
		return nil, false
	}
	return &g, true
}

func (r *GraphRepository) graphKey(questionnaireID string) string {
	return "questionnaire:" + questionnaireID + ":graph"
}

func (r *GraphRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
