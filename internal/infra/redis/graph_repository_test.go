package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"risk-profile-service/internal/domain"
	"risk-profile-service/internal/infra/memory"
)

func TestGraphRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		GraphLoader: memory.NewStaticGraphLoader(map[string]*domain.QuestionGraph{
			"risk": sampleGraph(),
		}),
	}
	repo := NewGraphRepository(client, loader, time.Minute, nil)

	_, err = repo.GetGraph(context.Background(), "risk")
	if err != nil {
		t.Fatalf("get graph: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("questionnaire:risk:graph") {
		t.Fatalf("expected graph cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	g, err := repo.GetGraph(context.Background(), "risk")
	if err != nil {
		t.Fatalf("get cached graph: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	opt := g.Questions["q1"].Options[1]
	if opt.NextQuestionID != "" || opt.RadarScore.Get(domain.AxisAggressiveness) != 3 {
		t.Fatalf("cached graph lost data: %+v", opt)
	}

	if err := repo.Invalidate(context.Background(), "risk"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.GetGraph(context.Background(), "risk")
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls)
	}
}

func TestGraphRepositoryIgnoresCorruptCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("questionnaire:risk:graph", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	loader := &countingLoader{
		GraphLoader: memory.NewStaticGraphLoader(map[string]*domain.QuestionGraph{
			"risk": sampleGraph(),
		}),
	}
	repo := NewGraphRepository(newClient(mr), loader, time.Minute, nil)
	if _, err := repo.GetGraph(context.Background(), "risk"); err != nil {
		t.Fatalf("get graph: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected fallback to loader, calls=%d", loader.calls)
	}
}

type countingLoader struct {
	memory.GraphLoader
	calls int
}

func (l *countingLoader) LoadGraph(ctx context.Context, questionnaireID string) (*domain.QuestionGraph, error) {
	l.calls++
	return l.GraphLoader.LoadGraph(ctx, questionnaireID)
}

func sampleGraph() *domain.QuestionGraph {
	return &domain.QuestionGraph{
		ID:                "risk",
		InitialQuestionID: "q1",
		Questions: map[string]domain.Question{
			"q1": {
				ID:   "q1",
				Text: "How would you react to a 20% drop?",
				Options: []domain.Option{
					{Text: "Sell", RadarScore: domain.RadarScore{domain.AxisStability: 3}},
					{Text: "Buy more", RadarScore: domain.RadarScore{domain.AxisAggressiveness: 3}},
				},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
