package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"risk-profile-service/internal/domain"
)

func TestGraphRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		GraphLoader: NewStaticGraphLoader(map[string]*domain.QuestionGraph{
			"risk": sampleGraph(),
		}),
	}
	repo := NewGraphRepository(loader, time.Minute)

	if _, err := repo.GetGraph(context.Background(), "risk"); err != nil {
		t.Fatalf("get graph: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetGraph(context.Background(), "risk"); err != nil {
		t.Fatalf("get graph 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestGraphRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		GraphLoader: NewStaticGraphLoader(map[string]*domain.QuestionGraph{
			"risk": sampleGraph(),
		}),
	}
	repo := NewGraphRepository(loader, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetGraph(context.Background(), "risk")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetGraph(context.Background(), "risk")
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.calls)
	}
}

func TestGraphRepositoryUnknown(t *testing.T) {
	repo := NewGraphRepository(NewStaticGraphLoader(nil), time.Minute)
	_, err := repo.GetGraph(context.Background(), "missing")
	if !errors.Is(err, domain.ErrQuestionnaireNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestChainLoaderFallsThrough(t *testing.T) {
	chain := ChainLoader{
		NewStaticGraphLoader(nil),
		NewStaticGraphLoader(map[string]*domain.QuestionGraph{"risk": sampleGraph()}),
	}
	g, err := chain.LoadGraph(context.Background(), "risk")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if g.InitialQuestionID != "q1" {
		t.Fatalf("unexpected graph %+v", g)
	}

	boom := errors.New("boom")
	chain = ChainLoader{failingLoader{err: boom}, NewStaticGraphLoader(map[string]*domain.QuestionGraph{"risk": sampleGraph()})}
	if _, err := chain.LoadGraph(context.Background(), "risk"); !errors.Is(err, boom) {
		t.Fatalf("expected loader error to stop the chain, got %v", err)
	}
}

type countingLoader struct {
	GraphLoader
	calls int
}

func (l *countingLoader) LoadGraph(ctx context.Context, questionnaireID string) (*domain.QuestionGraph, error) {
	l.calls++
	return l.GraphLoader.LoadGraph(ctx, questionnaireID)
}

type failingLoader struct {
	err error
}

func (l failingLoader) LoadGraph(context.Context, string) (*domain.QuestionGraph, error) {
	return nil, l.err
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
