package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"risk-profile-service/internal/domain"
	"risk-profile-service/internal/questionnaire"
)

// GraphLoader loads question resources stored as JSONB in Postgres.
type GraphLoader struct {
	pool *pgxpool.Pool
}

func NewGraphLoader(pool *pgxpool.Pool) *GraphLoader {
	return &GraphLoader{pool: pool}
}

func (l *GraphLoader) LoadGraph(ctx context.Context, questionnaireID string) (*domain.QuestionGraph, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM questionnaires WHERE id=$1`, questionnaireID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuestionnaireNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load questionnaire: %w", err)
	}
	g, err := questionnaire.Decode(raw, questionnaire.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("decode questionnaire %q: %w", questionnaireID, err)
	}
	g.ID = questionnaireID
	return g, nil
}

// Save validates a JSON question resource and upserts it.
func (l *GraphLoader) Save(ctx context.Context, questionnaireID string, raw []byte) error {
	if _, err := questionnaire.Decode(raw, questionnaire.FormatJSON); err != nil {
		return err
	}
	_, err := l.pool.Exec(ctx, `INSERT INTO questionnaires (id, data) VALUES ($1, $2::jsonb)
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, questionnaireID, string(raw))
	if err != nil {
		return fmt.Errorf("save questionnaire: %w", err)
	}
	return nil
}
