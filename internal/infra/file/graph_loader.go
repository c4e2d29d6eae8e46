package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"risk-profile-service/internal/domain"
	"risk-profile-service/internal/questionnaire"
)

var extensions = []string{".json", ".yaml", ".yml"}

// GraphLoader reads question resources from disk. Explicit paths win over
// files found in the directory as <id>.json, <id>.yaml or <id>.yml.
type GraphLoader struct {
	dir   string
	paths map[string]string
}

func NewGraphLoader(dir string, paths map[string]string) *GraphLoader {
	return &GraphLoader{dir: dir, paths: paths}
}

func (l *GraphLoader) LoadGraph(ctx context.Context, questionnaireID string) (*domain.QuestionGraph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.resolve(questionnaireID)
	if err != nil {
		return nil, err
	}
	g, err := questionnaire.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("load questionnaire %q: %w", questionnaireID, err)
	}
	g.ID = questionnaireID
	return g, nil
}

func (l *GraphLoader) resolve(questionnaireID string) (string, error) {
	if p, ok := l.paths[questionnaireID]; ok {
		return p, nil
	}
	if l.dir == "" || questionnaireID != filepath.Base(questionnaireID) {
		return "", domain.ErrQuestionnaireNotFound
	}
	for _, ext := range extensions {
		p := filepath.Join(l.dir, questionnaireID+ext)
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", domain.ErrQuestionnaireNotFound
}
