// Package questionnaire decodes the static question resource into a validated
// domain.QuestionGraph. Both the branching graph layout and the older flat
// list layout are accepted, in JSON or YAML.
package questionnaire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"risk-profile-service/internal/domain"
)

// Format is the encoding of a question resource.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type document struct {
	InitialQuestionID string          `json:"initialQuestionId"`
	Questions         json.RawMessage `json:"questions"`
}

type yamlDocument struct {
	InitialQuestionID string    `yaml:"initialQuestionId"`
	Questions         yaml.Node `yaml:"questions"`
}

// Decode parses and validates a question resource.
func Decode(data []byte, format Format) (*domain.QuestionGraph, error) {
	var (
		g   *domain.QuestionGraph
		err error
	)
	if format == FormatYAML {
		g, err = decodeYAML(data)
	} else {
		g, err = decodeJSON(data)
	}
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateGraph(g); err != nil {
		return nil, err
	}
	return g, nil
}

// DecodeFile reads and decodes the resource at path. The graph id defaults to
// the file name without extension.
func DecodeFile(path string) (*domain.QuestionGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questionnaire: %w", err)
	}
	g, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return g, nil
}

func decodeJSON(data []byte) (*domain.QuestionGraph, error) {
	if err := validateShape(data); err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode questionnaire: %w", err)
	}

	if trimmed := bytes.TrimSpace(doc.Questions); len(trimmed) > 0 && trimmed[0] == '[' {
		var list []domain.Question
		if err := json.Unmarshal(doc.Questions, &list); err != nil {
			return nil, fmt.Errorf("decode question list: %w", err)
		}
		return linearGraph(list), nil
	}
	var questions map[string]domain.Question
	if err := json.Unmarshal(doc.Questions, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return keyedGraph(doc.InitialQuestionID, questions), nil
}

// decodeYAML checks the shape on the JSON rendering, then decodes the YAML
// itself so bare scalars such as numeric ids land in string fields.
func decodeYAML(data []byte) (*domain.QuestionGraph, error) {
	raw, err := YAMLToJSON(data)
	if err != nil {
		return nil, err
	}
	if err := validateShape(raw); err != nil {
		return nil, err
	}
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if doc.Questions.Kind == yaml.SequenceNode {
		var list []domain.Question
		if err := doc.Questions.Decode(&list); err != nil {
			return nil, fmt.Errorf("decode question list: %w", err)
		}
		return linearGraph(list), nil
	}
	var questions map[string]domain.Question
	if err := doc.Questions.Decode(&questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return keyedGraph(doc.InitialQuestionID, questions), nil
}

func keyedGraph(initial string, questions map[string]domain.Question) *domain.QuestionGraph {
	for id, q := range questions {
		q.ID = id
		questions[id] = q
	}
	return &domain.QuestionGraph{
		InitialQuestionID: initial,
		Questions:         questions,
	}
}

// linearGraph turns an ordered list into a chain q1 -> q2 -> ... where every
// option of the last question ends the questionnaire.
func linearGraph(list []domain.Question) *domain.QuestionGraph {
	questions := make(map[string]domain.Question, len(list))
	for i, q := range list {
		q.ID = linearID(i)
		next := ""
		if i+1 < len(list) {
			next = linearID(i + 1)
		}
		opts := make([]domain.Option, len(q.Options))
		for j, opt := range q.Options {
			opt.NextQuestionID = next
			opts[j] = opt
		}
		q.Options = opts
		questions[q.ID] = q
	}
	return &domain.QuestionGraph{
		InitialQuestionID: linearID(0),
		Questions:         questions,
	}
}

func linearID(i int) string {
	return fmt.Sprintf("q%d", i+1)
}

// stringFields hold ids or display text; YAML authors may leave them bare.
var stringFields = map[string]bool{
	"initialQuestionId": true,
	"nextQuestionId":    true,
	"text":              true,
}

// YAMLToJSON re-encodes a YAML document as JSON. Mapping keys become strings
// and bare scalars under id and text fields are quoted, matching how the
// typed YAML decode reads them.
func YAMLToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	out, err := json.Marshal(jsonValue(v))
	if err != nil {
		return nil, fmt.Errorf("convert yaml: %w", err)
	}
	return out, nil
}

func jsonValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = jsonField(k, e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			key := fmt.Sprint(k)
			out[key] = jsonField(key, e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = jsonValue(e)
		}
		return t
	default:
		return v
	}
}

func jsonField(key string, v any) any {
	if !stringFields[key] {
		return jsonValue(v)
	}
	switch v.(type) {
	case nil, string, map[string]any, map[any]any, []any:
		return jsonValue(v)
	default:
		return fmt.Sprint(v)
	}
}
