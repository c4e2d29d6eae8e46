package app

import (
	"fmt"

	"risk-profile-service/internal/domain"
)

// Status is the lifecycle stage of a traversal.
type Status int

const (
	StatusLoading Status = iota
	StatusActive
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Step is the outcome of Advance.
type Step int

const (
	// StepIgnored means the traversal is not active.
	StepIgnored Step = iota
	// StepNoAnswer means the current question has no recorded answer.
	StepNoAnswer
	// StepMoved means the traversal moved to the successor question.
	StepMoved
	// StepCompleted means a terminating option was chosen.
	StepCompleted
	// StepBrokenLink means the chosen option points at a question missing
	// from the graph. Advance also returns ErrQuestionNotFound.
	StepBrokenLink
)

// Progress is a display estimate: branches differ in length, so Current
// may never equal Total.
type Progress struct {
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// Traversal walks one user through a question graph. It is not safe for
// concurrent use; callers serialise access.
type Traversal struct {
	graph   *domain.QuestionGraph
	status  Status
	current string
	history []string
	answers map[string]domain.Answer
}

// NewTraversal returns a traversal waiting for its graph.
func NewTraversal() *Traversal {
	return &Traversal{
		status:  StatusLoading,
		answers: make(map[string]domain.Answer),
	}
}

// Begin moves a loading traversal onto the graph's initial question.
func (t *Traversal) Begin(g *domain.QuestionGraph) error {
	if t.status != StatusLoading {
		return domain.ErrAlreadyStarted
	}
	if g == nil {
		return fmt.Errorf("%w: graph is nil", domain.ErrInvalidGraph)
	}
	if _, ok := g.Question(g.InitialQuestionID); !ok {
		return fmt.Errorf("initial question %q: %w", g.InitialQuestionID, domain.ErrQuestionNotFound)
	}
	t.graph = g
	t.current = g.InitialQuestionID
	t.history = []string{g.InitialQuestionID}
	t.status = StatusActive
	return nil
}

// Status returns the lifecycle stage.
func (t *Traversal) Status() Status {
	return t.status
}

// Current returns the question being presented.
func (t *Traversal) Current() (domain.Question, bool) {
	if t.status == StatusLoading {
		return domain.Question{}, false
	}
	return t.graph.Question(t.current)
}

// History returns a copy of the visited question ids.
func (t *Traversal) History() []string {
	return append([]string(nil), t.history...)
}

// RecordAnswer selects the option with the given text on the current
// question. Unknown options, other questions and inactive traversals are
// ignored and report false.
func (t *Traversal) RecordAnswer(questionID, optionText string) bool {
	if t.status != StatusActive || questionID != t.current {
		return false
	}
	q, ok := t.graph.Question(questionID)
	if !ok {
		return false
	}
	idx := q.OptionIndex(optionText)
	if idx < 0 {
		return false
	}
	opt := q.Options[idx]
	t.answers[questionID] = domain.Answer{
		QuestionID:  questionID,
		OptionIndex: idx,
		OptionText:  opt.Text,
		Score:       opt.Score,
		RadarScore:  opt.RadarScore.Clone(),
	}
	return true
}

// Selected returns the option text recorded for a question, if any.
func (t *Traversal) Selected(questionID string) (string, bool) {
	a, ok := t.answers[questionID]
	if !ok {
		return "", false
	}
	return a.OptionText, true
}

// Advance follows the recorded answer of the current question.
func (t *Traversal) Advance() (Step, error) {
	if t.status != StatusActive {
		return StepIgnored, nil
	}
	answer, ok := t.answers[t.current]
	if !ok {
		return StepNoAnswer, nil
	}
	q, ok := t.graph.Question(t.current)
	if !ok || answer.OptionIndex < 0 || answer.OptionIndex >= len(q.Options) {
		return StepNoAnswer, nil
	}

	opt := q.Options[answer.OptionIndex]
	if opt.Terminal() {
		t.status = StatusCompleted
		return StepCompleted, nil
	}
	if _, ok := t.graph.Question(opt.NextQuestionID); !ok {
		return StepBrokenLink, fmt.Errorf("question %q option %q -> %q: %w", t.current, opt.Text, opt.NextQuestionID, domain.ErrQuestionNotFound)
	}
	t.current = opt.NextQuestionID
	t.history = append(t.history, opt.NextQuestionID)
	return StepMoved, nil
}

// Retreat returns to the previously visited question. The answer given on
// the question being left is kept.
func (t *Traversal) Retreat() bool {
	if t.status != StatusActive || len(t.history) <= 1 {
		return false
	}
	t.history = t.history[:len(t.history)-1]
	t.current = t.history[len(t.history)-1]
	return true
}

// CanRetreat reports whether Retreat would move.
func (t *Traversal) CanRetreat() bool {
	return t.status == StatusActive && len(t.history) > 1
}

// CanAdvance reports whether the current question has an answer.
func (t *Traversal) CanAdvance() bool {
	if t.status != StatusActive {
		return false
	}
	_, ok := t.answers[t.current]
	return ok
}

// Progress estimates completion as visited questions over all questions.
func (t *Traversal) Progress() Progress {
	p := Progress{Current: len(t.history)}
	if t.graph != nil {
		p.Total = len(t.graph.Questions)
	}
	if p.Total > 0 {
		p.Percent = float64(p.Current) / float64(p.Total) * 100
	}
	if p.Percent < 0 {
		p.Percent = 0
	}
	if p.Percent > 100 {
		p.Percent = 100
	}
	return p
}

// Answers returns a copy of every recorded answer, including answers to
// questions that were later backed out of.
func (t *Traversal) Answers() map[string]domain.Answer {
	out := make(map[string]domain.Answer, len(t.answers))
	for k, v := range t.answers {
		out[k] = v
	}
	return out
}
