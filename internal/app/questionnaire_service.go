package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"risk-profile-service/internal/domain"
)

// SessionRepository abstracts where live questionnaire sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// GraphRepository loads question graphs (from cache/backing store).
type GraphRepository interface {
	GetGraph(ctx context.Context, questionnaireID string) (*domain.QuestionGraph, error)
}

// View is what a presenter needs to render the current step.
type View struct {
	SessionID  string   `json:"sessionId"`
	QuestionID string   `json:"questionId,omitempty"`
	Text       string   `json:"text,omitempty"`
	Options    []string `json:"options,omitempty"`
	Selected   string   `json:"selected,omitempty"`
	Progress   Progress `json:"progress"`
	CanGoBack  bool     `json:"canGoBack"`
	CanAdvance bool     `json:"canAdvance"`
	Completed  bool     `json:"completed"`
}

// QuestionnaireService hosts traversal sessions for presenters.
type QuestionnaireService struct {
	sessions SessionRepository
	graphs   GraphRepository
	log      *zap.Logger
}

func NewQuestionnaireService(store SessionRepository, graphs GraphRepository, log *zap.Logger) *QuestionnaireService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuestionnaireService{sessions: store, graphs: graphs, log: log}
}

// Start loads the questionnaire and opens a new session on its first question.
func (s *QuestionnaireService) Start(ctx context.Context, questionnaireID string) (View, error) {
	graph, err := s.graphs.GetGraph(ctx, questionnaireID)
	if err != nil {
		s.log.Error("failed to load questions",
			zap.String("questionnaire", questionnaireID),
			zap.Error(err))
		return View{}, fmt.Errorf("load questionnaire %q: %w", questionnaireID, err)
	}

	session := NewSession(uuid.NewString(), questionnaireID)
	if err := session.traversal.Begin(graph); err != nil {
		return View{}, err
	}
	s.sessions.Put(session)
	s.log.Debug("session started",
		zap.String("session", session.id),
		zap.String("questionnaire", questionnaireID))
	return session.View(), nil
}

// Answer records the option chosen for the current question. Unknown options leave the view unchanged.
func (s *QuestionnaireService) Answer(_ context.Context, sessionID, questionID, optionText string) (View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.traversal.RecordAnswer(questionID, optionText)
	return session.viewLocked(), nil
}

// Next advances the session. When the chosen option ends the questionnaire
// the answers are classified, the session is discarded and the diagnosis is
// returned.
func (s *QuestionnaireService) Next(_ context.Context, sessionID string) (View, *domain.Diagnosis, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, nil, domain.ErrSessionNotFound
	}

	session.mu.Lock()
	step, err := session.traversal.Advance()
	view := session.viewLocked()
	answers := session.traversal.Answers()
	session.mu.Unlock()

	if err != nil {
		s.log.Warn("dangling successor in question graph",
			zap.String("session", sessionID),
			zap.String("questionnaire", session.questionnaireID),
			zap.Error(err))
		return view, nil, err
	}
	if step != StepCompleted {
		return view, nil, nil
	}

	s.sessions.Delete(sessionID)
	diagnosis, err := Diagnose(answers)
	if err != nil {
		return view, nil, err
	}
	s.log.Info("questionnaire completed",
		zap.String("session", sessionID),
		zap.String("questionnaire", session.questionnaireID),
		zap.String("result", string(diagnosis.ResultType.Kind)),
		zap.Duration("elapsed", session.now().Sub(session.startedAt)))
	return view, &diagnosis, nil
}

// Back returns to the previous question, resurfacing its stored answer.
func (s *QuestionnaireService) Back(_ context.Context, sessionID string) (View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.traversal.Retreat()
	return session.viewLocked(), nil
}

// Current returns the view of a live session.
func (s *QuestionnaireService) Current(_ context.Context, sessionID string) (View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	return session.View(), nil
}

// Abandon drops a session without classifying it.
func (s *QuestionnaireService) Abandon(_ context.Context, sessionID string) {
	if _, ok := s.sessions.Get(sessionID); !ok {
		return
	}
	s.sessions.Delete(sessionID)
	s.log.Debug("session abandoned", zap.String("session", sessionID))
}

// Session is the in-memory state of one user's run through a questionnaire.
type Session struct {
	id              string
	questionnaireID string
	startedAt       time.Time
	now             func() time.Time

	mu        sync.Mutex
	traversal *Traversal
}

// NewSession is exported for infrastructure layers and tests.
func NewSession(id, questionnaireID string) *Session {
	return NewSessionWithClock(id, questionnaireID, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(id, questionnaireID string, now func() time.Time) *Session {
	return &Session{
		id:              id,
		questionnaireID: questionnaireID,
		startedAt:       now(),
		now:             now,
		traversal:       NewTraversal(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// QuestionnaireID returns the questionnaire the session runs.
func (s *Session) QuestionnaireID() string {
	return s.questionnaireID
}

// View snapshots the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	t := s.traversal
	v := View{
		SessionID:  s.id,
		Progress:   t.Progress(),
		CanGoBack:  t.CanRetreat(),
		CanAdvance: t.CanAdvance(),
		Completed:  t.Status() == StatusCompleted,
	}
	q, ok := t.Current()
	if !ok {
		return v
	}
	v.QuestionID = q.ID
	v.Text = q.Text
	v.Options = make([]string, len(q.Options))
	for i, opt := range q.Options {
		v.Options[i] = opt.Text
	}
	v.Selected, _ = t.Selected(q.ID)
	return v
}
