package domain

// Option is one selectable answer of a question.
type Option struct {
	Text       string     `json:"text" yaml:"text"`
	Score      float64    `json:"score,omitempty" yaml:"score,omitempty"` // legacy scalar weight, not used for classification
	RadarScore RadarScore `json:"radarScore,omitempty" yaml:"radarScore,omitempty"`
	// NextQuestionID is empty when choosing this option ends the questionnaire.
	NextQuestionID string `json:"nextQuestionId,omitempty" yaml:"nextQuestionId,omitempty"`
}

// Terminal reports whether picking the option completes the questionnaire.
func (o Option) Terminal() bool {
	return o.NextQuestionID == ""
}

// Question is a node of the questionnaire graph. Option text is unique within a question.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Text    string   `json:"text" yaml:"text"`
	Options []Option `json:"options" yaml:"options"`
}

// OptionIndex returns the position of the option with the given text, or -1.
func (q Question) OptionIndex(text string) int {
	for i := range q.Options {
		if q.Options[i].Text == text {
			return i
		}
	}
	return -1
}

// QuestionGraph is the immutable question set of one questionnaire.
type QuestionGraph struct {
	ID                string              `json:"id" yaml:"id"`
	InitialQuestionID string              `json:"initialQuestionId" yaml:"initialQuestionId"`
	Questions         map[string]Question `json:"questions" yaml:"questions"`
}

// Question looks up a question by id.
func (g *QuestionGraph) Question(id string) (Question, bool) {
	if g == nil {
		return Question{}, false
	}
	q, ok := g.Questions[id]
	return q, ok
}

// Answer is the recorded selection for one question. It keeps the chosen
// option's identity so navigation never has to re-match by score.
type Answer struct {
	QuestionID  string     `json:"questionId"`
	OptionIndex int        `json:"optionIndex"`
	OptionText  string     `json:"optionText"`
	Score       float64    `json:"score"`
	RadarScore  RadarScore `json:"radarScore"`
}

// ResultKind identifies one of the fixed investment profiles.
type ResultKind string

const (
	UltraConservative ResultKind = "ultraConservative"
	Conservative      ResultKind = "conservative"
	Moderate          ResultKind = "moderate"
	Aggressive        ResultKind = "aggressive"
	VeryAggressive    ResultKind = "veryAggressive"
)

// ResultType is the display record for a profile.
type ResultType struct {
	Kind        ResultKind `json:"kind"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
}

// Portfolio is a recommended allocation.
type Portfolio struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// RadarPoint is one row of the radar chart.
type RadarPoint struct {
	Axis     Axis    `json:"axis"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	FullMark float64 `json:"fullMark"`
}

// Diagnosis is the handoff record from classification to presentation.
// Radar is derived from Scores so the chart always matches the classification input.
type Diagnosis struct {
	ResultType ResultType   `json:"resultType"`
	Portfolio  Portfolio    `json:"portfolio"`
	Scores     RadarScore   `json:"scores"`
	Radar      []RadarPoint `json:"radar"`
}
