package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"risk-profile-service/internal/domain"
)

func scores(aggr, stab, prof, lit, rat float64) domain.RadarScore {
	return domain.RadarScore{
		domain.AxisAggressiveness: aggr,
		domain.AxisStability:      stab,
		domain.AxisProfitability:  prof,
		domain.AxisLiteracy:       lit,
		domain.AxisRationality:    rat,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   domain.RadarScore
		want domain.ResultKind
	}{
		{"very aggressive at thresholds", scores(10, 0, 8, 0, 0), domain.VeryAggressive},
		{"aggressiveness without profitability", scores(10, 0, 7, 0, 0), domain.Aggressive},
		{"aggressive at thresholds", scores(7, 0, 5, 0, 0), domain.Aggressive},
		{"aggressive below profitability", scores(7, 0, 4, 0, 0), domain.Moderate},
		{"aggressive wins over stability", scores(7, 12, 5, 0, 0), domain.Aggressive},
		{"conservative at threshold", scores(0, 7, 0, 0, 0), domain.Conservative},
		{"stability just below", scores(6, 6.9, 4, 0, 0), domain.Moderate},
		{"empty vector", domain.RadarScore{}, domain.Moderate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestClassify_UltraConservativeShadowed(t *testing.T) {
	// stability >= 10 also satisfies the earlier stability >= 7 row.
	assert.Equal(t, domain.Conservative, Classify(domain.RadarScore{domain.AxisStability: 10}))
	assert.Equal(t, domain.Conservative, Classify(domain.RadarScore{domain.AxisStability: 25}))

	for _, r := range classificationRules {
		if r.kind == domain.UltraConservative {
			assert.True(t, r.match(domain.RadarScore{domain.AxisStability: 10}))
		}
	}
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name string
		kind domain.ResultKind
		in   domain.RadarScore
		want domain.ResultKind
	}{
		{"literate very aggressive kept", domain.VeryAggressive, scores(10, 0, 8, 4, 4), domain.VeryAggressive},
		{"one step down", domain.VeryAggressive, scores(10, 0, 8, 3, 4), domain.Aggressive},
		{"cascade two steps", domain.VeryAggressive, scores(10, 0, 8, 2, 2), domain.Moderate},
		{"cascade on rationality", domain.VeryAggressive, scores(10, 0, 8, 5, 2), domain.Moderate},
		{"aggressive kept at 3", domain.Aggressive, scores(7, 0, 5, 3, 3), domain.Aggressive},
		{"aggressive down", domain.Aggressive, scores(7, 0, 5, 2.5, 3), domain.Moderate},
		{"conservative untouched", domain.Conservative, scores(0, 7, 0, 0, 0), domain.Conservative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Adjust(tt.kind, tt.in))
		})
	}
}

func TestEvaluate_DowngradeCascade(t *testing.T) {
	s := domain.RadarScore{
		domain.AxisAggressiveness: 10,
		domain.AxisProfitability:  8,
		domain.AxisLiteracy:       2,
		domain.AxisRationality:    2,
	}
	require.Equal(t, domain.VeryAggressive, Classify(s))

	d := Evaluate(s)
	assert.Equal(t, domain.Moderate, d.ResultType.Kind)
	assert.Equal(t, portfolios[domain.Moderate], d.Portfolio)
}

func TestEvaluate_AggressiveBoundary(t *testing.T) {
	d := Evaluate(scores(7, 0, 5, 5, 5))
	assert.Equal(t, domain.Aggressive, d.ResultType.Kind)
	assert.Equal(t, "Growth portfolio", d.Portfolio.Title)
}

func TestSelectPortfolio_VeryAggressiveFork(t *testing.T) {
	assert.Equal(t, portfolioAdvanced, SelectPortfolio(domain.VeryAggressive, scores(10, 0, 8, 4, 4)))
	assert.Equal(t, portfolioGuided, SelectPortfolio(domain.VeryAggressive, scores(10, 0, 8, 3.9, 9)))
	assert.Equal(t, portfolioStandard, SelectPortfolio(domain.ResultKind("unknown"), scores(0, 0, 0, 0, 0)))
	assert.Equal(t, portfolios[domain.UltraConservative], SelectPortfolio(domain.UltraConservative, nil))
}

func TestEvaluate_IsPure(t *testing.T) {
	s := scores(11, 2, 9, 6, 5)
	first := Evaluate(s)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Evaluate(s))
	}
	assert.Equal(t, domain.VeryAggressive, first.ResultType.Kind)
	assert.Equal(t, portfolioAdvanced, first.Portfolio)

	first.Scores[domain.AxisLiteracy] = 0
	assert.Equal(t, 6.0, s[domain.AxisLiteracy], "diagnosis must not alias the input")
}

func TestAggregate_OrderIndependent(t *testing.T) {
	answers := map[string]domain.Answer{
		"a": {QuestionID: "a", RadarScore: domain.RadarScore{domain.AxisStability: 2, domain.AxisLiteracy: 1}},
		"b": {QuestionID: "b", RadarScore: domain.RadarScore{domain.AxisStability: 3}},
		"c": {QuestionID: "c", RadarScore: domain.RadarScore{domain.AxisAggressiveness: 4, domain.AxisLiteracy: 2}},
		"d": {QuestionID: "d"},
	}
	want := domain.RadarScore{
		domain.AxisStability:      5,
		domain.AxisLiteracy:       3,
		domain.AxisAggressiveness: 4,
	}

	// Map iteration order is randomised; repeated runs cover different fold orders.
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, Aggregate(answers))
	}

	tr := startedTraversal(t)
	require.True(t, tr.RecordAnswer("start", "Bold"))
	_, _ = tr.Advance()
	require.True(t, tr.RecordAnswer("bold", "Done"))
	assert.Equal(t, domain.RadarScore{domain.AxisAggressiveness: 5, domain.AxisProfitability: 4}, Aggregate(tr.Answers()))
}

func TestRadarChart_MatchesAggregate(t *testing.T) {
	s := domain.RadarScore{domain.AxisRationality: 3, domain.AxisAggressiveness: 6}
	d := Evaluate(s)

	require.Len(t, d.Radar, 2)
	assert.Equal(t, domain.AxisAggressiveness, d.Radar[0].Axis)
	assert.Equal(t, domain.AxisRationality, d.Radar[1].Axis)
	for _, p := range d.Radar {
		assert.Equal(t, d.Scores[p.Axis], p.Value)
		assert.Equal(t, float64(RadarFullMark), p.FullMark)
		assert.Equal(t, p.Axis.Label(), p.Label)
	}
}

func TestDiagnose_EmptyAnswers(t *testing.T) {
	_, err := Diagnose(nil)
	assert.ErrorIs(t, err, domain.ErrNoAnswers)
	_, err = Diagnose(map[string]domain.Answer{})
	assert.ErrorIs(t, err, domain.ErrNoAnswers)
}

func TestDiagnose_FromAnswers(t *testing.T) {
	d, err := Diagnose(map[string]domain.Answer{
		"q1": {RadarScore: domain.RadarScore{domain.AxisStability: 4}},
		"q2": {RadarScore: domain.RadarScore{domain.AxisStability: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Conservative, d.ResultType.Kind)
	assert.Equal(t, "Stable Balancer", d.ResultType.Name)
	assert.Equal(t, "Stability-focused portfolio", d.Portfolio.Title)
}
