package app

import "risk-profile-service/internal/domain"

// RadarFullMark is the outer ring of the radar chart.
const RadarFullMark = 15

// rule is one row of the classification table.
type rule struct {
	name  string
	kind  domain.ResultKind
	match func(s domain.RadarScore) bool
}

// classificationRules are evaluated top to bottom; the first match wins.
// The capital-preservation row is shadowed by stability-first and never
// fires.
// TODO: confirm whether the two stability thresholds were meant to be swapped.
var classificationRules = []rule{
	{
		name: "high-risk-seeker",
		kind: domain.VeryAggressive,
		match: func(s domain.RadarScore) bool {
			return s.Get(domain.AxisAggressiveness) >= 10 && s.Get(domain.AxisProfitability) >= 8
		},
	},
	{
		name: "growth-seeker",
		kind: domain.Aggressive,
		match: func(s domain.RadarScore) bool {
			return s.Get(domain.AxisAggressiveness) >= 7 && s.Get(domain.AxisProfitability) >= 5
		},
	},
	{
		name: "stability-first",
		kind: domain.Conservative,
		match: func(s domain.RadarScore) bool {
			return s.Get(domain.AxisStability) >= 7
		},
	},
	{
		name: "capital-preservation",
		kind: domain.UltraConservative,
		match: func(s domain.RadarScore) bool {
			return s.Get(domain.AxisStability) >= 10
		},
	},
}

// Aggregate sums the radar contributions of every answer per axis.
func Aggregate(answers map[string]domain.Answer) domain.RadarScore {
	out := make(domain.RadarScore)
	for _, a := range answers {
		for axis, v := range a.RadarScore {
			out[axis] += v
		}
	}
	return out
}

// Classify maps an aggregated score vector to its base profile.
func Classify(s domain.RadarScore) domain.ResultKind {
	for _, r := range classificationRules {
		if r.match(s) {
			return r.kind
		}
	}
	return domain.Moderate
}

// Adjust applies the literacy/rationality downgrades. The two steps run in
// sequence, so a veryAggressive profile may drop two levels.
func Adjust(kind domain.ResultKind, s domain.RadarScore) domain.ResultKind {
	literacy := s.Get(domain.AxisLiteracy)
	rationality := s.Get(domain.AxisRationality)

	if kind == domain.VeryAggressive && (literacy < 4 || rationality < 4) {
		kind = domain.Aggressive
	}
	if kind == domain.Aggressive && (literacy < 3 || rationality < 3) {
		kind = domain.Moderate
	}
	return kind
}

// SelectPortfolio returns the recommendation for a final profile.
func SelectPortfolio(kind domain.ResultKind, s domain.RadarScore) domain.Portfolio {
	if kind == domain.VeryAggressive {
		if s.Get(domain.AxisLiteracy) >= 4 && s.Get(domain.AxisRationality) >= 4 {
			return portfolioAdvanced
		}
		return portfolioGuided
	}
	if p, ok := portfolios[kind]; ok {
		return p
	}
	return portfolioStandard
}

// RadarChart builds chart rows for the axes present in s, in chart order.
func RadarChart(s domain.RadarScore) []domain.RadarPoint {
	points := make([]domain.RadarPoint, 0, len(s))
	for _, axis := range domain.AllAxes() {
		v, ok := s[axis]
		if !ok {
			continue
		}
		points = append(points, domain.RadarPoint{
			Axis:     axis,
			Label:    axis.Label(),
			Value:    v,
			FullMark: RadarFullMark,
		})
	}
	return points
}

// Evaluate classifies an aggregated vector. It is a pure function of s.
func Evaluate(s domain.RadarScore) domain.Diagnosis {
	kind := Adjust(Classify(s), s)
	return domain.Diagnosis{
		ResultType: LookupResultType(kind),
		Portfolio:  SelectPortfolio(kind, s),
		Scores:     s.Clone(),
		Radar:      RadarChart(s),
	}
}

// Diagnose aggregates the handed-off answers and classifies them.
func Diagnose(answers map[string]domain.Answer) (domain.Diagnosis, error) {
	if len(answers) == 0 {
		return domain.Diagnosis{}, domain.ErrNoAnswers
	}
	return Evaluate(Aggregate(answers)), nil
}
