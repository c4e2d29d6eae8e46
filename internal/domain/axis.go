package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Axis is one dimension of the radar score vector.
type Axis string

const (
	AxisAggressiveness Axis = "aggressiveness"
	AxisStability      Axis = "stability"
	AxisProfitability  Axis = "profitability"
	AxisLiteracy       Axis = "literacy"
	AxisRationality    Axis = "rationality"
)

// AllAxes returns the axes in chart order.
func AllAxes() []Axis {
	return []Axis{
		AxisAggressiveness,
		AxisStability,
		AxisProfitability,
		AxisLiteracy,
		AxisRationality,
	}
}

var axisLabels = map[Axis]string{
	AxisAggressiveness: "Aggressiveness",
	AxisStability:      "Stability",
	AxisProfitability:  "Profitability",
	AxisLiteracy:       "Financial literacy",
	AxisRationality:    "Rationality",
}

// Question resources authored for the first web release keyed radar scores by
// their Japanese chart labels.
var axisAliases = map[string]Axis{
	"積極性":     AxisAggressiveness,
	"安定性":     AxisStability,
	"収益性":     AxisProfitability,
	"金融リテラシー": AxisLiteracy,
	"合理性":     AxisRationality,
}

// Label returns the display name of the axis.
func (a Axis) Label() string {
	if l, ok := axisLabels[a]; ok {
		return l
	}
	return string(a)
}

// Valid reports whether a is part of the closed axis set.
func (a Axis) Valid() bool {
	_, ok := axisLabels[a]
	return ok
}

// ParseAxis resolves a canonical identifier or a legacy alias.
func ParseAxis(raw string) (Axis, error) {
	key := strings.TrimSpace(raw)
	if a := Axis(strings.ToLower(key)); a.Valid() {
		return a, nil
	}
	if a, ok := axisAliases[key]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAxis, raw)
}

// RadarScore maps axes to numeric contributions.
type RadarScore map[Axis]float64

// Get returns the value of an axis, zero when absent.
func (s RadarScore) Get(a Axis) float64 {
	return s[a]
}

// Clone returns an independent copy.
func (s RadarScore) Clone() RadarScore {
	out := make(RadarScore, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// UnmarshalJSON accepts alias keys and rejects axes outside the closed set.
func (s *RadarScore) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return s.fromRaw(raw)
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML resources.
func (s *RadarScore) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]float64
	if err := unmarshal(&raw); err != nil {
		return err
	}
	return s.fromRaw(raw)
}

func (s *RadarScore) fromRaw(raw map[string]float64) error {
	out := make(RadarScore, len(raw))
	for k, v := range raw {
		a, err := ParseAxis(k)
		if err != nil {
			return err
		}
		out[a] += v
	}
	*s = out
	return nil
}
