package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		raw  string
		want Axis
	}{
		{"aggressiveness", AxisAggressiveness},
		{" Stability ", AxisStability},
		{"積極性", AxisAggressiveness},
		{"安定性", AxisStability},
		{"収益性", AxisProfitability},
		{"金融リテラシー", AxisLiteracy},
		{"合理性", AxisRationality},
	}
	for _, tt := range tests {
		got, err := ParseAxis(tt.raw)
		if err != nil {
			t.Fatalf("ParseAxis(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("ParseAxis(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}

	if _, err := ParseAxis("luck"); !errors.Is(err, ErrUnknownAxis) {
		t.Fatalf("expected ErrUnknownAxis, got %v", err)
	}
}

func TestRadarScoreUnmarshalJSON(t *testing.T) {
	var s RadarScore
	if err := json.Unmarshal([]byte(`{"積極性": 2, "aggressiveness": 1, "literacy": 3}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Get(AxisAggressiveness) != 3 {
		t.Errorf("expected alias and canonical key to merge, got %v", s)
	}
	if s.Get(AxisLiteracy) != 3 || s.Get(AxisStability) != 0 {
		t.Errorf("unexpected scores %v", s)
	}

	if err := json.Unmarshal([]byte(`{"luck": 1}`), &s); !errors.Is(err, ErrUnknownAxis) {
		t.Fatalf("expected ErrUnknownAxis, got %v", err)
	}
}

func TestAxisLabel(t *testing.T) {
	if AxisLiteracy.Label() != "Financial literacy" {
		t.Errorf("unexpected label %q", AxisLiteracy.Label())
	}
	if Axis("other").Label() != "other" {
		t.Errorf("unknown axes fall back to their id")
	}
	if len(AllAxes()) != 5 {
		t.Errorf("expected five axes")
	}
}

func TestRadarScoreUnmarshalYAML(t *testing.T) {
	var opt Option
	raw := "text: Hold\nradarScore:\n  合理性: 2\n  rationality: 1\n  stability: 4\nnextQuestionId: next\n"
	if err := yaml.Unmarshal([]byte(raw), &opt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if opt.RadarScore.Get(AxisRationality) != 3 || opt.RadarScore.Get(AxisStability) != 4 {
		t.Errorf("unexpected scores %v", opt.RadarScore)
	}
	if opt.Text != "Hold" || opt.NextQuestionID != "next" {
		t.Errorf("unexpected option %+v", opt)
	}

	var s RadarScore
	if err := yaml.Unmarshal([]byte("luck: 1\n"), &s); !errors.Is(err, ErrUnknownAxis) {
		t.Fatalf("expected ErrUnknownAxis, got %v", err)
	}
}
