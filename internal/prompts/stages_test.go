package prompts_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/JaimeStill/epistle/internal/prompts"
)

func TestParseStage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    prompts.Stage
		wantErr bool
	}{
		{"route", "route", prompts.StageRoute, false},
		{"summarize", "summarize", prompts.StageSummarize, false},
		{"draft", "draft", prompts.StageDraft, false},
		{"refine", "refine", prompts.StageRefine, false},
		{"unknown", "classify", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prompts.ParseStage(tt.input)
			if tt.wantErr {
				if !errors.Is(err, prompts.ErrInvalidStage) {
					t.Fatalf("err = %v, want ErrInvalidStage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("stage = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStageUnmarshalJSON(t *testing.T) {
	var stage prompts.Stage
	if err := json.Unmarshal([]byte(`"draft"`), &stage); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if stage != prompts.StageDraft {
		t.Errorf("stage = %s, want draft", stage)
	}

	if err := json.Unmarshal([]byte(`"bogus"`), &stage); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("err = %v, want ErrInvalidStage", err)
	}
}

func TestDefaultsCoverAllStages(t *testing.T) {
	for _, stage := range prompts.Stages() {
		if text, err := prompts.Instructions(stage); err != nil || text == "" {
			t.Errorf("stage %s has no default instructions: %v", stage, err)
		}
		if text, err := prompts.Spec(stage); err != nil || text == "" {
			t.Errorf("stage %s has no spec: %v", stage, err)
		}
	}
}
