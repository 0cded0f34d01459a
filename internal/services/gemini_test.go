package services

import (
	"strings"
	"testing"
)

func TestParseCardJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "clean array",
			input:     `[{"front":"Q1","back":"A1"},{"front":"Q2","back":"A2"}]`,
			wantCount: 2,
		},
		{
			name:      "array wrapped in prose",
			input:     "Here are your cards:\n[{\"front\":\"Q1\",\"back\":\"A1\"}]\nEnjoy!",
			wantCount: 1,
		},
		{
			name:      "empty-field pairs filtered",
			input:     `[{"front":"Q1","back":"A1"},{"front":"","back":"A2"},{"front":"Q3","back":""}]`,
			wantCount: 1,
		},
		{
			name:    "no array at all",
			input:   "I could not generate any flashcards.",
			wantErr: true,
		},
		{
			name:    "broken array",
			input:   `[{"front":"Q1",]`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pairs, err := parseCardJSON(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				if _, ok := err.(*GenerationError); !ok {
					t.Errorf("Expected *GenerationError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCardJSON failed: %v", err)
			}
			if len(pairs) != tc.wantCount {
				t.Errorf("Expected %d pairs, got %d", tc.wantCount, len(pairs))
			}
		})
	}
}

func TestBuildCardPrompt(t *testing.T) {
	prompt := buildCardPrompt("mitochondria are the powerhouse of the cell")

	if !strings.Contains(prompt, "---TEXT START---") || !strings.Contains(prompt, "---TEXT END---") {
		t.Error("Prompt must delimit the source text")
	}
	if !strings.Contains(prompt, "mitochondria") {
		t.Error("Prompt must embed the source text")
	}
	if !strings.Contains(prompt, "'front'") || !strings.Contains(prompt, "'back'") {
		t.Error("Prompt must describe the expected JSON shape")
	}
}
