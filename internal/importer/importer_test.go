package importer

import (
	"testing"

	"flashscroll-backend/internal/models"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []models.CardPair
	}{
		{
			name:  "valid pairs",
			input: `[{"front":"Q1","back":"A1"},{"front":"Q2","back":"A2"}]`,
			want: []models.CardPair{
				{Front: "Q1", Back: "A1"},
				{Front: "Q2", Back: "A2"},
			},
		},
		{
			name:  "entries missing a field are dropped",
			input: `[{"front":"Q1","back":"A1"},{"front":"Q2"},{"back":"A3"},{}]`,
			want:  []models.CardPair{{Front: "Q1", Back: "A1"}},
		},
		{
			name:  "extra fields ignored",
			input: `[{"id":"7","front":"Q1","back":"A1","note":"x"}]`,
			want:  []models.CardPair{{Front: "Q1", Back: "A1"}},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  []models.CardPair{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseJSON(tc.input)
			if err != nil {
				t.Fatalf("ParseJSON failed: %v", err)
			}
			assertPairs(t, got, tc.want)
		})
	}
}

func TestParseJSONMalformed(t *testing.T) {
	for _, input := range []string{"not json", `{"front":"Q"}`, `[{"front":"Q",]`} {
		if _, err := ParseJSON(input); err == nil {
			t.Errorf("Expected ParseError for %q", input)
		} else if _, ok := err.(*ParseError); !ok {
			t.Errorf("Expected *ParseError for %q, got %T", input, err)
		}
	}
}

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []models.CardPair
	}{
		{
			name:  "simple lines",
			input: "Q1,A1\nQ2,A2",
			want: []models.CardPair{
				{Front: "Q1", Back: "A1"},
				{Front: "Q2", Back: "A2"},
			},
		},
		{
			name:  "only first comma separates",
			input: "What is X,Y?,An answer, with a comma",
			want:  []models.CardPair{{Front: "What is X", Back: "Y?,An answer, with a comma"}},
		},
		{
			name:  "commaless and blank-front lines dropped",
			input: "no comma here\nQ1,A1\n,orphan answer\n\n",
			want:  []models.CardPair{{Front: "Q1", Back: "A1"}},
		},
		{
			name:  "fields are trimmed",
			input: "  Q1  ,  A1  ",
			want:  []models.CardPair{{Front: "Q1", Back: "A1"}},
		},
		{
			// Header rows are not special-cased: they import as cards.
			name:  "header line becomes a card",
			input: "front,back\nQ1,A1",
			want: []models.CardPair{
				{Front: "front", Back: "back"},
				{Front: "Q1", Back: "A1"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCSV(tc.input)
			if err != nil {
				t.Fatalf("ParseCSV failed: %v", err)
			}
			assertPairs(t, got, tc.want)
		})
	}
}

func TestExportRoundTrip(t *testing.T) {
	deck := models.Deck{
		ID:   "d1",
		Name: "React Basics",
		Cards: []models.Flashcard{
			{ID: "1", Front: "Q1", Back: "A1"},
			{ID: "2", Front: "Q2, part two", Back: "A2"},
		},
	}

	data, filename, err := ExportDeck(deck)
	if err != nil {
		t.Fatalf("ExportDeck failed: %v", err)
	}
	if filename != "react_basics_export.json" {
		t.Errorf("Expected filename react_basics_export.json, got %q", filename)
	}

	pairs, err := ParseJSON(string(data))
	if err != nil {
		t.Fatalf("Exported payload does not re-import: %v", err)
	}
	assertPairs(t, pairs, []models.CardPair{
		{Front: "Q1", Back: "A1"},
		{Front: "Q2, part two", Back: "A2"},
	})
}

func TestExportEmptyDeck(t *testing.T) {
	data, _, err := ExportDeck(models.Deck{ID: "d1", Name: "Empty"})
	if err != nil {
		t.Fatalf("ExportDeck failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Expected empty array, got %q", string(data))
	}
}

func TestSlugFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"React Basics", "react_basics_export.json"},
		{"  Spaced   Out  ", "spaced_out_export.json"},
		{"single", "single_export.json"},
		{"", "deck_export.json"},
		{"   ", "deck_export.json"},
	}

	for _, tc := range tests {
		if got := SlugFilename(tc.name); got != tc.want {
			t.Errorf("SlugFilename(%q): expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func assertPairs(t *testing.T, got, want []models.CardPair) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d pairs, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Pair %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}
