package grading

import (
	"reflect"
	"testing"
	"time"

	"github.com/conorfennell/flashstack/internal/domain"
)

func TestCheckMultipleChoice(t *testing.T) {
	testCases := []struct {
		name     string
		selected []string
		correct  []string
		expected bool
	}{
		{"same order", []string{"A", "B"}, []string{"A", "B"}, true},
		{"different order", []string{"B", "A"}, []string{"A", "B"}, true},
		{"too few", []string{"A"}, []string{"A", "B"}, false},
		{"too many", []string{"A", "B", "C"}, []string{"A", "B"}, false},
		{"both empty", []string{}, []string{}, true},
		{"selected something when nothing is correct", []string{"A"}, []string{}, false},
		{"same size different members", []string{"A", "C"}, []string{"A", "B"}, false},
		{"duplicates collapse", []string{"A", "A", "B"}, []string{"A", "B"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CheckMultipleChoice(tc.correct, tc.selected); got != tc.expected {
				t.Errorf("Expected %v for %v against %v, but got %v", tc.expected, tc.selected, tc.correct, got)
			}
		})
	}
}

func TestCheckFlashcard(t *testing.T) {
	if !CheckFlashcard("Pies", "Pies") {
		t.Error("Expected identical answer to be correct")
	}
	if CheckFlashcard("Pies", "pies") {
		t.Error("Expected answer with different case to be incorrect")
	}
	if CheckFlashcard("Pies", "Pies ") {
		t.Error("Expected answer with trailing space to be incorrect")
	}
}

func TestCheckCloze(t *testing.T) {
	hidden := ClozeWords("The {{cat}} sat on the {{Mat}}.")

	testCases := []struct {
		name     string
		answers  []string
		expected bool
	}{
		{"exact", []string{"cat", "Mat"}, true},
		{"case insensitive", []string{"CAT", "mat"}, true},
		{"one blank wrong", []string{"cat", "rug"}, false},
		{"wrong order", []string{"Mat", "cat"}, false},
		{"too few answers", []string{"cat"}, false},
		{"too many answers", []string{"cat", "mat", "hat"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CheckCloze(hidden, tc.answers); got != tc.expected {
				t.Errorf("Expected %v, but got %v", tc.expected, got)
			}
		})
	}
}

func TestCheckFillIn(t *testing.T) {
	expected := []string{"colour|color", "Paris"}

	if !CheckFillIn(expected, []string{"Color", " paris "}) {
		t.Error("Expected alternative spelling with padding to be correct")
	}
	if !CheckFillIn(expected, []string{"colour", "PARIS"}) {
		t.Error("Expected first alternative to be correct")
	}
	if CheckFillIn(expected, []string{"colr", "Paris"}) {
		t.Error("Expected misspelling to be incorrect")
	}
	if CheckFillIn(expected, []string{"colour"}) {
		t.Error("Expected missing blank to be incorrect")
	}
}

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name     string
		card     domain.Card
		answers  []string
		expected bool
	}{
		{
			name:     "flashcard correct",
			card:     domain.Card{Type: domain.Flashcard, Front: "Dog", Back: "Pies"},
			answers:  []string{"Pies"},
			expected: true,
		},
		{
			name:     "flashcard wrong",
			card:     domain.Card{Type: domain.Flashcard, Front: "Dog", Back: "Pies"},
			answers:  []string{"WrongAnswer"},
			expected: false,
		},
		{
			name:     "flashcard with no answer",
			card:     domain.Card{Type: domain.Flashcard, Front: "Dog", Back: "Pies"},
			answers:  nil,
			expected: false,
		},
		{
			name:     "cloze",
			card:     domain.Card{Type: domain.Cloze, Text: "{{Go}} was designed at {{Google}}"},
			answers:  []string{"go", "google"},
			expected: true,
		},
		{
			name:     "fill-in",
			card:     domain.Card{Type: domain.FillIn, Front: "2 + 2 = ___", Answers: []string{"4|four"}},
			answers:  []string{"Four"},
			expected: true,
		},
		{
			name: "multiple choice",
			card: domain.Card{
				Type:    domain.MultipleChoice,
				Front:   "Pick the primes",
				Choices: []string{"2", "3", "4"},
				Answers: []string{"2", "3"},
			},
			answers:  []string{"3", "2"},
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.card, tc.answers); got != tc.expected {
				t.Errorf("Expected %v, but got %v", tc.expected, got)
			}
		})
	}
}

func TestEvaluateUnknownTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected Evaluate to panic on an unknown card type")
		}
	}()
	Evaluate(domain.Card{Type: 42}, []string{"x"})
}

func TestClozeHelpers(t *testing.T) {
	text := "The {{ cat }} sat on the {{mat}}."

	words := ClozeWords(text)
	if !reflect.DeepEqual(words, []string{"cat", "mat"}) {
		t.Errorf("Expected [cat mat], but got %v", words)
	}

	masked := MaskCloze(text)
	if masked != "The [...] sat on the [...]." {
		t.Errorf("Unexpected masked text %q", masked)
	}

	if n := Blanks(domain.Card{Type: domain.Cloze, Text: text}); n != 2 {
		t.Errorf("Expected 2 blanks, but got %d", n)
	}
	if n := Blanks(domain.Card{Type: domain.MultipleChoice}); n != 1 {
		t.Errorf("Expected 1 ask for multiple choice, but got %d", n)
	}
}

func TestValidate(t *testing.T) {
	review := domain.NewReviewState(time.Now())

	testCases := []struct {
		name    string
		card    domain.Card
		wantErr bool
	}{
		{"valid flashcard", domain.Card{Type: domain.Flashcard, Front: "Q", Back: "A", Review: review}, false},
		{"multi-line flashcard back", domain.Card{Type: domain.Flashcard, Front: "Capital of France?", Back: "Paris\nparis", Review: review}, true},
		{"flashcard without back", domain.Card{Type: domain.Flashcard, Front: "Q", Review: review}, true},
		{"missing type", domain.Card{Front: "Q", Back: "A", Review: review}, true},
		{"box out of range", domain.Card{Type: domain.Flashcard, Front: "Q", Back: "A", Review: domain.ReviewState{Box: 4}}, true},
		{"cloze without markers", domain.Card{Type: domain.Cloze, Text: "nothing hidden", Review: review}, true},
		{"valid cloze", domain.Card{Type: domain.Cloze, Text: "{{a}}", Review: review}, false},
		{"fill-in blank mismatch", domain.Card{Type: domain.FillIn, Front: "___ and ___", Answers: []string{"x"}, Review: review}, true},
		{"valid fill-in", domain.Card{Type: domain.FillIn, Front: "___ and ___", Answers: []string{"x", "y"}, Review: review}, false},
		{"answer not a choice", domain.Card{Type: domain.MultipleChoice, Front: "?", Choices: []string{"a", "b"}, Answers: []string{"c"}, Review: review}, true},
		{"choice containing separator", domain.Card{Type: domain.MultipleChoice, Front: "?", Choices: []string{"Paris, France", "Rome, Italy"}, Answers: []string{"Paris, France"}, Review: review}, true},
		{"valid multiple choice", domain.Card{Type: domain.MultipleChoice, Front: "?", Choices: []string{"a", "b"}, Answers: []string{"b"}, Review: review}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.card)
			if (err != nil) != tc.wantErr {
				t.Errorf("Expected error: %v, but got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSplitChoices(t *testing.T) {
	testCases := []struct {
		reply    string
		expected []string
	}{
		{"Whale", []string{"Whale"}},
		{" Bat , Whale,", []string{"Bat", "Whale"}},
		{"", nil},
		{" , ,", nil},
	}

	for _, tc := range testCases {
		got := SplitChoices(tc.reply)
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("SplitChoices(%q): expected %q, but got %q", tc.reply, tc.expected, got)
		}
	}
}
