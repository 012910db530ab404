package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCatalog builds a five question catalog used across navigation tests:
//
//	q1 boolean  — answering false skips to q4
//	q2 boolean  — answering true hides q3
//	q3 numeric
//	q4 choice
//	q5 text
func testCatalog() *Catalog {
	return &Catalog{
		Version: 1,
		Questions: []Question{
			{ID: "q1", Type: QuestionBoolean, Required: true},
			{ID: "q2", Type: QuestionBoolean, Required: true},
			{ID: "q3", Type: QuestionNumeric, Required: true},
			{ID: "q4", Type: QuestionChoice, Required: true, Options: []string{"a", "b"}},
			{ID: "q5", Type: QuestionText},
		},
		Rules: []Rule{
			{QuestionID: "q1", Operator: OpEquals, Value: BoolValue(false), Action: ActionSkipTo, TargetQuestionID: "q4"},
			{QuestionID: "q2", Operator: OpEquals, Value: BoolValue(true), Action: ActionHide, TargetQuestionID: "q3"},
		},
	}
}

func TestForwardLinear(t *testing.T) {
	catalog := testCatalog()
	answers := AnswerMap{"q1": BoolValue(true)}
	st := NewState()

	NewNavigator(catalog, answers).Forward(st)

	assert.Equal(t, 1, st.CurrentIndex)
	assert.Equal(t, []string{"q1"}, st.History)
	assert.False(t, st.Complete)
}

func TestForwardSkipTo(t *testing.T) {
	catalog := testCatalog()
	answers := AnswerMap{"q1": BoolValue(false)}
	st := NewState()

	NewNavigator(catalog, answers).Forward(st)

	assert.Equal(t, 3, st.CurrentIndex) // q4
	assert.Equal(t, []string{"q1"}, st.History)
}

func TestForwardOverHidden(t *testing.T) {
	catalog := testCatalog()
	answers := AnswerMap{"q1": BoolValue(true), "q2": BoolValue(true)}
	st := &State{CurrentIndex: 1, History: []string{"q1"}}

	NewNavigator(catalog, answers).Forward(st)

	// q3 is hidden, so the cursor lands on q4
	assert.Equal(t, 3, st.CurrentIndex)
}

func TestSkipTargetHidden(t *testing.T) {
	// Skip target itself hidden: recursion continues to the next visible
	// question after the target.
	catalog := &Catalog{
		Questions: []Question{
			{ID: "q1", Type: QuestionBoolean},
			{ID: "q2", Type: QuestionNumeric},
			{ID: "q3", Type: QuestionText},
		},
		Rules: []Rule{
			{QuestionID: "q1", Operator: OpEquals, Value: BoolValue(true), Action: ActionSkipTo, TargetQuestionID: "q2"},
			{QuestionID: "q1", Operator: OpEquals, Value: BoolValue(true), Action: ActionHide, TargetQuestionID: "q2"},
		},
	}
	answers := AnswerMap{"q1": BoolValue(true)}

	idx, ok := NewNavigator(catalog, answers).NextIndex(0)
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestFirstDeclaredSkipWins(t *testing.T) {
	catalog := &Catalog{
		Questions: []Question{
			{ID: "q1", Type: QuestionBoolean},
			{ID: "q2", Type: QuestionText},
			{ID: "q3", Type: QuestionText},
		},
		Rules: []Rule{
			{QuestionID: "q1", Operator: OpEquals, Value: BoolValue(true), Action: ActionSkipTo, TargetQuestionID: "q3"},
			{QuestionID: "q1", Operator: OpEquals, Value: BoolValue(true), Action: ActionSkipTo, TargetQuestionID: "q2"},
		},
	}
	answers := AnswerMap{"q1": BoolValue(true)}

	idx, ok := NewNavigator(catalog, answers).NextIndex(0)
	require.True(t, ok)
	assert.Equal(t, 2, idx) // q3, first declared rule
}

func TestDanglingSkipTargetIgnored(t *testing.T) {
	// Validate would reject this catalog; the navigator still degrades to
	// linear traversal instead of crashing a live session.
	catalog := &Catalog{
		Questions: []Question{
			{ID: "q1", Type: QuestionBoolean},
			{ID: "q2", Type: QuestionText},
		},
		Rules: []Rule{
			{QuestionID: "q1", Operator: OpEquals, Value: BoolValue(true), Action: ActionSkipTo, TargetQuestionID: "missing"},
		},
	}
	answers := AnswerMap{"q1": BoolValue(true)}

	idx, ok := NewNavigator(catalog, answers).NextIndex(0)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestNextIndexNeverReturnsHidden(t *testing.T) {
	catalog := testCatalog()
	answerSets := []AnswerMap{
		{},
		{"q1": BoolValue(true)},
		{"q1": BoolValue(false)},
		{"q1": BoolValue(true), "q2": BoolValue(true)},
		{"q1": BoolValue(false), "q2": BoolValue(true)},
		{"q2": BoolValue(true), "q3": NumberValue(7)},
	}

	for _, answers := range answerSets {
		nav := NewNavigator(catalog, answers)
		for from := 0; from < len(catalog.Questions); from++ {
			idx, ok := nav.NextIndex(from)
			if !ok {
				continue
			}
			assert.True(t, nav.IsVisible(catalog.Questions[idx].ID),
				"NextIndex(%d) returned hidden question %s", from, catalog.Questions[idx].ID)
		}
	}
}

func TestForwardTerminal(t *testing.T) {
	catalog := testCatalog()
	answers := AnswerMap{}
	st := &State{CurrentIndex: 4, History: []string{"q1", "q2", "q3", "q4"}}

	NewNavigator(catalog, answers).Forward(st)

	assert.True(t, st.Complete)
	assert.Equal(t, 4, st.CurrentIndex)

	// Further forwards are no-ops once terminal
	NewNavigator(catalog, answers).Forward(st)
	assert.Len(t, st.History, 5)
}

func TestBackRetracesHistory(t *testing.T) {
	catalog := testCatalog()
	answers := AnswerMap{"q1": BoolValue(false)}
	nav := NewNavigator(catalog, answers)
	st := NewState()

	nav.Forward(st) // skip to q4
	require.Equal(t, 3, st.CurrentIndex)

	nav.Back(st)
	assert.Equal(t, 0, st.CurrentIndex)
	assert.Empty(t, st.History)
}

func TestBackAtStartIsNoop(t *testing.T) {
	catalog := testCatalog()
	st := NewState()

	NewNavigator(catalog, AnswerMap{}).Back(st)

	assert.Equal(t, 0, st.CurrentIndex)
	assert.Empty(t, st.History)
}

func TestBackClearsComplete(t *testing.T) {
	catalog := testCatalog()
	st := &State{CurrentIndex: 4, History: []string{"q1", "q2", "q3", "q4", "q5"}, Complete: true}

	NewNavigator(catalog, AnswerMap{}).Back(st)

	assert.False(t, st.Complete)
	assert.Equal(t, 4, st.CurrentIndex)
}

func TestForwardBackRoundTrip(t *testing.T) {
	catalog := testCatalog()
	answers := AnswerMap{"q1": BoolValue(true), "q2": BoolValue(false)}
	nav := NewNavigator(catalog, answers)
	st := NewState()

	nav.Forward(st)
	nav.Forward(st)
	require.Equal(t, 2, st.CurrentIndex)

	nav.Back(st)
	assert.Equal(t, 1, st.CurrentIndex)
	nav.Back(st)
	assert.Equal(t, 0, st.CurrentIndex)
	assert.Empty(t, st.History)
}
