package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress(t *testing.T) {
	catalog := testCatalog()

	assert.Equal(t, 0.0, Progress(catalog, AnswerMap{}))
	assert.Equal(t, 0.2, Progress(catalog, AnswerMap{"q1": BoolValue(true)}))
	assert.Equal(t, 0.4, Progress(catalog, AnswerMap{
		"q1": BoolValue(true),
		"q2": BoolValue(false),
	}))

	// Denominator stays the full catalog even when q3 is hidden
	answers := AnswerMap{
		"q1": BoolValue(true),
		"q2": BoolValue(true), // hides q3
		"q3": NumberValue(7),  // answered before it was hidden
	}
	assert.Equal(t, 0.6, Progress(catalog, answers))
}

func TestProgressEmptyCatalog(t *testing.T) {
	assert.Equal(t, 0.0, Progress(&Catalog{}, AnswerMap{}))
}

func TestIsComplete(t *testing.T) {
	catalog := testCatalog()

	t.Run("all required answered", func(t *testing.T) {
		answers := AnswerMap{
			"q1": BoolValue(true),
			"q2": BoolValue(false),
			"q3": NumberValue(7),
			"q4": StringValue("a"),
		}
		// q5 is optional
		assert.True(t, IsComplete(catalog, answers))
	})

	t.Run("missing required blocks", func(t *testing.T) {
		answers := AnswerMap{"q1": BoolValue(true)}
		assert.False(t, IsComplete(catalog, answers))
	})

	t.Run("hidden required does not block", func(t *testing.T) {
		answers := AnswerMap{
			"q1": BoolValue(true),
			"q2": BoolValue(true), // hides q3
			"q4": StringValue("b"),
		}
		assert.True(t, IsComplete(catalog, answers))
	})
}

func TestUnansweredRequired(t *testing.T) {
	catalog := testCatalog()

	answers := AnswerMap{"q1": BoolValue(true)}
	missing := UnansweredRequired(catalog, answers)
	require.Len(t, missing, 3)
	assert.Equal(t, "q2", missing[0].ID)
	assert.Equal(t, "q3", missing[1].ID)
	assert.Equal(t, "q4", missing[2].ID)

	// Hiding q3 drops it from the list
	answers["q2"] = BoolValue(true)
	missing = UnansweredRequired(catalog, answers)
	require.Len(t, missing, 1)
	assert.Equal(t, "q4", missing[0].ID)
}

func TestCompleteIffNoUnansweredRequired(t *testing.T) {
	catalog := testCatalog()
	answerSets := []AnswerMap{
		{},
		{"q1": BoolValue(true)},
		{"q1": BoolValue(true), "q2": BoolValue(true), "q4": StringValue("a")},
		{"q1": BoolValue(true), "q2": BoolValue(false), "q3": NumberValue(1), "q4": StringValue("a")},
	}
	for _, answers := range answerSets {
		assert.Equal(t, len(UnansweredRequired(catalog, answers)) == 0, IsComplete(catalog, answers))
	}
}
