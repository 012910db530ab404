package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogValidate(t *testing.T) {
	t.Run("valid catalog", func(t *testing.T) {
		assert.NoError(t, testCatalog().Validate())
	})

	t.Run("no questions", func(t *testing.T) {
		c := &Catalog{}
		assert.Error(t, c.Validate())
	})

	t.Run("duplicate question id", func(t *testing.T) {
		c := &Catalog{Questions: []Question{
			{ID: "q1", Type: QuestionText},
			{ID: "q1", Type: QuestionBoolean},
		}}
		assert.ErrorContains(t, c.Validate(), "duplicate")
	})

	t.Run("missing question id", func(t *testing.T) {
		c := &Catalog{Questions: []Question{{Type: QuestionText}}}
		assert.Error(t, c.Validate())
	})

	t.Run("unknown question type", func(t *testing.T) {
		c := &Catalog{Questions: []Question{{ID: "q1", Type: "slider"}}}
		assert.ErrorContains(t, c.Validate(), "unknown type")
	})

	t.Run("choice without options", func(t *testing.T) {
		c := &Catalog{Questions: []Question{{ID: "q1", Type: QuestionChoice}}}
		assert.ErrorContains(t, c.Validate(), "no options")
	})

	t.Run("min above max", func(t *testing.T) {
		c := &Catalog{Questions: []Question{
			{ID: "q1", Type: QuestionNumeric, Min: fptr(10), Max: fptr(5)},
		}}
		assert.Error(t, c.Validate())
	})

	t.Run("rule references unknown trigger", func(t *testing.T) {
		c := &Catalog{
			Questions: []Question{{ID: "q1", Type: QuestionText}},
			Rules:     []Rule{{QuestionID: "ghost", Action: ActionHide, TargetQuestionID: "q1"}},
		}
		assert.ErrorContains(t, c.Validate(), "unknown trigger")
	})

	t.Run("rule references unknown target", func(t *testing.T) {
		c := &Catalog{
			Questions: []Question{{ID: "q1", Type: QuestionText}},
			Rules:     []Rule{{QuestionID: "q1", Action: ActionHide, TargetQuestionID: "ghost"}},
		}
		assert.ErrorContains(t, c.Validate(), "unknown target")
	})

	t.Run("skip_to without target", func(t *testing.T) {
		c := &Catalog{
			Questions: []Question{{ID: "q1", Type: QuestionText}},
			Rules:     []Rule{{QuestionID: "q1", Action: ActionSkipTo}},
		}
		assert.ErrorContains(t, c.Validate(), "without a target")
	})

	t.Run("unknown action", func(t *testing.T) {
		c := &Catalog{
			Questions: []Question{{ID: "q1", Type: QuestionText}},
			Rules:     []Rule{{QuestionID: "q1", Action: "teleport"}},
		}
		assert.ErrorContains(t, c.Validate(), "unknown action")
	})
}

func TestCatalogLookups(t *testing.T) {
	c := testCatalog()

	assert.Equal(t, 2, c.Index("q3"))
	assert.Equal(t, -1, c.Index("ghost"))

	q := c.Question("q4")
	require.NotNil(t, q)
	assert.Equal(t, QuestionChoice, q.Type)
	assert.Nil(t, c.Question("ghost"))
}
