package fastpath

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkgr6286/aegis-sub002/internal/screening"
)

func TestExtractDemographics(t *testing.T) {
	payload := Payload{
		"demographics": map[string]any{"age": 47.0, "gender": "female"},
		"zip":          "60601",
	}

	v := Extract("demographics.age", payload)
	assert.True(t, screening.NumberValue(47).Equal(v))

	v = Extract("demographics.gender", payload)
	assert.True(t, screening.StringValue("female").Equal(v))

	// Falls back to a top-level field of the same name
	v = Extract("demographics.zip", payload)
	assert.True(t, screening.StringValue("60601").Equal(v))

	assert.True(t, Extract("demographics.height", payload).IsEmpty())
}

func TestExtractConditions(t *testing.T) {
	t.Run("bare codes", func(t *testing.T) {
		payload := Payload{"conditions": []any{"E11", "I10"}}
		assert.True(t, screening.BoolValue(true).Equal(Extract("conditions[].E11", payload)))
		assert.True(t, screening.BoolValue(false).Equal(Extract("conditions[].J45", payload)))
	})

	t.Run("object entries", func(t *testing.T) {
		payload := Payload{"conditions": []any{
			map[string]any{"code": "E11", "display": "Type 2 diabetes"},
		}}
		assert.True(t, screening.BoolValue(true).Equal(Extract("conditions[].E11", payload)))
	})

	t.Run("missing list is empty not false", func(t *testing.T) {
		assert.True(t, Extract("conditions[].E11", Payload{}).IsEmpty())
	})
}

func TestExtractObservations(t *testing.T) {
	payload := Payload{"observations": map[string]any{
		"4548-4": map[string]any{"value": 6.8, "unit": "%"},
		"8480-6": 120.0,
	}}

	assert.True(t, screening.NumberValue(6.8).Equal(Extract("observations.4548-4", payload)))
	assert.True(t, screening.NumberValue(120).Equal(Extract("observations.8480-6", payload)))
	assert.True(t, Extract("observations.2345-7", payload).IsEmpty())
}

func TestExtractDottedFallback(t *testing.T) {
	payload := Payload{
		"coverage": map[string]any{
			"plan": map[string]any{"type": "commercial"},
		},
	}

	v := Extract("coverage.plan.type", payload)
	assert.True(t, screening.StringValue("commercial").Equal(v))

	assert.True(t, Extract("coverage.plan.missing", payload).IsEmpty())
	assert.True(t, Extract("coverage.plan.type.deeper", payload).IsEmpty())
}

func TestExtractEdgeCases(t *testing.T) {
	assert.True(t, Extract("", Payload{"a": 1}).IsEmpty())
	assert.True(t, Extract("demographics.age", nil).IsEmpty())

	// Unrecognized leaf shapes yield empty, read as "no data found"
	payload := Payload{"demographics": map[string]any{"age": []any{1, 2}}}
	assert.True(t, Extract("demographics.age", payload).IsEmpty())
}
