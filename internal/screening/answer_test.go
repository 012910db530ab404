package screening

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueIsEmpty(t *testing.T) {
	assert.True(t, Value{}.IsEmpty())
	assert.True(t, StringValue("").IsEmpty())
	assert.False(t, StringValue("x").IsEmpty())
	assert.False(t, BoolValue(false).IsEmpty())
	assert.False(t, NumberValue(0).IsEmpty())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, NumberValue(5).Equal(NumberValue(5)))
	assert.True(t, StringValue("a").Equal(StringValue("a")))
	assert.False(t, NumberValue(5).Equal(StringValue("5")))
	assert.False(t, BoolValue(true).Equal(NumberValue(1)))

	d1 := DiagnosticValue(DiagnosticResult{HasTest: true, Result: "6.8"})
	d2 := DiagnosticValue(DiagnosticResult{HasTest: true, Result: "6.8"})
	d3 := DiagnosticValue(DiagnosticResult{HasTest: true, Result: "7.1"})
	assert.True(t, d1.Equal(d2))
	assert.False(t, d1.Equal(d3))
}

func TestValueAsNumber(t *testing.T) {
	f, ok := NumberValue(3.5).AsNumber()
	require.True(t, ok)
	assert.Equal(t, 3.5, f)

	f, ok = StringValue("42").AsNumber()
	require.True(t, ok)
	assert.Equal(t, 42.0, f)

	_, ok = StringValue("abc").AsNumber()
	assert.False(t, ok)
	_, ok = BoolValue(true).AsNumber()
	assert.False(t, ok)
}

func TestValueUnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Value
	}{
		{"bool", `true`, BoolValue(true)},
		{"number", `42.5`, NumberValue(42.5)},
		{"string", `"hello"`, StringValue("hello")},
		{"null", `null`, Value{}},
		{"diagnostic", `{"hasTest":true,"result":"6.8"}`, DiagnosticValue(DiagnosticResult{HasTest: true, Result: "6.8"})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tc.in), &v))
			assert.True(t, tc.want.Equal(v), "got %+v", v)
		})
	}

	var v Value
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &v))
}

func TestValueMarshalJSON(t *testing.T) {
	data, err := json.Marshal(NumberValue(7))
	require.NoError(t, err)
	assert.Equal(t, `7`, string(data))

	data, err = json.Marshal(StringValue("yes"))
	require.NoError(t, err)
	assert.Equal(t, `"yes"`, string(data))

	data, err = json.Marshal(Value{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}

func TestAnswerMapSet(t *testing.T) {
	m := AnswerMap{}

	m.Set("q1", NumberValue(5))
	assert.True(t, m.Answered("q1"))

	// Latest write wins
	m.Set("q1", NumberValue(6))
	assert.Equal(t, 6.0, m["q1"].Number)

	// Empty values never count as answered
	m.Set("q1", Value{})
	assert.False(t, m.Answered("q1"))
	_, exists := m["q1"]
	assert.False(t, exists)
}

func TestAnswerMapClone(t *testing.T) {
	m := AnswerMap{"q1": BoolValue(true)}
	c := m.Clone()

	c.Set("q2", NumberValue(1))
	assert.False(t, m.Answered("q2"))
	assert.True(t, c.Answered("q1"))
}
