package screening

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ValueKind tags the concrete type carried by a Value.
type ValueKind string

const (
	KindEmpty      ValueKind = ""
	KindBool       ValueKind = "bool"
	KindNumber     ValueKind = "number"
	KindString     ValueKind = "string"
	KindDiagnostic ValueKind = "diagnostic"
)

// DiagnosticResult is the structured answer for diagnostic_test questions.
// Result is only meaningful when HasTest is true.
type DiagnosticResult struct {
	HasTest  bool   `json:"hasTest" bson:"hasTest"`
	Result   string `json:"result,omitempty" bson:"result,omitempty"`
	TestDate string `json:"testDate,omitempty" bson:"testDate,omitempty"`
}

// Value is a tagged union over the answer types a question can carry.
// The zero Value is the empty (unanswered) value.
type Value struct {
	Kind       ValueKind
	Bool       bool
	Number     float64
	Str        string
	Diagnostic *DiagnosticResult
}

func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Number: f} }
func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func DiagnosticValue(d DiagnosticResult) Value {
	return Value{Kind: KindDiagnostic, Diagnostic: &d}
}

// IsEmpty reports whether the value counts as "no answer".
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindEmpty:
		return true
	case KindString:
		return v.Str == ""
	default:
		return false
	}
}

// Equal compares two values with strict, kind-aware semantics. Numeric
// strings are not coerced: "5" never equals 5.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Number == o.Number
	case KindString:
		return v.Str == o.Str
	case KindDiagnostic:
		if v.Diagnostic == nil || o.Diagnostic == nil {
			return v.Diagnostic == o.Diagnostic
		}
		return *v.Diagnostic == *o.Diagnostic
	default:
		return true
	}
}

// AsNumber coerces the value to a float64 for ordering comparisons.
// Numbers convert directly, strings are parsed, everything else fails.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Number, true
	case KindString:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String renders the value for display and logging.
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindDiagnostic:
		if v.Diagnostic == nil {
			return ""
		}
		return fmt.Sprintf("hasTest=%t result=%s", v.Diagnostic.HasTest, v.Diagnostic.Result)
	default:
		return ""
	}
}

// MarshalJSON emits the bare underlying value (true, 42, "text", {...}).
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNumber:
		return json.Marshal(v.Number)
	case KindString:
		return json.Marshal(v.Str)
	case KindDiagnostic:
		return json.Marshal(v.Diagnostic)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON sniffs the JSON type and tags the value accordingly.
// Objects are read as diagnostic results; anything else is rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case bool:
		*v = BoolValue(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return fmt.Errorf("invalid numeric answer %q: %w", t.String(), err)
		}
		*v = NumberValue(f)
	case string:
		*v = StringValue(t)
	case map[string]any:
		var d DiagnosticResult
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("invalid diagnostic answer: %w", err)
		}
		*v = DiagnosticValue(d)
	default:
		return fmt.Errorf("unsupported answer value type %T", raw)
	}
	return nil
}

// MarshalBSONValue mirrors the JSON representation for Mongo storage.
func (v Value) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch v.Kind {
	case KindBool:
		return bson.MarshalValue(v.Bool)
	case KindNumber:
		return bson.MarshalValue(v.Number)
	case KindString:
		return bson.MarshalValue(v.Str)
	case KindDiagnostic:
		return bson.MarshalValue(v.Diagnostic)
	default:
		return bson.MarshalValue(nil)
	}
}

func (v *Value) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Boolean:
		*v = BoolValue(rv.Boolean())
	case bsontype.Double:
		*v = NumberValue(rv.Double())
	case bsontype.Int32:
		*v = NumberValue(float64(rv.Int32()))
	case bsontype.Int64:
		*v = NumberValue(float64(rv.Int64()))
	case bsontype.String:
		*v = StringValue(rv.StringValue())
	case bsontype.EmbeddedDocument:
		var d DiagnosticResult
		if err := rv.Unmarshal(&d); err != nil {
			return err
		}
		*v = DiagnosticValue(d)
	case bsontype.Null, bsontype.Undefined:
		*v = Value{}
	default:
		return fmt.Errorf("unsupported answer value bson type %s", t)
	}
	return nil
}

// AnswerMap holds one answer per question id; latest write wins.
type AnswerMap map[string]Value

// Answered reports whether the question has a non-empty answer.
func (m AnswerMap) Answered(questionID string) bool {
	v, ok := m[questionID]
	return ok && !v.IsEmpty()
}

// Set commits an answer, dropping empty values so they never count as
// answered.
func (m AnswerMap) Set(questionID string, v Value) {
	if v.IsEmpty() {
		delete(m, questionID)
		return
	}
	m[questionID] = v
}

// Clone returns an independent copy of the map.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
