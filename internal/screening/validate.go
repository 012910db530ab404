package screening

import (
	"fmt"
	"math"
	"strconv"
)

// ValidationError is a user-correctable rejection of an answer. It is a
// value, not a thrown error: callers surface Reason and keep the session
// moving.
type ValidationError struct {
	QuestionID string `json:"questionId"`
	Reason     string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("answer for %s invalid: %s", e.QuestionID, e.Reason)
}

// Validate checks a candidate answer against the question's type and
// constraints. A nil return means the answer is acceptable. Validation is
// pure and idempotent.
func Validate(q *Question, v Value) *ValidationError {
	if v.IsEmpty() {
		if q.Required {
			return &ValidationError{QuestionID: q.ID, Reason: "required"}
		}
		return nil
	}

	switch q.Type {
	case QuestionBoolean:
		if v.Kind != KindBool {
			return &ValidationError{QuestionID: q.ID, Reason: "must be true or false"}
		}

	case QuestionNumeric:
		f, ok := v.AsNumber()
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return &ValidationError{QuestionID: q.ID, Reason: "must be a number"}
		}
		if q.Min != nil && f < *q.Min {
			return &ValidationError{QuestionID: q.ID, Reason: "must be at least " + formatBound(*q.Min)}
		}
		if q.Max != nil && f > *q.Max {
			return &ValidationError{QuestionID: q.ID, Reason: "must be at most " + formatBound(*q.Max)}
		}

	case QuestionChoice:
		if v.Kind != KindString {
			return &ValidationError{QuestionID: q.ID, Reason: "must be one of the listed options"}
		}
		for _, opt := range q.Options {
			if v.Str == opt {
				return nil
			}
		}
		return &ValidationError{QuestionID: q.ID, Reason: "must be one of the listed options"}

	case QuestionText:
		if v.Kind != KindString {
			return &ValidationError{QuestionID: q.ID, Reason: "must be text"}
		}

	case QuestionDiagnosticTest:
		if v.Kind != KindDiagnostic || v.Diagnostic == nil {
			return &ValidationError{QuestionID: q.ID, Reason: "must be a diagnostic test result"}
		}
		if v.Diagnostic.HasTest && v.Diagnostic.Result == "" {
			return &ValidationError{QuestionID: q.ID, Reason: "test result is required"}
		}
	}
	return nil
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
