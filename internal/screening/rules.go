package screening

// EvaluateRule reports whether a rule's predicate currently holds against
// the answer map. An unanswered trigger question makes the rule inert.
// Unknown operators evaluate false rather than failing: a malformed
// catalog must degrade to linear traversal, not crash a live session.
func EvaluateRule(rule Rule, answers AnswerMap) bool {
	answer, ok := answers[rule.QuestionID]
	if !ok || answer.IsEmpty() {
		return false
	}

	switch rule.Operator {
	case OpEquals:
		return answer.Equal(rule.Value)
	case OpNotEquals:
		return !answer.Equal(rule.Value)
	case OpGreaterThan:
		a, aok := answer.AsNumber()
		b, bok := rule.Value.AsNumber()
		return aok && bok && a > b
	case OpLessThan:
		a, aok := answer.AsNumber()
		b, bok := rule.Value.AsNumber()
		return aok && bok && a < b
	default:
		return false
	}
}
