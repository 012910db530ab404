package screening

// Progress returns answered / total catalog questions. The denominator is
// deliberately the full catalog, not the currently visible subset, even
// when answered questions later become hidden. A deliberate approximation;
// do not "fix" it to count visible questions.
func Progress(catalog *Catalog, answers AnswerMap) float64 {
	if len(catalog.Questions) == 0 {
		return 0
	}
	answered := 0
	for _, q := range catalog.Questions {
		if answers.Answered(q.ID) {
			answered++
		}
	}
	return float64(answered) / float64(len(catalog.Questions))
}

// IsComplete reports whether every required, currently visible question
// has a non-empty answer. Hidden required questions never block
// completion.
func IsComplete(catalog *Catalog, answers AnswerMap) bool {
	return len(UnansweredRequired(catalog, answers)) == 0
}

// UnansweredRequired returns, in catalog order, the required visible
// questions still missing an answer. Used to drive nudges without
// touching navigation state.
func UnansweredRequired(catalog *Catalog, answers AnswerMap) []Question {
	nav := NewNavigator(catalog, answers)
	var out []Question
	for _, q := range catalog.Questions {
		if q.Required && nav.IsVisible(q.ID) && !answers.Answered(q.ID) {
			out = append(out, q)
		}
	}
	return out
}
