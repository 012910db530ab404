package screening

// State is the mutable navigation position of one screening session.
// History records the path taken forward so Back can retrace it.
type State struct {
	CurrentIndex int      `json:"currentIndex"`
	History      []string `json:"history"`
	Complete     bool     `json:"complete"`
}

// NewState returns the starting position for a fresh session.
func NewState() *State {
	return &State{CurrentIndex: 0, History: []string{}}
}

// Navigator computes transitions over a catalog and the live answer map.
// It holds no state of its own; visibility is recomputed on every call
// because a later answer can retroactively hide an earlier question.
type Navigator struct {
	catalog *Catalog
	answers AnswerMap
}

func NewNavigator(catalog *Catalog, answers AnswerMap) *Navigator {
	return &Navigator{catalog: catalog, answers: answers}
}

// ApplicableRules returns, in declaration order, the rules triggered by the
// given question whose predicate currently holds. Only the just-answered
// question's rules are consulted per forward step, which bounds a
// transition to O(rules).
func (n *Navigator) ApplicableRules(questionID string) []Rule {
	var out []Rule
	for _, r := range n.catalog.Rules {
		if r.QuestionID == questionID && EvaluateRule(r, n.answers) {
			out = append(out, r)
		}
	}
	return out
}

// IsVisible reports whether the question is currently visible: hidden iff
// some hide rule targets it and evaluates true right now.
func (n *Navigator) IsVisible(questionID string) bool {
	for _, r := range n.catalog.Rules {
		if r.Action == ActionHide && r.TargetQuestionID == questionID && EvaluateRule(r, n.answers) {
			return false
		}
	}
	return true
}

// NextIndex computes the next visible question index after the question at
// current. The second return is false when no further visible question
// exists (terminal). The first applicable skip_to rule in declaration
// order wins; an unresolvable skip target is treated as no skip at all.
func (n *Navigator) NextIndex(current int) (int, bool) {
	if current < 0 {
		current = 0
	}
	if current < len(n.catalog.Questions) {
		q := n.catalog.Questions[current]
		for _, r := range n.ApplicableRules(q.ID) {
			if r.Action != ActionSkipTo {
				continue
			}
			target := n.catalog.Index(r.TargetQuestionID)
			if target < 0 {
				continue
			}
			return n.firstVisibleFrom(target)
		}
	}
	return n.firstVisibleFrom(current + 1)
}

// firstVisibleFrom walks forward over hidden questions until a visible one
// or the end of the catalog.
func (n *Navigator) firstVisibleFrom(idx int) (int, bool) {
	for idx < len(n.catalog.Questions) {
		if n.IsVisible(n.catalog.Questions[idx].ID) {
			return idx, true
		}
		idx++
	}
	return -1, false
}

// Forward advances the state after the current question was answered,
// pushing the departed question onto history. Reaching the end marks the
// state terminal.
func (n *Navigator) Forward(st *State) {
	if st.Complete {
		return
	}
	if st.CurrentIndex >= 0 && st.CurrentIndex < len(n.catalog.Questions) {
		st.History = append(st.History, n.catalog.Questions[st.CurrentIndex].ID)
	}
	next, ok := n.NextIndex(st.CurrentIndex)
	if !ok {
		st.Complete = true
		return
	}
	st.CurrentIndex = next
}

// Back retraces the last forward move. With empty history it is a no-op:
// there is nothing before the first question.
func (n *Navigator) Back(st *State) {
	if len(st.History) == 0 {
		return
	}
	last := st.History[len(st.History)-1]
	st.History = st.History[:len(st.History)-1]
	idx := n.catalog.Index(last)
	if idx < 0 {
		idx = 0
	}
	st.CurrentIndex = idx
	st.Complete = false
}
