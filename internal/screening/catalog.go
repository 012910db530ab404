package screening

import "fmt"

// QuestionType defines the type of screening question
type QuestionType string

const (
	QuestionBoolean        QuestionType = "boolean"
	QuestionNumeric        QuestionType = "numeric"
	QuestionChoice         QuestionType = "choice"
	QuestionText           QuestionType = "text"
	QuestionDiagnosticTest QuestionType = "diagnostic_test"
)

// Operator defines how a rule compares its trigger answer to its operand
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
)

// RuleAction defines what a triggered rule does
type RuleAction string

const (
	ActionShow   RuleAction = "show"
	ActionHide   RuleAction = "hide"
	ActionSkipTo RuleAction = "skip_to"
)

// ExternalMapping describes how a question can be resolved from the
// external health-record source instead of manual entry.
type ExternalMapping struct {
	Path     string `json:"path" bson:"path" yaml:"path"`
	Optional bool   `json:"optional,omitempty" bson:"optional,omitempty" yaml:"optional"`
}

// Question is a single screening question. Immutable once the catalog is
// published.
type Question struct {
	ID       string       `json:"id" bson:"id" yaml:"id"`
	Text     string       `json:"text" bson:"text" yaml:"text"`
	Type     QuestionType `json:"type" bson:"type" yaml:"type"`
	Required bool         `json:"required" bson:"required" yaml:"required"`

	// Numeric constraints
	Min *float64 `json:"min,omitempty" bson:"min,omitempty" yaml:"min"`
	Max *float64 `json:"max,omitempty" bson:"max,omitempty" yaml:"max"`

	// Choice options, in display order
	Options []string `json:"options,omitempty" bson:"options,omitempty" yaml:"options"`

	External *ExternalMapping `json:"externalMapping,omitempty" bson:"externalMapping,omitempty" yaml:"externalMapping"`
}

// Rule attaches branching behavior to a trigger question. An unanswered
// trigger makes the rule inert, never an error.
type Rule struct {
	QuestionID       string     `json:"questionId" bson:"questionId" yaml:"questionId"`
	Operator         Operator   `json:"operator" bson:"operator" yaml:"operator"`
	Value            Value      `json:"value" bson:"value" yaml:"-"`
	Action           RuleAction `json:"action" bson:"action" yaml:"action"`
	TargetQuestionID string     `json:"targetQuestionId,omitempty" bson:"targetQuestionId,omitempty" yaml:"targetQuestionId"`
}

// Catalog is the versioned, immutable questionnaire definition: ordered
// questions plus a rule set. Question order defines default traversal and
// the progress denominator.
type Catalog struct {
	Version   int        `json:"version" bson:"version"`
	Questions []Question `json:"questions" bson:"questions"`
	Rules     []Rule     `json:"rules,omitempty" bson:"rules,omitempty"`
}

// Index returns the position of a question id, or -1 if absent.
func (c *Catalog) Index(questionID string) int {
	for i := range c.Questions {
		if c.Questions[i].ID == questionID {
			return i
		}
	}
	return -1
}

// Question returns the question with the given id, or nil.
func (c *Catalog) Question(questionID string) *Question {
	if i := c.Index(questionID); i >= 0 {
		return &c.Questions[i]
	}
	return nil
}

// Validate checks the catalog's referential integrity. Catalogs failing
// validation are rejected at publish time.
func (c *Catalog) Validate() error {
	if len(c.Questions) == 0 {
		return fmt.Errorf("catalog has no questions")
	}
	seen := make(map[string]bool, len(c.Questions))
	for i, q := range c.Questions {
		if q.ID == "" {
			return fmt.Errorf("question %d has no id", i)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		switch q.Type {
		case QuestionBoolean, QuestionNumeric, QuestionText, QuestionDiagnosticTest:
		case QuestionChoice:
			if len(q.Options) == 0 {
				return fmt.Errorf("choice question %q has no options", q.ID)
			}
		default:
			return fmt.Errorf("question %q has unknown type %q", q.ID, q.Type)
		}
		if q.Min != nil && q.Max != nil && *q.Min > *q.Max {
			return fmt.Errorf("question %q has min %v greater than max %v", q.ID, *q.Min, *q.Max)
		}
	}
	for i, r := range c.Rules {
		if !seen[r.QuestionID] {
			return fmt.Errorf("rule %d references unknown trigger question %q", i, r.QuestionID)
		}
		switch r.Action {
		case ActionShow, ActionHide, ActionSkipTo:
		default:
			return fmt.Errorf("rule %d has unknown action %q", i, r.Action)
		}
		if r.Action == ActionSkipTo && r.TargetQuestionID == "" {
			return fmt.Errorf("rule %d is skip_to without a target", i)
		}
		if r.TargetQuestionID != "" && !seen[r.TargetQuestionID] {
			return fmt.Errorf("rule %d references unknown target question %q", i, r.TargetQuestionID)
		}
	}
	return nil
}
