package model

import (
	"time"

	"github.com/pkgr6286/aegis-sub002/internal/screening"
)

// SessionStatus tracks a screening session's lifecycle. A session is
// submitted exactly once; resubmission after a failed submit is allowed
// because failure leaves the status active.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionSubmitted SessionStatus = "submitted"
)

// Outcome is one of the three clinical outcomes the rule interpreter can
// return for a completed screening.
type Outcome string

const (
	OutcomeEligible      Outcome = "eligible"
	OutcomeIneligible    Outcome = "ineligible"
	OutcomeIndeterminate Outcome = "indeterminate"
)

// Evaluation is the outcome evaluator's verdict on a final answer set.
type Evaluation struct {
	Outcome            Outcome   `json:"outcome" bson:"outcome"`
	Reason             string    `json:"reason,omitempty" bson:"reason,omitempty"`
	RecommendedActions []string  `json:"recommendedActions,omitempty" bson:"recommendedActions,omitempty"`
	EvaluatedAt        time.Time `json:"evaluatedAt" bson:"evaluatedAt"`
}

// ScreeningSession is the persistent record of one consumer screening.
// Live state (answer map, navigation) lives in Redis until submission;
// the final answer set is frozen here on submit.
type ScreeningSession struct {
	ID               string              `json:"id" bson:"_id"`
	ProgramID        string              `json:"programId" bson:"programId"`
	ConsumerID       string              `json:"consumerId" bson:"consumerId"`
	CatalogVersion   int                 `json:"catalogVersion" bson:"catalogVersion"`
	Status           SessionStatus       `json:"status" bson:"status"`
	StartedAt        time.Time           `json:"startedAt" bson:"startedAt"`
	SubmittedAt      *time.Time          `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
	Answers          screening.AnswerMap `json:"answers,omitempty" bson:"answers,omitempty"`
	Evaluation       *Evaluation         `json:"evaluation,omitempty" bson:"evaluation,omitempty"`
	VerificationCode string              `json:"verificationCode,omitempty" bson:"verificationCode,omitempty"`
}

// CodeStatus tracks a verification code's redemption state
type CodeStatus string

const (
	CodeActive   CodeStatus = "active"
	CodeRedeemed CodeStatus = "redeemed"
	CodeExpired  CodeStatus = "expired"
)

// VerificationCode is the purchase-verification code issued when a
// screening evaluates eligible.
type VerificationCode struct {
	Code      string     `json:"code" bson:"_id"`
	SessionID string     `json:"sessionId" bson:"sessionId"`
	ProgramID string     `json:"programId" bson:"programId"`
	Status    CodeStatus `json:"status" bson:"status"`
	IssuedAt  time.Time  `json:"issuedAt" bson:"issuedAt"`
	ExpiresAt time.Time  `json:"expiresAt" bson:"expiresAt"`
}
