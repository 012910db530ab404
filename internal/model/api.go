package model

import "github.com/pkgr6286/aegis-sub002/internal/screening"

// QuestionView is the consumer-facing rendering of the current question,
// including whether the external fast path is on offer for it.
type QuestionView struct {
	Index             int                `json:"index"`
	Question          screening.Question `json:"question"`
	FastPathAvailable bool               `json:"fastPathAvailable"`
}

// StartScreeningResponse is returned when a consumer starts a session
type StartScreeningResponse struct {
	SessionID  string        `json:"sessionId"`
	ConsumerID string        `json:"consumerId"`
	Token      string        `json:"token"`
	Question   *QuestionView `json:"question,omitempty"`
	Progress   float64       `json:"progress"`
}

// SubmitAnswerRequest is the request body for committing one answer
type SubmitAnswerRequest struct {
	QuestionID string          `json:"questionId"`
	Value      screening.Value `json:"value"`
}

// SubmitAnswerResponse reports the result of an answer commit. A
// validation rejection is carried in Invalid, not as an HTTP error.
type SubmitAnswerResponse struct {
	Invalid    *screening.ValidationError `json:"invalid,omitempty"`
	Question   *QuestionView              `json:"question,omitempty"`
	Progress   float64                    `json:"progress"`
	Complete   bool                       `json:"complete"`
	Evaluation *Evaluation                `json:"evaluation,omitempty"`
}

// CurrentQuestionResponse reports the session's current position
type CurrentQuestionResponse struct {
	Question *QuestionView `json:"question,omitempty"`
	Progress float64       `json:"progress"`
	Complete bool          `json:"complete"`
}

// ProgressResponse reports completion state for nudges and summary bars
type ProgressResponse struct {
	Progress           float64  `json:"progress"`
	Complete           bool     `json:"complete"`
	UnansweredRequired []string `json:"unansweredRequired"`
}

// FastPathStartResponse directs the client to open the authorization flow
type FastPathStartResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	State            string `json:"state"`
}

// FastPathCallbackRequest carries the authorized payload from the
// external flow back to the coordinator
type FastPathCallbackRequest struct {
	Payload map[string]any `json:"payload"`
}

// FastPathConfirmRequest is the consumer's explicit accept/reject of the
// extracted value
type FastPathConfirmRequest struct {
	Accept bool `json:"accept"`
}

// FastPathConfirmResponse mirrors SubmitAnswerResponse for the fast-path
// accept flow, which may submit the whole questionnaire early
type FastPathConfirmResponse struct {
	Accepted   bool          `json:"accepted"`
	Filled     []string      `json:"filled,omitempty"`
	Question   *QuestionView `json:"question,omitempty"`
	Progress   float64       `json:"progress"`
	Complete   bool          `json:"complete"`
	Evaluation *Evaluation   `json:"evaluation,omitempty"`
}

// FastPathPending is the extracted-but-unconfirmed value held between
// Resolving and the consumer's accept/reject. Never written to the answer
// map until accepted.
type FastPathPending struct {
	QuestionID string          `json:"questionId"`
	Value      screening.Value `json:"value"`
	Payload    map[string]any  `json:"payload"`
}
