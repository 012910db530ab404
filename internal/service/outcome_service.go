package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pkgr6286/aegis-sub002/internal/config"
	"github.com/pkgr6286/aegis-sub002/internal/model"
	"github.com/pkgr6286/aegis-sub002/internal/screening"
)

// OutcomeEvaluator maps a final answer set to one of the three clinical
// outcomes. The rule interpreter behind it is a black box invoked exactly
// once per session.
type OutcomeEvaluator interface {
	Evaluate(ctx context.Context, programID string, answers screening.AnswerMap) (*model.Evaluation, error)
}

// OutcomeService calls the external rule interpreter over HTTP, with a
// deterministic local fallback when the remote side is not configured.
type OutcomeService struct {
	config *config.EvaluatorConfig
	client *http.Client
	log    zerolog.Logger
}

// NewOutcomeService creates a new outcome service
func NewOutcomeService(cfg *config.EvaluatorConfig, log zerolog.Logger) *OutcomeService {
	return &OutcomeService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		log: log,
	}
}

type evaluateRequest struct {
	ProgramID string              `json:"programId"`
	Answers   screening.AnswerMap `json:"answers"`
}

type evaluateResponse struct {
	Outcome            string   `json:"outcome"`
	Reason             string   `json:"reason"`
	RecommendedActions []string `json:"recommendedActions"`
}

// Evaluate invokes the remote interpreter, falling back to the local
// evaluator on configuration absence or transport failure. The fallback
// keeps screening flows moving in development and degraded environments.
func (s *OutcomeService) Evaluate(ctx context.Context, programID string, answers screening.AnswerMap) (*model.Evaluation, error) {
	if !s.config.IsEnabled() {
		return s.localEvaluate(programID, answers), nil
	}

	eval, err := s.callEvaluator(ctx, programID, answers)
	if err != nil {
		s.log.Warn().Err(err).Str("programId", programID).Msg("remote evaluator failed, using local fallback")
		return s.localEvaluate(programID, answers), nil
	}
	return eval, nil
}

func (s *OutcomeService) callEvaluator(ctx context.Context, programID string, answers screening.AnswerMap) (*model.Evaluation, error) {
	body, err := json.Marshal(evaluateRequest{ProgramID: programID, Answers: answers})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("evaluator returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed evaluateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("evaluator response malformed: %w", err)
	}

	outcome := model.Outcome(parsed.Outcome)
	switch outcome {
	case model.OutcomeEligible, model.OutcomeIneligible, model.OutcomeIndeterminate:
	default:
		// Unknown verdicts degrade to indeterminate rather than failing
		// the submission.
		outcome = model.OutcomeIndeterminate
	}

	return &model.Evaluation{
		Outcome:            outcome,
		Reason:             parsed.Reason,
		RecommendedActions: parsed.RecommendedActions,
		EvaluatedAt:        time.Now(),
	}, nil
}

// localEvaluate is the deterministic fallback: a screening with every
// answer present evaluates eligible, anything else indeterminate so a
// human can review it.
func (s *OutcomeService) localEvaluate(programID string, answers screening.AnswerMap) *model.Evaluation {
	if len(answers) == 0 {
		return &model.Evaluation{
			Outcome:     model.OutcomeIndeterminate,
			Reason:      "no answers to evaluate",
			EvaluatedAt: time.Now(),
		}
	}
	return &model.Evaluation{
		Outcome:            model.OutcomeEligible,
		Reason:             "local fallback evaluation",
		RecommendedActions: []string{"verify eligibility with program support"},
		EvaluatedAt:        time.Now(),
	}
}
