package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgr6286/aegis-sub002/internal/config"
	"github.com/pkgr6286/aegis-sub002/internal/model"
	"github.com/pkgr6286/aegis-sub002/internal/screening"
)

func TestEvaluateLocalFallback(t *testing.T) {
	svc := NewOutcomeService(&config.EvaluatorConfig{}, zerolog.Nop())

	t.Run("no answers evaluates indeterminate", func(t *testing.T) {
		eval, err := svc.Evaluate(context.Background(), "prog_1", screening.AnswerMap{})
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeIndeterminate, eval.Outcome)
	})

	t.Run("answers evaluate eligible", func(t *testing.T) {
		answers := screening.AnswerMap{"q1": screening.BoolValue(true)}
		eval, err := svc.Evaluate(context.Background(), "prog_1", answers)
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeEligible, eval.Outcome)
		assert.NotEmpty(t, eval.RecommendedActions)
	})

	t.Run("deterministic", func(t *testing.T) {
		answers := screening.AnswerMap{"q1": screening.NumberValue(50)}
		a, _ := svc.Evaluate(context.Background(), "prog_1", answers)
		b, _ := svc.Evaluate(context.Background(), "prog_1", answers)
		assert.Equal(t, a.Outcome, b.Outcome)
		assert.Equal(t, a.Reason, b.Reason)
	})
}

func TestEvaluateRemote(t *testing.T) {
	t.Run("remote verdict used", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req evaluateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "prog_1", req.ProgramID)

			json.NewEncoder(w).Encode(evaluateResponse{
				Outcome: "ineligible",
				Reason:  "age below minimum",
			})
		}))
		defer srv.Close()

		svc := NewOutcomeService(&config.EvaluatorConfig{
			BaseURL: srv.URL, APIKey: "test-key", TimeoutMS: 1000,
		}, zerolog.Nop())

		answers := screening.AnswerMap{"q_age": screening.NumberValue(15)}
		eval, err := svc.Evaluate(context.Background(), "prog_1", answers)
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeIneligible, eval.Outcome)
		assert.Equal(t, "age below minimum", eval.Reason)
	})

	t.Run("unknown verdict degrades to indeterminate", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(evaluateResponse{Outcome: "maybe"})
		}))
		defer srv.Close()

		svc := NewOutcomeService(&config.EvaluatorConfig{
			BaseURL: srv.URL, APIKey: "test-key", TimeoutMS: 1000,
		}, zerolog.Nop())

		eval, err := svc.Evaluate(context.Background(), "prog_1", screening.AnswerMap{"q1": screening.BoolValue(true)})
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeIndeterminate, eval.Outcome)
	})

	t.Run("remote failure falls back locally", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		svc := NewOutcomeService(&config.EvaluatorConfig{
			BaseURL: srv.URL, APIKey: "test-key", TimeoutMS: 1000,
		}, zerolog.Nop())

		eval, err := svc.Evaluate(context.Background(), "prog_1", screening.AnswerMap{"q1": screening.BoolValue(true)})
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeEligible, eval.Outcome)
		assert.Equal(t, "local fallback evaluation", eval.Reason)
	})
}
