package service

import (
	"context"
	"fmt"

	"github.com/pkgr6286/aegis-sub002/internal/model"
	"github.com/pkgr6286/aegis-sub002/internal/screening"
	"github.com/pkgr6286/aegis-sub002/internal/screening/fastpath"
)

// StartFastPath opens a fast-path attempt for the current question. The
// coordinator runs in its own goroutine; the consumer completes the
// external authorization in a separate browser window and the connector
// posts the result back through DeliverFastPath.
func (s *ScreeningService) StartFastPath(ctx context.Context, sessionID string) (*model.FastPathStartResponse, error) {
	session, catalog, answers, st, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionActive {
		return nil, ErrSessionClosed
	}
	if st.Complete {
		return nil, ErrNoCurrentQuestion
	}

	q := catalog.Questions[st.CurrentIndex]
	if q.External == nil || answers.Answered(q.ID) {
		return nil, ErrNoFastPath
	}

	s.mu.Lock()
	if existing, ok := s.coordinators[sessionID]; ok && !existing.State().Terminal() {
		s.mu.Unlock()
		return nil, ErrFastPathActive
	}
	co := fastpath.NewCoordinator(
		fastpath.WithClock(s.clock),
		fastpath.WithTimeout(s.fastPathCfg.Timeout),
		fastpath.WithTransitionHook(func(state fastpath.State) {
			s.broadcastFastPathState(sessionID, state)
		}),
	)
	s.coordinators[sessionID] = co
	s.mu.Unlock()

	co.Transition(fastpath.StateConnecting)
	go s.runFastPath(sessionID, q, co)

	return &model.FastPathStartResponse{
		AuthorizationURL: fmt.Sprintf("%s?screening=%s", s.fastPathCfg.AuthorizeURL, sessionID),
		State:            string(co.State()),
	}, nil
}

// DeliverFastPath hands an authorized payload from the connector callback
// to the waiting coordinator. Late or duplicate deliveries are dropped.
func (s *ScreeningService) DeliverFastPath(ctx context.Context, sessionID string, payload fastpath.Payload) error {
	co := s.coordinator(sessionID)
	if co == nil {
		return ErrFastPathInactive
	}
	co.Deliver(payload)
	return nil
}

// CancelFastPath reports that the consumer closed the authorization
// window before it finished.
func (s *ScreeningService) CancelFastPath(ctx context.Context, sessionID string) error {
	co := s.coordinator(sessionID)
	if co == nil {
		return nil
	}
	co.WindowClosed()
	return nil
}

// ConfirmFastPath applies or discards the value the fast path resolved.
// Acceptance commits the trigger answer, opportunistically fills every
// other required externally-mapped question the payload can satisfy, and
// submits immediately if that completes the screening.
func (s *ScreeningService) ConfirmFastPath(ctx context.Context, sessionID string, accept bool) (*model.FastPathConfirmResponse, error) {
	session, catalog, answers, st, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionActive {
		return nil, ErrSessionClosed
	}

	pending, err := s.sessionCache.GetPending(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending value: %w", err)
	}
	if pending == nil {
		return nil, ErrNothingToConfirm
	}
	if err := s.sessionCache.ClearPending(ctx, sessionID); err != nil {
		return nil, err
	}

	co := s.takeCoordinator(sessionID)

	if !accept {
		if co != nil {
			co.Transition(fastpath.StateRejected)
		}
		return &model.FastPathConfirmResponse{
			Accepted: false,
			Question: s.view(catalog, answers, st),
			Progress: screening.Progress(catalog, answers),
		}, nil
	}

	filled := []string{pending.QuestionID}
	answers.Set(pending.QuestionID, pending.Value)
	if err := s.sessionCache.SetAnswer(ctx, sessionID, pending.QuestionID, pending.Value); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	for i := range catalog.Questions {
		q := catalog.Questions[i]
		if q.ID == pending.QuestionID || q.External == nil || !q.Required || answers.Answered(q.ID) {
			continue
		}
		v := fastpath.Extract(q.External.Path, pending.Payload)
		if v.IsEmpty() || screening.Validate(&q, v) != nil {
			continue
		}
		answers.Set(q.ID, v)
		if err := s.sessionCache.SetAnswer(ctx, sessionID, q.ID, v); err != nil {
			return nil, fmt.Errorf("failed to save answer: %w", err)
		}
		filled = append(filled, q.ID)
	}

	if co != nil {
		co.Transition(fastpath.StateAccepted)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToAdmin(session.ProgramID, "screening_progress", map[string]interface{}{
			"sessionId": sessionID,
			"progress":  screening.Progress(catalog, answers),
			"fastPath":  true,
		})
	}

	resp := &model.FastPathConfirmResponse{
		Accepted: true,
		Filled:   filled,
		Progress: screening.Progress(catalog, answers),
	}

	if screening.IsComplete(catalog, answers) {
		st.Complete = true
		if err := s.sessionCache.SetNavState(ctx, sessionID, st); err != nil {
			return nil, err
		}
		eval, err := s.finalize(ctx, session, answers)
		if err != nil {
			return nil, fmt.Errorf("submission failed: %w", err)
		}
		resp.Complete = true
		resp.Evaluation = eval
		return resp, nil
	}

	nav := screening.NewNavigator(catalog, answers)
	nav.Forward(st)
	if err := s.sessionCache.SetNavState(ctx, sessionID, st); err != nil {
		return nil, err
	}
	resp.Question = s.view(catalog, answers, st)
	resp.Complete = st.Complete
	return resp, nil
}

// runFastPath drives one coordinator to resolution. It detaches from the
// request context; the attempt outlives the HTTP call that started it.
func (s *ScreeningService) runFastPath(sessionID string, q screening.Question, co *fastpath.Coordinator) {
	ctx := context.Background()

	res, err := co.Await(ctx)
	if err != nil {
		co.Transition(fastpath.StateFailed)
		s.takeCoordinator(sessionID)
		return
	}

	switch res.Kind {
	case fastpath.ResultAuthorized:
		co.Transition(fastpath.StateResolving)
		v := fastpath.Extract(q.External.Path, res.Payload)
		if v.IsEmpty() || screening.Validate(&q, v) != nil {
			co.Transition(fastpath.StateFailed)
			s.takeCoordinator(sessionID)
			s.notifyFastPath(sessionID, "we could not find the needed information, please answer manually")
			return
		}
		pending := &model.FastPathPending{
			QuestionID: q.ID,
			Value:      v,
			Payload:    res.Payload,
		}
		if err := s.sessionCache.SetPending(ctx, sessionID, pending); err != nil {
			s.log.Error().Err(err).Str("sessionId", sessionID).Msg("failed to stage fast-path value")
			co.Transition(fastpath.StateFailed)
			s.takeCoordinator(sessionID)
			return
		}
		co.Transition(fastpath.StateConfirming)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToConsumer(sessionID, "fastpath_value", map[string]interface{}{
				"questionId": q.ID,
				"value":      v,
			})
		}

	case fastpath.ResultWindowClosed:
		co.Transition(fastpath.StateFailed)
		s.takeCoordinator(sessionID)
		s.notifyFastPath(sessionID, "the connection was interrupted, please answer manually")

	case fastpath.ResultTimedOut:
		co.Transition(fastpath.StateFailed)
		s.takeCoordinator(sessionID)
		s.notifyFastPath(sessionID, "the connection timed out, please answer manually")
	}
}

func (s *ScreeningService) coordinator(sessionID string) *fastpath.Coordinator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coordinators[sessionID]
}

func (s *ScreeningService) takeCoordinator(sessionID string) *fastpath.Coordinator {
	s.mu.Lock()
	defer s.mu.Unlock()
	co := s.coordinators[sessionID]
	delete(s.coordinators, sessionID)
	return co
}

func (s *ScreeningService) broadcastFastPathState(sessionID string, state fastpath.State) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToConsumer(sessionID, "fastpath_state", map[string]interface{}{
		"state": string(state),
	})
}

// notifyFastPath sends the consumer a neutral failure message. The text
// never reveals which branch failed beyond what the consumer already saw.
func (s *ScreeningService) notifyFastPath(sessionID, message string) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToConsumer(sessionID, "fastpath_message", map[string]interface{}{
		"message": message,
	})
}
