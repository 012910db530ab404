package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pkgr6286/aegis-sub002/internal/cache"
	"github.com/pkgr6286/aegis-sub002/internal/config"
	"github.com/pkgr6286/aegis-sub002/internal/model"
	"github.com/pkgr6286/aegis-sub002/internal/repository"
	"github.com/pkgr6286/aegis-sub002/internal/screening"
	"github.com/pkgr6286/aegis-sub002/internal/screening/fastpath"
)

var (
	ErrSessionNotFound     = errors.New("screening session not found")
	ErrSessionClosed       = errors.New("screening session is not active")
	ErrNotCurrentQuestion  = errors.New("answer does not target the current question")
	ErrNoCurrentQuestion   = errors.New("no current question")
	ErrNoFastPath          = errors.New("fast path is not available for the current question")
	ErrFastPathActive      = errors.New("a fast-path attempt is already in progress")
	ErrFastPathInactive    = errors.New("no fast-path attempt is active")
	ErrNothingToConfirm    = errors.New("no fast-path value awaiting confirmation")
	ErrScreeningIncomplete = errors.New("screening is not complete")
)

// ScreeningService orchestrates consumer screening sessions: navigation,
// answer commits, the external fast path, and the exactly-once final
// submission. The engine itself stays pure; this service owns all the
// state movement around it.
type ScreeningService struct {
	programSvc   *ProgramService
	sessionRepo  repository.SessionRepo
	sessionCache cache.SessionCache
	authSvc      *AuthService
	outcomeSvc   OutcomeEvaluator
	verifySvc    *VerificationService
	fastPathCfg  *config.FastPathConfig
	broadcaster  Broadcaster
	clock        fastpath.Clock
	log          zerolog.Logger

	mu           sync.Mutex
	coordinators map[string]*fastpath.Coordinator
}

// NewScreeningService creates a new screening service
func NewScreeningService(
	programSvc *ProgramService,
	sessionRepo repository.SessionRepo,
	sessionCache cache.SessionCache,
	authSvc *AuthService,
	outcomeSvc OutcomeEvaluator,
	verifySvc *VerificationService,
	fastPathCfg *config.FastPathConfig,
	log zerolog.Logger,
) *ScreeningService {
	return &ScreeningService{
		programSvc:   programSvc,
		sessionRepo:  sessionRepo,
		sessionCache: sessionCache,
		authSvc:      authSvc,
		outcomeSvc:   outcomeSvc,
		verifySvc:    verifySvc,
		fastPathCfg:  fastPathCfg,
		clock:        fastpath.SystemClock(),
		log:          log,
		coordinators: make(map[string]*fastpath.Coordinator),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *ScreeningService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetClock injects the fast-path clock; tests use a fake
func (s *ScreeningService) SetClock(c fastpath.Clock) {
	s.clock = c
}

// StartSession begins a screening for a published program and mints the
// consumer's session-scoped token.
func (s *ScreeningService) StartSession(ctx context.Context, programID string) (*model.StartScreeningResponse, error) {
	catalog, err := s.programSvc.LoadCatalog(ctx, programID)
	if err != nil {
		return nil, err
	}

	sessionID := "scr_" + uuid.New().String()[:8]
	consumerID := "c_" + uuid.New().String()[:8]

	token, err := s.authSvc.GenerateConsumerToken(programID, sessionID, consumerID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session := &model.ScreeningSession{
		ID:             sessionID,
		ProgramID:      programID,
		ConsumerID:     consumerID,
		CatalogVersion: catalog.Version,
		Status:         model.SessionActive,
		StartedAt:      time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	st := screening.NewState()
	if err := s.sessionCache.SetNavState(ctx, sessionID, st); err != nil {
		return nil, fmt.Errorf("failed to init navigation: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToAdmin(programID, "screening_started", map[string]interface{}{
			"sessionId": sessionID,
		})
	}

	return &model.StartScreeningResponse{
		SessionID:  sessionID,
		ConsumerID: consumerID,
		Token:      token,
		Question:   s.view(catalog, screening.AnswerMap{}, st),
		Progress:   0,
	}, nil
}

// CurrentQuestion returns the consumer's current position
func (s *ScreeningService) CurrentQuestion(ctx context.Context, sessionID string) (*model.CurrentQuestionResponse, error) {
	_, catalog, answers, st, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &model.CurrentQuestionResponse{
		Question: s.view(catalog, answers, st),
		Progress: screening.Progress(catalog, answers),
		Complete: st.Complete,
	}, nil
}

// SubmitAnswer validates and commits one answer for the current question,
// then advances navigation. A validation rejection comes back in the
// response, not as an error. Reaching terminal state triggers the final
// submission.
func (s *ScreeningService) SubmitAnswer(ctx context.Context, sessionID string, req *model.SubmitAnswerRequest) (*model.SubmitAnswerResponse, error) {
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
	if req.QuestionID != q.ID {
		return nil, ErrNotCurrentQuestion
	}

	if verr := screening.Validate(&q, req.Value); verr != nil {
		return &model.SubmitAnswerResponse{
			Invalid:  verr,
			Question: s.view(catalog, answers, st),
			Progress: screening.Progress(catalog, answers),
		}, nil
	}

	answers.Set(q.ID, req.Value)
	if err := s.sessionCache.SetAnswer(ctx, sessionID, q.ID, req.Value); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	nav := screening.NewNavigator(catalog, answers)
	nav.Forward(st)
	if err := s.sessionCache.SetNavState(ctx, sessionID, st); err != nil {
		return nil, fmt.Errorf("failed to save navigation: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToAdmin(session.ProgramID, "screening_progress", map[string]interface{}{
			"sessionId": sessionID,
			"progress":  screening.Progress(catalog, answers),
			"complete":  st.Complete,
		})
	}

	resp := &model.SubmitAnswerResponse{
		Question: s.view(catalog, answers, st),
		Progress: screening.Progress(catalog, answers),
		Complete: st.Complete,
	}

	if st.Complete {
		eval, err := s.finalize(ctx, session, answers)
		if err != nil {
			// The answer map stays intact in the cache; the consumer can
			// retry via the explicit submit endpoint.
			return nil, fmt.Errorf("submission failed: %w", err)
		}
		resp.Evaluation = eval
	}

	return resp, nil
}

// GoBack retraces the last forward move
func (s *ScreeningService) GoBack(ctx context.Context, sessionID string) (*model.CurrentQuestionResponse, error) {
	session, catalog, answers, st, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionActive {
		return nil, ErrSessionClosed
	}

	nav := screening.NewNavigator(catalog, answers)
	nav.Back(st)
	if err := s.sessionCache.SetNavState(ctx, sessionID, st); err != nil {
		return nil, fmt.Errorf("failed to save navigation: %w", err)
	}

	return &model.CurrentQuestionResponse{
		Question: s.view(catalog, answers, st),
		Progress: screening.Progress(catalog, answers),
		Complete: st.Complete,
	}, nil
}

// Restart clears the answer map and navigation, returning the session to
// the first question. Any pending fast-path attempt is torn down.
func (s *ScreeningService) Restart(ctx context.Context, sessionID string) (*model.CurrentQuestionResponse, error) {
	session, catalog, _, _, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionActive {
		return nil, ErrSessionClosed
	}

	if co := s.coordinator(sessionID); co != nil {
		co.WindowClosed()
	}
	if err := s.sessionCache.ClearAnswers(ctx, sessionID); err != nil {
		return nil, err
	}
	if err := s.sessionCache.ClearPending(ctx, sessionID); err != nil {
		return nil, err
	}

	st := screening.NewState()
	if err := s.sessionCache.SetNavState(ctx, sessionID, st); err != nil {
		return nil, err
	}

	return &model.CurrentQuestionResponse{
		Question: s.view(catalog, screening.AnswerMap{}, st),
		Progress: 0,
	}, nil
}

// Progress reports completion state without touching navigation
func (s *ScreeningService) Progress(ctx context.Context, sessionID string) (*model.ProgressResponse, error) {
	_, catalog, answers, _, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	missing := screening.UnansweredRequired(catalog, answers)
	ids := make([]string, 0, len(missing))
	for _, q := range missing {
		ids = append(ids, q.ID)
	}
	return &model.ProgressResponse{
		Progress:           screening.Progress(catalog, answers),
		Complete:           len(ids) == 0,
		UnansweredRequired: ids,
	}, nil
}

// SubmitScreening performs (or retries) the final submission explicitly.
// Used when terminal-state submission failed and the consumer retries.
func (s *ScreeningService) SubmitScreening(ctx context.Context, sessionID string) (*model.SubmitAnswerResponse, error) {
	session, catalog, answers, _, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == model.SessionSubmitted {
		return &model.SubmitAnswerResponse{
			Progress:   screening.Progress(catalog, answers),
			Complete:   true,
			Evaluation: session.Evaluation,
		}, nil
	}
	if !screening.IsComplete(catalog, answers) {
		return nil, ErrScreeningIncomplete
	}

	eval, err := s.finalize(ctx, session, answers)
	if err != nil {
		return nil, fmt.Errorf("submission failed: %w", err)
	}
	return &model.SubmitAnswerResponse{
		Progress:   screening.Progress(catalog, answers),
		Complete:   true,
		Evaluation: eval,
	}, nil
}

// load fetches the session record plus its catalog and live state.
func (s *ScreeningService) load(ctx context.Context, sessionID string) (*model.ScreeningSession, *screening.Catalog, screening.AnswerMap, *screening.State, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, nil, nil, nil, ErrSessionNotFound
	}

	catalog, err := s.programSvc.LoadCatalog(ctx, session.ProgramID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	answers, err := s.sessionCache.GetAnswers(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to get answers: %w", err)
	}
	if answers == nil {
		answers = screening.AnswerMap{}
	}

	st, err := s.sessionCache.GetNavState(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to get navigation: %w", err)
	}
	if st == nil {
		st = screening.NewState()
	}
	return session, catalog, answers, st, nil
}

// view renders the current question, or nil when the state is terminal.
func (s *ScreeningService) view(catalog *screening.Catalog, answers screening.AnswerMap, st *screening.State) *model.QuestionView {
	if st.Complete || st.CurrentIndex < 0 || st.CurrentIndex >= len(catalog.Questions) {
		return nil
	}
	q := catalog.Questions[st.CurrentIndex]
	return &model.QuestionView{
		Index:             st.CurrentIndex,
		Question:          q,
		FastPathAvailable: q.External != nil && !answers.Answered(q.ID),
	}
}

// finalize funnels both submission paths (navigation terminal and
// fast-path submit-early) into the single MarkSubmitted call. A lost race
// against a concurrent submit is resolved by returning the stored
// evaluation.
func (s *ScreeningService) finalize(ctx context.Context, session *model.ScreeningSession, answers screening.AnswerMap) (*model.Evaluation, error) {
	eval, err := s.outcomeSvc.Evaluate(ctx, session.ProgramID, answers)
	if err != nil {
		return nil, fmt.Errorf("outcome evaluation failed: %w", err)
	}

	code := ""
	if eval.Outcome == model.OutcomeEligible {
		vc, err := s.verifySvc.Issue(ctx, session.ID, session.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("code issuance failed: %w", err)
		}
		code = vc.Code
	}

	if err := s.sessionRepo.MarkSubmitted(ctx, session.ID, answers, eval, code); err != nil {
		if errors.Is(err, repository.ErrAlreadySubmitted) {
			stored, gerr := s.sessionRepo.GetByID(ctx, session.ID)
			if gerr == nil && stored != nil && stored.Evaluation != nil {
				return stored.Evaluation, nil
			}
		}
		return nil, err
	}

	s.log.Info().
		Str("sessionId", session.ID).
		Str("programId", session.ProgramID).
		Str("outcome", string(eval.Outcome)).
		Msg("screening submitted")

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToConsumer(session.ID, "evaluation_result", map[string]interface{}{
			"outcome":          eval.Outcome,
			"reason":           eval.Reason,
			"verificationCode": code,
		})
		s.broadcaster.BroadcastToAdmin(session.ProgramID, "screening_submitted", map[string]interface{}{
			"sessionId": session.ID,
			"outcome":   eval.Outcome,
		})
	}

	return eval, nil
}
