package service

import (
	"context"
	"sync"

	"discharge-assist-be/internal/constant"
	"discharge-assist-be/internal/dto"
	"discharge-assist-be/internal/pkg/logger"
	"discharge-assist-be/internal/pkg/serverutils"
	"discharge-assist-be/internal/repository/memory"
	"discharge-assist-be/pkg/agent"
	"discharge-assist-be/pkg/agent/router"
	"discharge-assist-be/pkg/rag/pipeline"
	"discharge-assist-be/pkg/rag/websearch"
	"discharge-assist-be/pkg/store"
)

const welcomeMessage = "Hello! I am the post-discharge assistant. Could you share the patient's full name so I can pull up the discharge report?"

type IAssistantService interface {
	StartSession(ctx context.Context) (*dto.StartSessionResponse, error)
	// HandleReceptionistTurn routes one turn through the conversation
	// state machine, running the clinical flow in the same call when
	// the router hands off.
	HandleReceptionistTurn(ctx context.Context, req *dto.AgentTurnRequest) (*dto.AgentTurnResponse, error)
	// HandleClinicalTurn sends the turn straight to the clinical answer
	// chain, skipping triage.
	HandleClinicalTurn(ctx context.Context, req *dto.AgentTurnRequest) (*dto.AgentTurnResponse, error)
	SearchWeb(ctx context.Context, query string) (*dto.WebSearchResponse, error)
}

type assistantService struct {
	sessions *memory.SessionRepository
	router   *router.Router
	pipeline *pipeline.Pipeline
	searcher websearch.Searcher
	logger   logger.ILogger

	// Per-session locks: two in-flight requests for the same session id
	// must not mutate it concurrently.
	sessionLocks sync.Map // session id -> *sync.Mutex
}

func NewAssistantService(
	sessions *memory.SessionRepository,
	rt *router.Router,
	pl *pipeline.Pipeline,
	searcher websearch.Searcher,
	l logger.ILogger,
) IAssistantService {
	return &assistantService{
		sessions: sessions,
		router:   rt,
		pipeline: pl,
		searcher: searcher,
		logger:   l,
	}
}

func (s *assistantService) StartSession(ctx context.Context) (*dto.StartSessionResponse, error) {
	session := store.NewSession()
	s.sessions.Save(session)

	s.logger.Info(constant.ModuleAssistant, "session started", map[string]interface{}{
		"session_id": session.ID,
	})

	return &dto.StartSessionResponse{
		SessionID: session.ID,
		Message:   welcomeMessage,
	}, nil
}

func (s *assistantService) HandleReceptionistTurn(ctx context.Context, req *dto.AgentTurnRequest) (*dto.AgentTurnResponse, error) {
	session, unlock, err := s.lockSession(req.SessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	outcome := s.router.Route(ctx, session, req.UserInput)

	response := outcome.Response
	if outcome.Handoff {
		// The hand-off carries the unmodified turn text plus the bound
		// patient context into the clinical chain.
		response, err = s.pipeline.Answer(ctx, req.UserInput, session.Patient)
		if err != nil {
			s.logger.Error(constant.ModuleAssistant, "clinical pipeline unavailable", map[string]interface{}{
				"session_id": session.ID,
				"error":      err.Error(),
			})
			return nil, serverutils.NewApiError(503, "the answer pipeline is unavailable right now")
		}
		session.PendingStep = ""
	}

	s.recordExchange(session, req.UserInput, response)
	return toTurnResponse(session.ID, response), nil
}

func (s *assistantService) HandleClinicalTurn(ctx context.Context, req *dto.AgentTurnRequest) (*dto.AgentTurnResponse, error) {
	session, unlock, err := s.lockSession(req.SessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	response, err := s.pipeline.Answer(ctx, req.UserInput, session.Patient)
	if err != nil {
		s.logger.Error(constant.ModuleAssistant, "clinical pipeline unavailable", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		return nil, serverutils.NewApiError(503, "the answer pipeline is unavailable right now")
	}
	session.PendingStep = ""

	s.recordExchange(session, req.UserInput, response)
	return toTurnResponse(session.ID, response), nil
}

func (s *assistantService) SearchWeb(ctx context.Context, query string) (*dto.WebSearchResponse, error) {
	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	res := &dto.WebSearchResponse{Results: make([]dto.WebSearchResult, len(results))}
	for i, r := range results {
		res.Results[i] = dto.WebSearchResult{
			Title:   r.Title,
			Snippet: r.Snippet,
			URL:     r.URL,
		}
	}
	return res, nil
}

// lockSession resolves the session and takes its mutex. The returned
// unlock must be deferred by the caller.
func (s *assistantService) lockSession(sessionID string) (*store.Session, func(), error) {
	muAny, _ := s.sessionLocks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()

	session, found := s.sessions.Get(sessionID)
	if !found {
		mu.Unlock()
		return nil, nil, serverutils.NotFoundError("session not found, start a new one")
	}
	return session, mu.Unlock, nil
}

func (s *assistantService) recordExchange(session *store.Session, userText string, response *agent.Response) {
	session.Append(store.RoleUser, userText)
	if response != nil {
		session.Append(store.RoleAssistant, response.Response)
	}
	s.sessions.Save(session)
}

func toTurnResponse(sessionID string, response *agent.Response) *dto.AgentTurnResponse {
	if response == nil {
		response = agent.NewSystemResponse("")
	}
	return &dto.AgentTurnResponse{
		SessionID:  sessionID,
		Response:   response.Response,
		SourceType: string(response.SourceType),
		Sources:    response.Sources,
	}
}
