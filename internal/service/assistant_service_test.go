package service

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"discharge-assist-be/internal/dto"
	"discharge-assist-be/internal/pkg/logger"
	"discharge-assist-be/internal/pkg/serverutils"
	"discharge-assist-be/internal/repository/memory"
	"discharge-assist-be/pkg/agent"
	"discharge-assist-be/pkg/agent/router"
	"discharge-assist-be/pkg/embedding"
	"discharge-assist-be/pkg/llm/mock"
	"discharge-assist-be/pkg/rag/generator"
	"discharge-assist-be/pkg/rag/pipeline"
	"discharge-assist-be/pkg/rag/retriever"
	"discharge-assist-be/pkg/rag/websearch"
	"discharge-assist-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOfflineAssistant builds the full conversational stack the way the
// offline bootstrap does: deterministic backend, in-memory index and
// directory, stub web search.
func newOfflineAssistant(t *testing.T) (IAssistantService, *memory.PatientDirectory) {
	t.Helper()

	sysLogger := logger.NewZapLogger(filepath.Join(t.TempDir(), "app.log"), false)
	stdLogger := log.New(io.Discard, "", 0)

	directory := memory.NewPatientDirectory()
	directory.Add(&store.PatientRecord{
		ID:               "11111111-1111-1111-1111-111111111111",
		Name:             "John Smith",
		DischargeDate:    "2024-01-15",
		PrimaryDiagnosis: "Acute on chronic kidney disease",
		Medications:      []string{"Lisinopril 10mg", "Furosemide 40mg"},
		WarningSigns:     []string{"Swelling", "Shortness of breath"},
	})

	provider := mock.New()
	embedder := embedding.NewHashingProvider(64)
	index := memory.NewChunkIndex()

	ret := retriever.NewRetriever(embedder, index, 0, stdLogger)
	gen := generator.NewGenerator(provider, stdLogger)
	pl := pipeline.NewPipeline(ret, gen, websearch.NewStubSearcher(), pipeline.DefaultTopK, stdLogger)
	rt := router.NewRouter(provider, directory, nil, stdLogger)

	return NewAssistantService(memory.NewSessionRepository(), rt, pl, websearch.NewStubSearcher(), sysLogger), directory
}

func turn(t *testing.T, svc IAssistantService, sessionID, input string) *dto.AgentTurnResponse {
	t.Helper()
	resp, err := svc.HandleReceptionistTurn(context.Background(), &dto.AgentTurnRequest{
		SessionID: sessionID,
		UserInput: input,
	})
	require.NoError(t, err)
	return resp
}

func TestStartSession(t *testing.T) {
	svc, _ := newOfflineAssistant(t)

	resp, err := svc.StartSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.Contains(t, resp.Message, "full name")
}

func TestReceptionistConversationFlow(t *testing.T) {
	svc, _ := newOfflineAssistant(t)

	start, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	// Greeting: deterministic, no sources.
	greeting := turn(t, svc, start.SessionID, "Hello")
	assert.Equal(t, string(agent.SourceSystem), greeting.SourceType)
	assert.Empty(t, greeting.Sources)

	// Name: binds the patient and summarizes the report.
	bound := turn(t, svc, start.SessionID, "John Smith")
	assert.Equal(t, string(agent.SourceSystem), bound.SourceType)
	assert.Contains(t, bound.Response, "Acute on chronic kidney disease")
	assert.Contains(t, bound.Response, "2024-01-15")

	// Clinical question: triage hands off to the answer chain in the
	// same call.
	clinical := turn(t, svc, start.SessionID, "What does the swelling in my legs mean?")
	assert.Contains(t, clinical.Response, "Disclaimer:")
}

func TestReceptionistUnknownSession(t *testing.T) {
	svc, _ := newOfflineAssistant(t)

	_, err := svc.HandleReceptionistTurn(context.Background(), &dto.AgentTurnRequest{
		SessionID: "no-such-session",
		UserInput: "hello",
	})
	require.Error(t, err)

	var apiErr *serverutils.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.Status)
}

func TestClinicalTurnSkipsTriage(t *testing.T) {
	svc, _ := newOfflineAssistant(t)

	start, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	// Even a phrasing triage would catch as urgent goes straight to the
	// answer chain here.
	resp, err := svc.HandleClinicalTurn(context.Background(), &dto.AgentTurnRequest{
		SessionID: start.SessionID,
		UserInput: "Tell me about medication schedules",
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "Disclaimer:")
	assert.NotEqual(t, "", resp.SourceType)
}

func TestTurnsAreRecorded(t *testing.T) {
	svc, _ := newOfflineAssistant(t)
	impl := svc.(*assistantService)

	start, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	turn(t, svc, start.SessionID, "Hello")
	turn(t, svc, start.SessionID, "John Smith")

	session, found := impl.sessions.Get(start.SessionID)
	require.True(t, found)
	require.Len(t, session.Turns, 4)
	assert.Equal(t, store.RoleUser, session.Turns[0].Role)
	assert.Equal(t, store.RoleAssistant, session.Turns[1].Role)
	assert.True(t, session.Bound())
}

func TestEscalatedAnswerCarriesWebSources(t *testing.T) {
	svc, _ := newOfflineAssistant(t)

	start, err := svc.StartSession(context.Background())
	require.NoError(t, err)
	turn(t, svc, start.SessionID, "John Smith")

	resp := turn(t, svc, start.SessionID, "What is the latest research on my medication options?")
	assert.Equal(t, string(agent.SourceWeb), resp.SourceType)
	require.NotEmpty(t, resp.Sources)
	for _, s := range resp.Sources {
		assert.True(t, s.IsWeb(), "source %+v should be web shaped", s)
	}
}

func TestSearchWeb(t *testing.T) {
	svc, _ := newOfflineAssistant(t)

	resp, err := svc.SearchWeb(context.Background(), "post discharge kidney care")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	for _, r := range resp.Results {
		assert.True(t, strings.HasPrefix(r.URL, "https://"))
		assert.NotEmpty(t, r.Title)
	}
}
