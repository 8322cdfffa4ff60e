// ABOUTME: Orchestrates one chat turn from user message to grounded answer
// ABOUTME: Persists the user message before any retrieval work begins
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/atlascareer/atlas/internal/models"
)

// State labels the orchestrator's progress through one turn. The labels are
// stable: handler boundaries report them instead of internal error detail.
type State string

const (
	StateReceived           State = "received"
	StateUserPersisted      State = "user_persisted"
	StateContextRetrieved   State = "context_retrieved"
	StateGenerated          State = "generated"
	StateAssistantPersisted State = "assistant_persisted"
	StateDone               State = "done"
)

// TurnError reports which step a turn failed at. The failed step's state is
// the last one that completed; callers surface State and keep the cause for
// logs only.
type TurnError struct {
	State State
	Err   error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("chat turn failed after %s: %v", e.State, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

// MessageStore persists chat messages. Append-only per turn.
type MessageStore interface {
	SaveMessage(msg *models.ChatMessage) error
}

// SessionStore updates session freshness.
type SessionStore interface {
	TouchSession(sessionID string, at time.Time) error
}

// ContextRetriever supplies threshold-filtered passages for a query.
type ContextRetriever interface {
	Retrieve(ctx context.Context, ownerID, queryText string, topK int, threshold float32) ([]string, error)
}

// AnswerGenerator produces the grounded answer text.
type AnswerGenerator interface {
	Generate(ctx context.Context, userMessage string, contextPassages []string) (string, error)
}

// Result is the outcome of a completed turn.
type Result struct {
	UserMessage      *models.ChatMessage
	AssistantMessage *models.ChatMessage
}

// Orchestrator sequences one chat exchange. Each turn is independent; turns
// for the same owner may run concurrently, the owner ID being the only
// isolation boundary.
type Orchestrator struct {
	messages  MessageStore
	sessions  SessionStore
	retriever ContextRetriever
	generator AnswerGenerator

	topK      int
	threshold float32
}

// NewOrchestrator wires the collaborators for turn handling.
func NewOrchestrator(messages MessageStore, sessions SessionStore, retriever ContextRetriever, generator AnswerGenerator, topK int, threshold float32) *Orchestrator {
	return &Orchestrator{
		messages:  messages,
		sessions:  sessions,
		retriever: retriever,
		generator: generator,
		topK:      topK,
		threshold: threshold,
	}
}

// RunTurn executes one exchange: persist the user message, retrieve context,
// generate the answer, persist the assistant message with the exact passages
// used, then touch the session.
//
// The user message is saved before any retrieval work so a later failure
// never loses the user's input; a turn that fails after that point leaves the
// user message durably saved with no assistant reply, by design. Nothing is
// rolled back and nothing is retried.
func (o *Orchestrator) RunTurn(ctx context.Context, sessionID, ownerID, message string) (*Result, error) {
	state := StateReceived

	userMsg, err := models.NewChatMessage(sessionID, ownerID, models.RoleUser, message)
	if err != nil {
		return nil, &TurnError{State: state, Err: err}
	}
	if err := o.messages.SaveMessage(userMsg); err != nil {
		return nil, &TurnError{State: state, Err: fmt.Errorf("persisting user message: %w", err)}
	}
	state = StateUserPersisted

	passages, err := o.retriever.Retrieve(ctx, ownerID, message, o.topK, o.threshold)
	if err != nil {
		return nil, &TurnError{State: state, Err: fmt.Errorf("retrieving context: %w", err)}
	}
	state = StateContextRetrieved

	answer, err := o.generator.Generate(ctx, message, passages)
	if err != nil {
		return nil, &TurnError{State: state, Err: fmt.Errorf("generating response: %w", err)}
	}
	state = StateGenerated

	assistantMsg, err := models.NewChatMessage(sessionID, ownerID, models.RoleAssistant, answer)
	if err != nil {
		return nil, &TurnError{State: state, Err: err}
	}
	assistantMsg.RetrievedContext = passages
	if err := o.messages.SaveMessage(assistantMsg); err != nil {
		return nil, &TurnError{State: state, Err: fmt.Errorf("persisting assistant message: %w", err)}
	}
	state = StateAssistantPersisted

	if err := o.sessions.TouchSession(sessionID, time.Now().UTC()); err != nil {
		return nil, &TurnError{State: state, Err: fmt.Errorf("updating session: %w", err)}
	}

	return &Result{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}
