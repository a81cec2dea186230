package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"safenest/internal/ai"
	"safenest/internal/model"
)

const addressMarker = "📍"

// ChatGenerator is the multi-turn boundary to the text-generation service.
type ChatGenerator interface {
	Complete(ctx context.Context, messages []ai.Message) (string, error)
	Configured() bool
}

// HistoryCache is an optional read-through cache for session transcripts.
type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID string) ([]model.ClinicMessage, bool, error)
	SetHistory(ctx context.Context, sessionID string, messages []model.ClinicMessage) error
	DeleteHistory(ctx context.Context, sessionID string) error
}

// AsyncMessagePublisher hands a finished message to the persistence queue.
type AsyncMessagePublisher interface {
	Publish(ctx context.Context, msg model.ClinicMessage) error
}

// clinicSession holds one conversation's state. There is no package-level
// session; all state hangs off the service and is dropped by Reset.
type clinicSession struct {
	location string
	history  []model.ClinicMessage
}

// ClinicService answers "find me a prenatal clinic" style questions. Each
// session keeps its own history and location; answers list clinic addresses
// on marker lines so the client can push them into the map search.
type ClinicService struct {
	mu       sync.Mutex
	sessions map[string]*clinicSession

	generator       ChatGenerator
	cache           HistoryCache          // nil when redis is disabled
	publisher       AsyncMessagePublisher // nil when rabbitmq is disabled
	defaultLocation string
	maxHistory      int
}

func NewClinicService(
	generator ChatGenerator,
	cache HistoryCache,
	publisher AsyncMessagePublisher,
	defaultLocation string,
	maxHistory int,
) *ClinicService {
	if strings.TrimSpace(defaultLocation) == "" {
		defaultLocation = "Los Angeles, CA"
	}
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &ClinicService{
		sessions:        make(map[string]*clinicSession),
		generator:       generator,
		cache:           cache,
		publisher:       publisher,
		defaultLocation: defaultLocation,
		maxHistory:      maxHistory,
	}
}

type ClinicChatInput struct {
	SessionID string
	Message   string
	Location  string
}

type ClinicChatResult struct {
	SessionID string   `json:"session_id"`
	Response  string   `json:"response"`
	Addresses []string `json:"addresses"`
}

// SendMessage appends the user turn, asks the generator with the session's
// recent history, and records the assistant turn. The lock is never held
// across the generation call.
func (s *ClinicService) SendMessage(ctx context.Context, input ClinicChatInput) (*ClinicChatResult, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrInvalidInput
	}
	if !s.generator.Configured() {
		return nil, ErrGeneratorNotConfigured
	}

	s.mu.Lock()
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	session, ok := s.sessions[sessionID]
	if !ok {
		session = &clinicSession{location: s.defaultLocation}
		s.sessions[sessionID] = session
	}
	if loc := strings.TrimSpace(input.Location); loc != "" {
		session.location = loc
	}
	location := session.location
	history := append([]model.ClinicMessage(nil), session.history...)
	s.mu.Unlock()

	messages := buildClinicMessages(location, history, message)
	response, err := s.generator.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMsg := model.ClinicMessage{SessionID: sessionID, Role: model.RoleUser, Content: message, CreatedAt: now}
	assistantMsg := model.ClinicMessage{SessionID: sessionID, Role: model.RoleAssistant, Content: response, CreatedAt: now}

	s.mu.Lock()
	session.history = append(session.history, userMsg, assistantMsg)
	if overflow := len(session.history) - s.maxHistory; overflow > 0 {
		session.history = session.history[overflow:]
	}
	cached := append([]model.ClinicMessage(nil), session.history...)
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.SetHistory(ctx, sessionID, cached); err != nil {
			log.Printf("cache clinic history failed: %v", err)
		}
	}
	if s.publisher != nil {
		for _, msg := range []model.ClinicMessage{userMsg, assistantMsg} {
			if err := s.publisher.Publish(ctx, msg); err != nil {
				log.Printf("publish clinic message failed: %v", err)
			}
		}
	}

	return &ClinicChatResult{
		SessionID: sessionID,
		Response:  response,
		Addresses: ExtractAddresses(response),
	}, nil
}

// History returns the session transcript, preferring the cache when present.
func (s *ClinicService) History(ctx context.Context, sessionID string) ([]model.ClinicMessage, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}

	if s.cache != nil {
		if cached, ok, err := s.cache.GetHistory(ctx, sessionID); err == nil && ok {
			return cached, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrClinicSessionNotFound
	}
	return append([]model.ClinicMessage(nil), session.history...), nil
}

// Location returns the session's current search location.
func (s *ClinicService) Location(sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrClinicSessionNotFound
	}
	return session.location, nil
}

// Reset drops the session's history and location back to empty.
func (s *ClinicService) Reset(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.DeleteHistory(ctx, sessionID); err != nil {
			log.Printf("delete cached clinic history failed: %v", err)
		}
	}
	return nil
}

func buildClinicMessages(location string, history []model.ClinicMessage, message string) []ai.Message {
	system := fmt.Sprintf(`You are a helpful assistant that recommends prenatal and maternal healthcare clinics near %s. When you recommend a clinic, put its full street address on its own line starting with %s so it can be located on a map. Keep answers short and practical, and remind the user to confirm details with the clinic directly.`, location, addressMarker)

	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages, ai.Message{Role: "system", Content: system})
	for _, msg := range history {
		messages = append(messages, ai.Message{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, ai.Message{Role: model.RoleUser, Content: message})
	return messages
}

// ExtractAddresses pulls the marker-prefixed address lines out of a clinic
// answer, in order of appearance.
func ExtractAddresses(response string) []string {
	var addresses []string
	for _, line := range strings.Split(response, "\n") {
		if !strings.Contains(line, addressMarker) {
			continue
		}
		address := strings.TrimSpace(strings.ReplaceAll(line, addressMarker, ""))
		if address != "" {
			addresses = append(addresses, address)
		}
	}
	return addresses
}
