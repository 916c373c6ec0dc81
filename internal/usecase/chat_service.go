package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/shoplens/backend/internal/domain"
)

// chatApology is what the user sees when the model could not be reached for a
// follow-up message. The conversation stays usable; nothing crashes.
const chatApology = "Sorry, I ran into a problem answering that. Please try again."

// ChatService handles follow-up messages against sessions opened by the
// analysis flow. Replies are opaque display text; no JSON parsing happens here.
type ChatService struct {
	sessions domain.SessionRepository
}

// NewChatService creates a new chat service
func NewChatService(sessions domain.SessionRepository) *ChatService {
	return &ChatService{sessions: sessions}
}

// SendMessage forwards one message to an existing session and returns the
// reply. Unknown or expired sessions return ErrSessionNotFound; a failed model
// call returns the apology text with a nil error.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, message string) (string, error) {
	if sessionID == "" || message == "" {
		return "", domain.ErrInvalidRequest
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return "", err
		}
		return "", domain.ErrSessionNotFound
	}

	reply, err := session.SendMessage(ctx, message)
	if err != nil {
		log.Printf("[CHAT] send failed for session %s: %v", sessionID, err)
		return chatApology, nil
	}

	return reply, nil
}
