package domain

import (
	"context"
	"time"
)

// GenerativeClient is the model invocation boundary. Any backend producing
// free text from a multimodal request is substitutable here.
type GenerativeClient interface {
	AnalyzeImage(ctx context.Context, image []byte, mimeType, prompt string) (string, error)
	StartChat(ctx context.Context, systemInstruction string) (ChatSession, error)
}

// ChatSession is an opaque stateful conversation handle. It exposes only the
// single send capability the UI needs.
type ChatSession interface {
	SendMessage(ctx context.Context, text string) (string, error)
}

// SessionRepository stores live chat sessions between requests.
// Sessions are in-memory only; they do not survive a restart.
type SessionRepository interface {
	Put(ctx context.Context, id string, session ChatSession, ttl time.Duration) error
	Get(ctx context.Context, id string) (ChatSession, error)
	Delete(ctx context.Context, id string) error
}
