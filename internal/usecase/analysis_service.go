package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shoplens/backend/internal/domain"
)

// suggestionPayload mirrors the JSON schema the analysis prompt demands.
// Slice fields may come back nil when the model omitted them; normalization
// guarantees the domain result never exposes that.
type suggestionPayload struct {
	AnalysisText       string           `json:"analysisText"`
	SimilarItems       []domain.Product `json:"similarItems"`
	ComplementaryItems []domain.Product `json:"complementaryItems"`
}

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	SessionTTL       time.Duration
	MaxImageBytes    int64
	AllowedMimeTypes []string
}

// AnalysisService runs the image -> suggestions flow: one multimodal model
// call, JSON recovery, result normalization, and opening the follow-up chat
// session.
type AnalysisService struct {
	model            domain.GenerativeClient
	sessions         domain.SessionRepository
	sessionTTL       time.Duration
	maxImageBytes    int64
	allowedMimeTypes map[string]bool
}

// NewAnalysisService creates a new analysis service with dependencies
func NewAnalysisService(
	model domain.GenerativeClient,
	sessions domain.SessionRepository,
	config AnalysisServiceConfig,
) *AnalysisService {
	ttl := config.SessionTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	maxBytes := config.MaxImageBytes
	if maxBytes == 0 {
		maxBytes = 4 << 20 // 4 MiB
	}
	allowed := make(map[string]bool, len(config.AllowedMimeTypes))
	for _, mt := range config.AllowedMimeTypes {
		allowed[mt] = true
	}
	if len(allowed) == 0 {
		allowed = map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
		}
	}

	return &AnalysisService{
		model:            model,
		sessions:         sessions,
		sessionTTL:       ttl,
		maxImageBytes:    maxBytes,
		allowedMimeTypes: allowed,
	}
}

// AnalyzeImage analyzes an uploaded image and returns product suggestions
// plus the ID of the chat session opened for follow-up questions.
//
// Invalid input is the only error condition. Transport and parse failures are
// converted into a well-formed degraded result: both product slices present
// and empty, and an analysis text describing the failure.
func (s *AnalysisService) AnalyzeImage(ctx context.Context, request *domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	if request == nil || request.ImageData == "" {
		return nil, domain.ErrInvalidRequest
	}
	if !s.allowedMimeTypes[request.MimeType] {
		return nil, fmt.Errorf("%w: unsupported image type %q", domain.ErrInvalidRequest, request.MimeType)
	}

	image, err := base64.StdEncoding.DecodeString(request.ImageData)
	if err != nil {
		return nil, fmt.Errorf("%w: image data is not valid base64", domain.ErrInvalidRequest)
	}
	if int64(len(image)) > s.maxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidRequest, s.maxImageBytes)
	}

	text, err := s.model.AnalyzeImage(ctx, image, request.MimeType, analysisPrompt(request.Hint))
	if err != nil {
		log.Printf("[ANALYSIS] model invocation failed: %v", err)
		return &domain.AnalysisResult{
			Suggestion: degradedSuggestion(fmt.Sprintf(
				"Image analysis failed: %v. Please try again in a moment.", err)),
		}, nil
	}

	payload, ok := ParseModelJSON[suggestionPayload](text)
	if !ok {
		log.Printf("[ANALYSIS] could not recover JSON from model response (%d chars)", len(text))
		return &domain.AnalysisResult{
			Suggestion: degradedSuggestion(
				"The model returned a response that could not be understood. Please try analyzing the image again."),
		}, nil
	}

	suggestion := normalizeSuggestion(payload)

	return &domain.AnalysisResult{
		SessionID:  s.openChatSession(ctx, suggestion.AnalysisText),
		Suggestion: suggestion,
	}, nil
}

// openChatSession starts the follow-up conversation and registers it in the
// session store. Failure to open a session degrades to an empty ID; the
// analysis result is still returned.
func (s *AnalysisService) openChatSession(ctx context.Context, analysisText string) string {
	session, err := s.model.StartChat(ctx, chatSystemInstruction(analysisText))
	if err != nil {
		log.Printf("[ANALYSIS] could not open chat session: %v", err)
		return ""
	}

	id := uuid.NewString()
	if err := s.sessions.Put(ctx, id, session, s.sessionTTL); err != nil {
		log.Printf("[ANALYSIS] could not store chat session: %v", err)
		return ""
	}

	return id
}

// normalizeSuggestion converts the decoded payload to a domain result with
// non-nil slices and IDs unique within the result.
func normalizeSuggestion(payload suggestionPayload) domain.SuggestionResult {
	result := domain.SuggestionResult{
		AnalysisText:       payload.AnalysisText,
		SimilarItems:       payload.SimilarItems,
		ComplementaryItems: payload.ComplementaryItems,
	}
	if result.SimilarItems == nil {
		result.SimilarItems = []domain.Product{}
	}
	if result.ComplementaryItems == nil {
		result.ComplementaryItems = []domain.Product{}
	}

	seen := make(map[string]bool, len(result.SimilarItems)+len(result.ComplementaryItems))
	ensureUniqueIDs(result.SimilarItems, seen)
	ensureUniqueIDs(result.ComplementaryItems, seen)

	return result
}

// ensureUniqueIDs reassigns empty or duplicate product IDs in place.
func ensureUniqueIDs(products []domain.Product, seen map[string]bool) {
	for i := range products {
		if products[i].ID == "" || seen[products[i].ID] {
			products[i].ID = uuid.NewString()
		}
		seen[products[i].ID] = true
	}
}

// degradedSuggestion builds the non-fatal failure result: the analysis text
// explains what went wrong and both product slices are present and empty.
func degradedSuggestion(analysisText string) domain.SuggestionResult {
	return domain.SuggestionResult{
		AnalysisText:       analysisText,
		SimilarItems:       []domain.Product{},
		ComplementaryItems: []domain.Product{},
	}
}
