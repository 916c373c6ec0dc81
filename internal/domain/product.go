package domain

// Product is a single suggested product as presented to the UI.
// Price is a display string ("$24.99"), not a numeric amount.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
}

// SuggestionResult is the outcome of one image analysis.
// SimilarItems and ComplementaryItems are always non-nil after
// service-level normalization, even when the analysis degraded.
type SuggestionResult struct {
	AnalysisText       string    `json:"analysisText"`
	SimilarItems       []Product `json:"similarItems"`
	ComplementaryItems []Product `json:"complementaryItems"`
}

// AnalysisRequest carries the uploaded image (base64) and an optional
// free-text hint from the user.
type AnalysisRequest struct {
	ImageData string `json:"imageData" binding:"required"`
	MimeType  string `json:"mimeType" binding:"required"`
	Hint      string `json:"hint,omitempty"`
}

// AnalysisResult pairs the suggestions with the chat session opened for
// follow-up questions. SessionID is empty when no session could be opened
// (for example when the model backend is unreachable).
type AnalysisResult struct {
	SessionID  string           `json:"sessionId,omitempty"`
	Suggestion SuggestionResult `json:"suggestion"`
}

// ChatRequest is a single follow-up message targeting an existing session.
type ChatRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	Message   string `json:"message" binding:"required"`
}
