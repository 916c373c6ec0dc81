package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shoplens/backend/config"
	"github.com/shoplens/backend/internal/domain"
	"github.com/shoplens/backend/internal/infrastructure/session"
	"github.com/shoplens/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// stubChatSession answers every message with a fixed reply.
type stubChatSession struct {
	reply   string
	sendErr error
}

func (s *stubChatSession) SendMessage(ctx context.Context, text string) (string, error) {
	if s.sendErr != nil {
		return "", s.sendErr
	}
	return s.reply, nil
}

// stubModel is a canned GenerativeClient for end-to-end handler tests.
type stubModel struct {
	analysisText string
	analysisErr  error
}

func (s *stubModel) AnalyzeImage(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	if s.analysisErr != nil {
		return "", s.analysisErr
	}
	return s.analysisText, nil
}

func (s *stubModel) StartChat(ctx context.Context, systemInstruction string) (domain.ChatSession, error) {
	return &stubChatSession{reply: "It also comes in black."}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		Session:   config.SessionConfig{TTL: time.Hour},
		Upload:    config.UploadConfig{MaxImageBytes: 4 << 20, AllowedMimeTypes: []string{"image/png", "image/jpeg"}},
		RateLimit: config.RateLimitConfig{PerIP: 0}, // disabled in tests
	}
}

// setupTestRouter wires real services over a stubbed model backend.
func setupTestRouter(model domain.GenerativeClient) *gin.Engine {
	store := session.NewMemoryStore()
	analysisService := usecase.NewAnalysisService(model, store, usecase.AnalysisServiceConfig{})
	chatService := usecase.NewChatService(store)

	handler := NewHandler(analysisService, chatService)
	return SetupRouter(testConfig(), handler)
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

const stubAnalysisJSON = `{
  "analysisText": "White leather sneakers.",
  "similarItems": [{"id":"s1","name":"Canvas Sneakers","description":"Low-top","price":"$49.99","imageUrl":"","category":"shoes"}],
  "complementaryItems": [{"id":"c1","name":"No-Show Socks","description":"3-pack","price":"$9.99","imageUrl":"","category":"apparel"}]
}`

func analysisBody() map[string]string {
	return map[string]string{
		"imageData": base64.StdEncoding.EncodeToString([]byte("fake image bytes")),
		"mimeType":  "image/png",
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(&stubModel{analysisText: stubAnalysisJSON})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
}

func TestAnalysisEndpoint_Success(t *testing.T) {
	router := setupTestRouter(&stubModel{analysisText: stubAnalysisJSON})

	w := postJSON(router, "/api/v1/analysis", analysisBody())

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if result.SessionID == "" {
		t.Error("expected a session ID")
	}
	if len(result.Suggestion.SimilarItems) != 1 {
		t.Errorf("SimilarItems = %d, want 1", len(result.Suggestion.SimilarItems))
	}
}

func TestAnalysisEndpoint_TransportFailureIsStill200(t *testing.T) {
	router := setupTestRouter(&stubModel{
		analysisErr: fmt.Errorf("%w: quota exhausted", domain.ErrModelUnavailable),
	})

	w := postJSON(router, "/api/v1/analysis", analysisBody())

	if w.Code != http.StatusOK {
		t.Fatalf("degraded analysis must be 200, got %d", w.Code)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if result.Suggestion.SimilarItems == nil || result.Suggestion.ComplementaryItems == nil {
		t.Error("product slices must be present (empty) on failure")
	}
	if result.Suggestion.AnalysisText == "" {
		t.Error("analysis text must describe the failure")
	}
}

func TestAnalysisEndpoint_BadRequests(t *testing.T) {
	router := setupTestRouter(&stubModel{analysisText: stubAnalysisJSON})

	testCases := []struct {
		name string
		body interface{}
	}{
		{"missing image data", map[string]string{"mimeType": "image/png"}},
		{"missing mime type", map[string]string{"imageData": "aGk="}},
		{"unsupported mime type", map[string]string{"imageData": "aGk=", "mimeType": "text/plain"}},
		{"invalid base64", map[string]string{"imageData": "!!!", "mimeType": "image/png"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(router, "/api/v1/analysis", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestChatEndpoint_RoundTrip(t *testing.T) {
	router := setupTestRouter(&stubModel{analysisText: stubAnalysisJSON})

	// Run an analysis first so a session exists.
	w := postJSON(router, "/api/v1/analysis", analysisBody())
	var result domain.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil || result.SessionID == "" {
		t.Fatalf("analysis did not open a session: %v, body %s", err, w.Body.String())
	}

	w = postJSON(router, "/api/v1/chat", map[string]string{
		"sessionId": result.SessionID,
		"message":   "Do they come in black?",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	var chat map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &chat); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if chat["reply"] != "It also comes in black." {
		t.Errorf("reply = %q", chat["reply"])
	}
}

func TestChatEndpoint_UnknownSession(t *testing.T) {
	router := setupTestRouter(&stubModel{analysisText: stubAnalysisJSON})

	w := postJSON(router, "/api/v1/chat", map[string]string{
		"sessionId": "does-not-exist",
		"message":   "hello",
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestChatEndpoint_MalformedBody(t *testing.T) {
	router := setupTestRouter(&stubModel{analysisText: stubAnalysisJSON})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/chat", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEndpoints_NilServicesReturn503(t *testing.T) {
	handler := NewHandler(nil, nil)
	router := SetupRouter(testConfig(), handler)

	if w := postJSON(router, "/api/v1/analysis", analysisBody()); w.Code != http.StatusServiceUnavailable {
		t.Errorf("analysis status = %d, want 503", w.Code)
	}
	if w := postJSON(router, "/api/v1/chat", map[string]string{"sessionId": "x", "message": "y"}); w.Code != http.StatusServiceUnavailable {
		t.Errorf("chat status = %d, want 503", w.Code)
	}
}
