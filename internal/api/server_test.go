package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lumenlab/glossa/internal/api/presenter"
	"github.com/lumenlab/glossa/internal/auth"
	"github.com/lumenlab/glossa/internal/cache"
	"github.com/lumenlab/glossa/internal/config"
	"github.com/lumenlab/glossa/internal/core"
	"github.com/lumenlab/glossa/internal/service"
	"github.com/lumenlab/glossa/internal/store"
)

const testSecret = "test-secret"

type stubBackend struct {
	calls map[string]int
}

func (b *stubBackend) Invoke(_ context.Context, kind string, _ any) ([]byte, error) {
	if b.calls == nil {
		b.calls = make(map[string]int)
	}
	b.calls[kind]++
	switch kind {
	case "translate", "documents/translate":
		return []byte(`{"translated_text": "hallo"}`), nil
	case "chat":
		return []byte(`{"reply": "of course"}`), nil
	default:
		return []byte(`{}`), nil
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Auth.Secret = testSecret
	cfg.Backend.BaseURL = "http://backend.invalid"
	// keep the in-process bucket out of the way for these tests
	cfg.Limits.Local = config.LocalGuardConfig{RPS: 10000, Burst: 10000}
	return cfg
}

func newTestHandler(t *testing.T, cfg *config.Config) (http.Handler, *stubBackend) {
	t.Helper()

	counters := store.NewMemoryStore()
	identities := store.NewMemoryIdentityStore(
		core.Identity{ID: "u1", Email: "u1@example.com", Name: "User One"},
	)
	c := cache.New(counters, cache.TTLs{
		User:         cfg.Cache.UserTTL,
		Conversation: cfg.Cache.ConversationTTL,
		AI:           cfg.Cache.AITTL,
		Translation:  cfg.Cache.TranslationTTL,
	}, nil)
	be := &stubBackend{}

	srv := NewServer(cfg, identities, counters,
		service.NewTranslationService(c, be),
		service.NewChatService(c, be),
		service.NewSessionService(counters, c),
		nil, nil)
	return srv.Routes(), be
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + signed
}

func do(handler http.Handler, method, path, authorization, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	r.RemoteAddr = "192.0.2.7:41234"
	if authorization != "" {
		r.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) presenter.Response {
	t.Helper()
	var resp presenter.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding envelope: %v (body %s)", err, w.Body)
	}
	return resp
}

func TestHealthAndAbout(t *testing.T) {
	handler, _ := newTestHandler(t, testConfig())

	if w := do(handler, http.MethodGet, HealthCheckRoute, "", ""); w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", w.Code)
	}

	w := do(handler, http.MethodGet, AboutRoute, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("about status = %d, want 200", w.Code)
	}
	var about map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &about); err != nil {
		t.Fatal(err)
	}
	if about["service"] == "" {
		t.Error("about response missing service name")
	}
}

func TestTranslateRequiresAuth(t *testing.T) {
	handler, be := newTestHandler(t, testConfig())

	w := do(handler, http.MethodPost, TranslateRoute, "",
		`{"text": "hello", "sourceLang": "en", "targetLang": "de"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Code != core.CodeNoToken {
		t.Errorf("code = %q, want %q", resp.Code, core.CodeNoToken)
	}
	if be.calls["translate"] != 0 {
		t.Error("unauthenticated request reached the backend")
	}
}

func TestTranslatePipeline(t *testing.T) {
	handler, be := newTestHandler(t, testConfig())
	token := bearer(t, "u1")
	body := `{"text": "hello", "sourceLang": "en", "targetLang": "de"}`

	w := do(handler, http.MethodPost, TranslateRoute, token, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body)
	}
	resp := decodeEnvelope(t, w)
	if !resp.Success {
		t.Fatal("first call not successful")
	}

	// identical payload is served from cache, not from the backend
	w = do(handler, http.MethodPost, TranslateRoute, token, body)
	if w.Code != http.StatusOK {
		t.Fatalf("repeat status = %d", w.Code)
	}
	if be.calls["translate"] != 1 {
		t.Errorf("backend invoked %d times, want 1", be.calls["translate"])
	}

	data, _ := json.Marshal(decodeEnvelope(t, w).Data)
	var result service.TranslateResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if !result.Cached || result.TranslatedText != "hallo" {
		t.Errorf("repeat result = %+v, want cached 'hallo'", result)
	}
}

func TestMessageWindowLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.Message = config.WindowLimit{Window: time.Minute, Max: 3}
	handler, _ := newTestHandler(t, cfg)
	token := bearer(t, "u1")

	send := func(msg string) *httptest.ResponseRecorder {
		return do(handler, http.MethodPost, "/v1/chat/conversations/c1/messages", token,
			`{"conversationId": "c1", "message": "`+msg+`", "mode": "NORMAL"}`)
	}

	for i := 0; i < 3; i++ {
		if w := send(string(rune('a' + i))); w.Code != http.StatusOK {
			t.Fatalf("message %d: status = %d (body %s)", i+1, w.Code, w.Body)
		}
	}

	w := send("d")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Code != core.CodeMessageRateLimit {
		t.Errorf("code = %q, want %q", resp.Code, core.CodeMessageRateLimit)
	}
	if resp.RetryAfter <= 0 {
		t.Errorf("retryAfter = %d, want positive", resp.RetryAfter)
	}
}

func TestSessionCeilingClearsOnLogout(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.Session.Message = 2
	handler, _ := newTestHandler(t, cfg)
	token := bearer(t, "u1")

	send := func(msg string) *httptest.ResponseRecorder {
		return do(handler, http.MethodPost, "/v1/chat/conversations/c1/messages", token,
			`{"conversationId": "c1", "message": "`+msg+`", "mode": "NORMAL"}`)
	}

	for i := 0; i < 2; i++ {
		if w := send(string(rune('a' + i))); w.Code != http.StatusOK {
			t.Fatalf("message %d: status = %d (body %s)", i+1, w.Code, w.Body)
		}
	}

	w := send("c")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Code != core.CodeRateLimit {
		t.Errorf("code = %q, want %q", resp.Code, core.CodeRateLimit)
	}

	if w := do(handler, http.MethodPost, LogoutRoute, token, ""); w.Code != http.StatusOK {
		t.Fatalf("logout status = %d (body %s)", w.Code, w.Body)
	}

	if w := send("d"); w.Code != http.StatusOK {
		t.Fatalf("post-logout status = %d, want 200 (body %s)", w.Code, w.Body)
	}
}

func TestDocumentTranslatePipeline(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.Upload = config.WindowLimit{Window: time.Hour, Max: 2}
	handler, be := newTestHandler(t, cfg)
	token := bearer(t, "u1")

	send := func(name string) *httptest.ResponseRecorder {
		return do(handler, http.MethodPost, DocumentTranslateRoute, token,
			`{"documentName": "`+name+`", "content": "hello world", "sourceLang": "en", "targetLang": "de"}`)
	}

	w := send("a.txt")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body)
	}
	data, _ := json.Marshal(decodeEnvelope(t, w).Data)
	var result service.DocumentTranslateResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if result.DocumentName != "a.txt" || result.TranslatedText != "hallo" {
		t.Fatalf("result = %+v", result)
	}

	if w := send("b.txt"); w.Code != http.StatusOK {
		t.Fatalf("second upload status = %d (body %s)", w.Code, w.Body)
	}

	// the upload window is exhausted; the backend must not see a third call
	w = send("c.txt")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Code != core.CodeUploadRateLimit {
		t.Errorf("code = %q, want %q", resp.Code, core.CodeUploadRateLimit)
	}
	if resp.RetryAfter <= 0 || resp.RetryAfter > 3600 {
		t.Errorf("retryAfter = %d, want within (0, 3600]", resp.RetryAfter)
	}
	if be.calls["documents/translate"] != 2 {
		t.Errorf("backend invoked %d times, want 2", be.calls["documents/translate"])
	}
}

func TestDocumentSessionCeiling(t *testing.T) {
	cfg := testConfig()
	cfg.Limits.Session.Upload = 1
	handler, _ := newTestHandler(t, cfg)
	token := bearer(t, "u1")

	body := `{"content": "hello", "sourceLang": "en", "targetLang": "de"}`
	if w := do(handler, http.MethodPost, DocumentTranslateRoute, token, body); w.Code != http.StatusOK {
		t.Fatalf("first upload status = %d (body %s)", w.Code, w.Body)
	}

	w := do(handler, http.MethodPost, DocumentTranslateRoute, token, body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Code != core.CodeRateLimit {
		t.Errorf("code = %q, want %q", resp.Code, core.CodeRateLimit)
	}
}

func TestSharedConversationAnonymous(t *testing.T) {
	handler, _ := newTestHandler(t, testConfig())
	token := bearer(t, "u1")

	w := do(handler, http.MethodPost, "/v1/chat/conversations/c1/messages", token,
		`{"conversationId": "c1", "message": "hi", "mode": "NORMAL"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("send status = %d (body %s)", w.Code, w.Body)
	}

	// anonymous read succeeds, without ownership
	w = do(handler, http.MethodGet, "/v1/chat/shared/c1", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous shared status = %d (body %s)", w.Code, w.Body)
	}
	data, _ := json.Marshal(decodeEnvelope(t, w).Data)
	var shared service.SharedConversationResult
	if err := json.Unmarshal(data, &shared); err != nil {
		t.Fatal(err)
	}
	if shared.IsOwner {
		t.Error("anonymous caller reported as owner")
	}

	// the owner gets the flag
	w = do(handler, http.MethodGet, "/v1/chat/shared/c1", token, "")
	data, _ = json.Marshal(decodeEnvelope(t, w).Data)
	if err := json.Unmarshal(data, &shared); err != nil {
		t.Fatal(err)
	}
	if !shared.IsOwner {
		t.Error("owner not reported as owner")
	}

	// unknown conversation
	if w := do(handler, http.MethodGet, "/v1/chat/shared/nope", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown conversation status = %d, want 404", w.Code)
	}
}

func TestUnknownFieldRejected(t *testing.T) {
	handler, _ := newTestHandler(t, testConfig())

	w := do(handler, http.MethodPost, TranslateRoute, bearer(t, "u1"),
		`{"text": "hello", "sourceLang": "en", "targetLang": "de", "surprise": true}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
