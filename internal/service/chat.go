package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/lumenlab/glossa/internal/cache"
	"github.com/lumenlab/glossa/internal/core"
)

// ChatService fronts the backend's chat route. AI replies are memoized by
// (query, mode); conversation state is a short-lived cache entry only,
// transcript persistence is owned by another system.
type ChatService struct {
	cache   *cache.Cache
	backend core.Backend
}

func NewChatService(c *cache.Cache, b core.Backend) *ChatService {
	return &ChatService{cache: c, backend: b}
}

// aiKey is the canonical payload for AI-response memoization.
type aiKey struct {
	Query string `json:"query"`
	Mode  string `json:"mode"`
}

func validMode(mode string) bool {
	return mode == ModeNormal || mode == ModeAgentic
}

func (s *ChatService) SendMessage(ctx context.Context, userID string, req SendMessageRequest) (*SendMessageResult, error) {
	if req.ConversationID == "" {
		return nil, httpError(http.StatusBadRequest, "", fmt.Errorf("conversation ID is required"))
	}
	if req.Message == "" {
		return nil, httpError(http.StatusBadRequest, "", fmt.Errorf("message is required"))
	}
	if !validMode(req.Mode) {
		return nil, httpError(http.StatusBadRequest, "",
			fmt.Errorf("mode is required and must be either NORMAL or AGENTIC"))
	}

	key := aiKey{Query: req.Message, Mode: req.Mode}

	var reply string
	cached := false
	if raw, ok := s.cache.Get(ctx, cache.KindAI, key); ok {
		reply = string(raw)
		cached = true
	} else {
		raw, err := s.backend.Invoke(ctx, "chat", map[string]any{
			"conversation_id": req.ConversationID,
			"message":         req.Message,
			"mode":            req.Mode,
			"input_language":  req.InputLanguage,
			"output_language": req.OutputLanguage,
		})
		if err != nil {
			return nil, backendError(err)
		}

		var resp struct {
			Reply string `json:"reply"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, httpError(http.StatusBadGateway, core.CodeBackendError,
				fmt.Errorf("decoding backend response: %w", err))
		}
		if resp.Reply == "" {
			return nil, httpError(http.StatusBadGateway, core.CodeBackendError,
				fmt.Errorf("chat failed: no reply returned"))
		}

		reply = resp.Reply
		s.cache.Put(ctx, cache.KindAI, key, []byte(reply))
	}

	result := &SendMessageResult{
		MessageID:      uuid.NewString(),
		ConversationID: req.ConversationID,
		Reply:          reply,
		Mode:           req.Mode,
		Cached:         cached,
	}

	s.cache.PutJSON(ctx, cache.KindConversation, req.ConversationID, ConversationState{
		ConversationID: req.ConversationID,
		OwnerID:        userID,
		LastMessageID:  result.MessageID,
		LastReply:      reply,
		Mode:           req.Mode,
	})

	return result, nil
}

// SharedConversation reads the cached state for a shared conversation.
// ident is nil for anonymous callers; owners get an ownership flag back so
// the frontend can offer owner actions.
func (s *ChatService) SharedConversation(ctx context.Context, conversationID string, ident *core.Identity) (*SharedConversationResult, error) {
	var state ConversationState
	if !s.cache.GetJSON(ctx, cache.KindConversation, conversationID, &state) {
		return nil, httpError(http.StatusNotFound, "", fmt.Errorf("conversation not found or expired"))
	}

	return &SharedConversationResult{
		ConversationID: state.ConversationID,
		LastReply:      state.LastReply,
		Mode:           state.Mode,
		IsOwner:        ident != nil && ident.ID == state.OwnerID,
	}, nil
}
