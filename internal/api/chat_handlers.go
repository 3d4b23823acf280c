package api

import (
	"net/http"

	"github.com/lumenlab/glossa/internal/api/presenter"
	"github.com/lumenlab/glossa/internal/auth"
	"github.com/lumenlab/glossa/internal/service"
)

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFromContext(r.Context())

	var req service.SendMessageRequest
	if err := decodePayload(r, &req); err != nil {
		presenter.Reject(w, r, http.StatusBadRequest, err.Error(), "", 0)
		return
	}
	req.ConversationID = r.PathValue("conversationId")

	result, err := s.chat.SendMessage(r.Context(), ident.ID, req)
	if err != nil {
		presenter.Err(w, r, err)
		return
	}
	presenter.Data(w, r, result, http.StatusOK)
}

// handleSharedConversation works for both anonymous and authenticated
// callers; the identity (when present) only toggles the ownership flag.
func (s *Server) handleSharedConversation(w http.ResponseWriter, r *http.Request) {
	ident := auth.IdentityFromContext(r.Context())

	result, err := s.chat.SharedConversation(r.Context(), r.PathValue("conversationId"), ident)
	if err != nil {
		presenter.Err(w, r, err)
		return
	}
	presenter.Data(w, r, result, http.StatusOK)
}
