package api

import (
	"net/http"

	"github.com/lumenlab/glossa/internal/api/presenter"
	"github.com/lumenlab/glossa/internal/service"
)

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req service.TranslateRequest
	if err := decodePayload(r, &req); err != nil {
		presenter.Reject(w, r, http.StatusBadRequest, err.Error(), "", 0)
		return
	}

	result, err := s.translation.Translate(r.Context(), req)
	if err != nil {
		presenter.Err(w, r, err)
		return
	}
	presenter.Data(w, r, result, http.StatusOK)
}

func (s *Server) handleDetectLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodePayload(r, &req); err != nil {
		presenter.Reject(w, r, http.StatusBadRequest, err.Error(), "", 0)
		return
	}

	result, err := s.translation.DetectLanguage(r.Context(), req.Text)
	if err != nil {
		presenter.Err(w, r, err)
		return
	}
	presenter.Data(w, r, result, http.StatusOK)
}

func (s *Server) handleDocumentTranslate(w http.ResponseWriter, r *http.Request) {
	var req service.DocumentTranslateRequest
	if err := decodePayload(r, &req); err != nil {
		presenter.Reject(w, r, http.StatusBadRequest, err.Error(), "", 0)
		return
	}

	result, err := s.translation.TranslateDocument(r.Context(), req)
	if err != nil {
		presenter.Err(w, r, err)
		return
	}
	presenter.Data(w, r, result, http.StatusOK)
}
