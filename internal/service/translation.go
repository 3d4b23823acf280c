package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/lumenlab/glossa/internal/backend"
	"github.com/lumenlab/glossa/internal/cache"
	"github.com/lumenlab/glossa/internal/core"
)

// TranslationService fronts the backend's translation routes with the
// response cache. Exact-text translations are stable content, so they get
// the longest TTL of any kind.
type TranslationService struct {
	cache   *cache.Cache
	backend core.Backend
}

func NewTranslationService(c *cache.Cache, b core.Backend) *TranslationService {
	return &TranslationService{cache: c, backend: b}
}

// translationKey is the canonical cache payload: same text and language
// pair, same key.
type translationKey struct {
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

func (s *TranslationService) Translate(ctx context.Context, req TranslateRequest) (*TranslateResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, httpError(http.StatusBadRequest, "", fmt.Errorf("text is required"))
	}
	if req.SourceLang == "" || req.TargetLang == "" {
		return nil, httpError(http.StatusBadRequest, "", fmt.Errorf("sourceLang and targetLang are required"))
	}

	key := translationKey{Text: req.Text, SourceLang: req.SourceLang, TargetLang: req.TargetLang}

	if cached, ok := s.cache.Get(ctx, cache.KindTranslation, key); ok {
		return &TranslateResult{
			SourceText:     req.Text,
			TranslatedText: string(cached),
			SourceLang:     req.SourceLang,
			TargetLang:     req.TargetLang,
			Cached:         true,
		}, nil
	}

	raw, err := s.backend.Invoke(ctx, "translate", req)
	if err != nil {
		return nil, backendError(err)
	}

	var resp struct {
		TranslatedText string `json:"translated_text"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, httpError(http.StatusBadGateway, core.CodeBackendError,
			fmt.Errorf("decoding backend response: %w", err))
	}
	if resp.TranslatedText == "" {
		return nil, httpError(http.StatusBadGateway, core.CodeBackendError,
			fmt.Errorf("translation failed: no translated text returned"))
	}

	// Best effort: a failed write only skips memoization for this call.
	s.cache.Put(ctx, cache.KindTranslation, key, []byte(resp.TranslatedText))

	return &TranslateResult{
		SourceText:     req.Text,
		TranslatedText: resp.TranslatedText,
		SourceLang:     req.SourceLang,
		TargetLang:     req.TargetLang,
		Cached:         false,
	}, nil
}

// DetectLanguage is a plain passthrough; detection output is cheap and
// input-dependent enough that it is not memoized.
func (s *TranslationService) DetectLanguage(ctx context.Context, text string) (*DetectLanguageResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, httpError(http.StatusBadRequest, "", fmt.Errorf("text is required for language detection"))
	}

	raw, err := s.backend.Invoke(ctx, "detect-language", map[string]string{"text": text})
	if err != nil {
		return nil, backendError(err)
	}

	var resp struct {
		SuggestedOutput struct {
			Language    string `json:"language"`
			DisplayName string `json:"display_name"`
		} `json:"suggested_output"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, httpError(http.StatusBadGateway, core.CodeBackendError,
			fmt.Errorf("decoding backend response: %w", err))
	}

	return &DetectLanguageResult{
		Language:    resp.SuggestedOutput.Language,
		DisplayName: resp.SuggestedOutput.DisplayName,
	}, nil
}

// TranslateDocument forwards an extracted document payload to the backend.
// The document itself is never stored here; the upload limiters at the
// route boundary are the point of this endpoint.
func (s *TranslationService) TranslateDocument(ctx context.Context, req DocumentTranslateRequest) (*DocumentTranslateResult, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, httpError(http.StatusBadRequest, "", fmt.Errorf("document content is required"))
	}
	if req.SourceLang == "" || req.TargetLang == "" {
		return nil, httpError(http.StatusBadRequest, "", fmt.Errorf("sourceLang and targetLang are required"))
	}

	raw, err := s.backend.Invoke(ctx, "documents/translate", req)
	if err != nil {
		return nil, backendError(err)
	}

	var resp struct {
		TranslatedText string `json:"translated_text"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, httpError(http.StatusBadGateway, core.CodeBackendError,
			fmt.Errorf("decoding backend response: %w", err))
	}

	return &DocumentTranslateResult{
		DocumentName:   req.DocumentName,
		TranslatedText: resp.TranslatedText,
		SourceLang:     req.SourceLang,
		TargetLang:     req.TargetLang,
	}, nil
}

// backendError maps client failures to their HTTP classification: 504 for
// deadline, 502 for everything else.
func backendError(err error) *HTTPError {
	if errors.Is(err, backend.ErrTimeout) {
		return httpError(http.StatusGatewayTimeout, core.CodeBackendTimeout, err)
	}
	return httpError(http.StatusBadGateway, core.CodeBackendError, err)
}

// logDegraded is a shared helper for best-effort cleanup paths.
func logDegraded(ctx context.Context, err error, what string) {
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg(what)
	}
}
